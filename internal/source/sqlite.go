package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/agentic-research/nestree/api"
	"github.com/agentic-research/nestree/internal/nestedset"
	_ "modernc.org/sqlite"
)

// SQLiteOptions configures OpenSQLite.
type SQLiteOptions struct {
	Table   string  // defaults to "tree"
	Columns Columns // defaults to DefaultColumns()
	Logger  *slog.Logger
}

// SQLiteSource reads nested-set records straight from a SQLite table.
// The database is opened read-only; nestree never writes to a source it serves.
//
// Children and descendant counts are answered with boundary arithmetic
// (lft/rgt ranges), so every call is a single indexed range query.
type SQLiteSource struct {
	db     *sql.DB
	path   string
	table  string
	cols   Columns
	sel    string // "SELECT <cols> FROM <table>"
	logger *slog.Logger
}

// OpenSQLite opens the database at path.
func OpenSQLite(path string, opts SQLiteOptions) (*SQLiteSource, error) {
	if opts.Table == "" {
		opts.Table = "tree"
	}
	if opts.Columns == (Columns{}) {
		opts.Columns = DefaultColumns()
	}
	if !ValidIdentifier(opts.Table) {
		return nil, fmt.Errorf("table: invalid identifier %q", opts.Table)
	}
	if err := opts.Columns.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	db, err := sql.Open("sqlite", readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(4)

	if err := db.Ping(); err != nil {
		_ = db.Close() // ignore error
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}

	return &SQLiteSource{
		db:     db,
		path:   path,
		table:  opts.Table,
		cols:   opts.Columns,
		sel:    fmt.Sprintf("SELECT %s FROM %s", opts.Columns.selectList(), quote(opts.Table)),
		logger: opts.Logger,
	}, nil
}

// uriEscaper escapes the characters that end or escape the path part of a
// SQLite URI filename.
var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// readOnlyDSN builds a URI filename; query parameters such as mode are only
// honoured for "file:" names. A missing database fails to open instead of
// being created.
func readOnlyDSN(path string) string {
	return "file:" + uriEscaper.Replace(path) + "?mode=ro"
}

// Close closes the database connection.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// Roots implements nestedset.Source.
func (s *SQLiteSource) Roots(ctx context.Context) ([]api.Record, error) {
	q := fmt.Sprintf("%s WHERE %s = 1 ORDER BY %s, %s",
		s.sel, quote(s.cols.Left), quote(s.cols.Root), quote(s.cols.Left))
	return s.query(ctx, "roots", q)
}

// Children implements nestedset.Source.
func (s *SQLiteSource) Children(ctx context.Context, parent api.Record) ([]api.Record, error) {
	right := parent.Right
	if right == 0 {
		var stored sql.NullInt64
		err := s.db.QueryRowContext(ctx,
			fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", quote(s.cols.Right), quote(s.table), quote(s.cols.ID)),
			parent.ID).Scan(&stored)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("fetch right boundary of %d: %w", parent.ID, err)
		}
		if stored.Int64 <= int64(parent.Left) {
			desc, err := s.descendants(ctx, parent)
			if err != nil {
				return nil, err
			}
			var out []api.Record
			for _, r := range desc {
				if r.Level == parent.Level+1 {
					out = append(out, r)
				}
			}
			return out, nil
		}
		right = int(stored.Int64)
	}

	q := fmt.Sprintf("%s WHERE %s = ? AND %s = ? AND %s > ? AND %s < ? ORDER BY %s",
		s.sel, quote(s.cols.Root), quote(s.cols.Level), quote(s.cols.Left), quote(s.cols.Left), quote(s.cols.Left))
	out, err := s.query(ctx, "children", q, parent.Root, parent.Level+1, parent.Left, right)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("fetch children", "parent", parent.ID, "count", len(out))
	return out, nil
}

// Get implements nestedset.Source.
func (s *SQLiteSource) Get(ctx context.Context, id api.ID) (api.Record, error) {
	q := fmt.Sprintf("%s WHERE %s = ?", s.sel, quote(s.cols.ID))
	r, err := scanRecord(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return api.Record{}, fmt.Errorf("record %d: %w", id, nestedset.ErrNotFound)
	}
	if err != nil {
		return api.Record{}, fmt.Errorf("fetch record %d: %w", id, err)
	}
	return r, nil
}

// Flat implements nestedset.Source.
func (s *SQLiteSource) Flat(ctx context.Context, exclude api.ID) ([]api.Record, error) {
	q := fmt.Sprintf("%s WHERE %s <> ? ORDER BY %s, %s",
		s.sel, quote(s.cols.ID), quote(s.cols.Root), quote(s.cols.Left))
	return s.query(ctx, "flat", q, exclude)
}

// Scoped implements nestedset.Source.
func (s *SQLiteSource) Scoped(ctx context.Context, scope nestedset.Scope) ([]api.Record, error) {
	q := fmt.Sprintf("%s WHERE %s = ? OR %s = ? ORDER BY %s, %s",
		s.sel, quote(s.cols.Root), quote(s.cols.Root), quote(s.cols.Left), quote(s.cols.Root))
	return s.query(ctx, "scoped", q, scope.Self, scope.Group)
}

// CountDescendants implements nestedset.Source.
func (s *SQLiteSource) CountDescendants(ctx context.Context, id api.ID) (int, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if n, ok := r.Descendants(); ok {
		return n, nil
	}
	desc, err := s.descendants(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("count descendants of %d: %w", id, err)
	}
	return len(desc), nil
}

// descendants scans parent's group in Left order for rows without a usable
// right boundary. The subtree ends at the first row back at parent's level.
func (s *SQLiteSource) descendants(ctx context.Context, parent api.Record) ([]api.Record, error) {
	q := fmt.Sprintf("%s WHERE %s = ? AND %s > ? ORDER BY %s",
		s.sel, quote(s.cols.Root), quote(s.cols.Left), quote(s.cols.Left))
	rows, err := s.query(ctx, "descendants", q, parent.Root, parent.Left)
	if err != nil {
		return nil, err
	}
	for i, r := range rows {
		if r.Level <= parent.Level {
			return rows[:i], nil
		}
	}
	return rows, nil
}

func (s *SQLiteSource) query(ctx context.Context, what, q string, args ...any) ([]api.Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", what, err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var out []api.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s row: %w", what, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", what, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (api.Record, error) {
	var (
		r      api.Record
		title  sql.NullString
		right  sql.NullInt64
		root   sql.NullInt64
		active sql.NullInt64
	)
	if err := row.Scan(&r.ID, &title, &r.Left, &right, &r.Level, &root, &active); err != nil {
		return api.Record{}, err
	}
	r.Title = title.String
	r.Right = int(right.Int64)
	r.Root = api.ID(root.Int64)
	r.Active = !active.Valid || active.Int64 != 0
	r.ChildCount = -1
	return r, nil
}

// Verify interface compliance at compile time.
var _ nestedset.Source = (*SQLiteSource)(nil)
