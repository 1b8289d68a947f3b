package ingest

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/agentic-research/nestree/api"
	"github.com/agentic-research/nestree/internal/source"
	_ "modernc.org/sqlite"
)

// SQLiteWriter bulk-loads records into a nested-set table readable by
// source.SQLiteSource. Inserts are batched into transactions of batchSize rows.
type SQLiteWriter struct {
	db        *sql.DB
	tx        *sql.Tx
	stmt      *sql.Stmt
	table     string
	cols      source.Columns
	batchSize int
	count     int
	total     int
	mu        sync.Mutex
}

// NewSQLiteWriter opens (or creates) the database at dbPath and creates the
// table if it does not exist.
func NewSQLiteWriter(dbPath, table string, cols source.Columns) (*SQLiteWriter, error) {
	if table == "" {
		table = "tree"
	}
	if cols == (source.Columns{}) {
		cols = source.DefaultColumns()
	}
	if !source.ValidIdentifier(table) {
		return nil, fmt.Errorf("table: invalid identifier %q", table)
	}
	if err := cols.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Performance tuning for bulk insert
	if _, err := db.Exec("PRAGMA synchronous = OFF"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		_ = db.Close()
		return nil, err
	}

	active := ""
	if cols.Active != "" {
		active = fmt.Sprintf(",\n\t\t%q INTEGER NOT NULL DEFAULT 1", cols.Active)
	}
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %q (
		%q INTEGER PRIMARY KEY,
		%q TEXT NOT NULL DEFAULT '',
		%q INTEGER NOT NULL,
		%q INTEGER NOT NULL,
		%q INTEGER NOT NULL,
		%q INTEGER NOT NULL%s
	)`, table, cols.ID, cols.Title, cols.Left, cols.Right, cols.Level, cols.Root, active)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	w := &SQLiteWriter{
		db:        db,
		table:     table,
		cols:      cols,
		batchSize: 10000,
	}
	if err := w.beginTx(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *SQLiteWriter) beginTx() error {
	var err error
	w.tx, err = w.db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert tx: %w", err)
	}

	colNames := fmt.Sprintf("%q, %q, %q, %q, %q, %q", w.cols.ID, w.cols.Title, w.cols.Left, w.cols.Right, w.cols.Level, w.cols.Root)
	placeholders := "?, ?, ?, ?, ?, ?"
	if w.cols.Active != "" {
		colNames += fmt.Sprintf(", %q", w.cols.Active)
		placeholders += ", ?"
	}
	w.stmt, err = w.tx.Prepare(fmt.Sprintf("INSERT OR REPLACE INTO %q (%s) VALUES (%s)", w.table, colNames, placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	return nil
}

func (w *SQLiteWriter) commitTx() error {
	if w.stmt != nil {
		_ = w.stmt.Close()
		w.stmt = nil
	}
	if err := w.tx.Commit(); err != nil {
		return fmt.Errorf("commit insert tx: %w", err)
	}
	return nil
}

// Write inserts one record. Records without a known Right boundary must be
// completed with FillRight before they are written.
func (w *SQLiteWriter) Write(r api.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	args := []any{int64(r.ID), r.Title, r.Left, r.Right, r.Level, int64(r.Root)}
	if w.cols.Active != "" {
		active := 0
		if r.Active {
			active = 1
		}
		args = append(args, active)
	}
	if _, err := w.stmt.Exec(args...); err != nil {
		return fmt.Errorf("insert record %d: %w", r.ID, err)
	}

	w.total++
	w.count++
	if w.count >= w.batchSize {
		if err := w.commitTx(); err != nil {
			return err
		}
		if err := w.beginTx(); err != nil {
			return err
		}
		w.count = 0
	}
	return nil
}

// Total returns the number of records written so far.
func (w *SQLiteWriter) Total() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.total
}

// Close commits pending rows, builds the boundary index and closes the database.
func (w *SQLiteWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.commitTx(); err != nil {
		_ = w.db.Close()
		return err
	}

	// Create indices after bulk load for speed
	idx := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %q(%q, %q)`,
		"idx_"+w.table+"_root_lft", w.table, w.cols.Root, w.cols.Left)
	if _, err := w.db.Exec(idx); err != nil {
		_ = w.db.Close()
		return fmt.Errorf("create boundary index: %w", err)
	}
	return w.db.Close()
}
