package source

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/nestree/api"
	"github.com/agentic-research/nestree/internal/nestedset"
)

func createTestDB(t *testing.T, table string, cols Columns, records []api.Record) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tree.db")

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.Exec(fmt.Sprintf(
		`CREATE TABLE %q (%q INTEGER PRIMARY KEY, %q TEXT, %q INTEGER NOT NULL, %q INTEGER, %q INTEGER NOT NULL, %q INTEGER, %q INTEGER)`,
		table, cols.ID, cols.Title, cols.Left, cols.Right, cols.Level, cols.Root, cols.Active))
	require.NoError(t, err)

	insert := fmt.Sprintf(`INSERT INTO %q VALUES (?, ?, ?, ?, ?, ?, ?)`, table)
	for _, r := range records {
		active := 0
		if r.Active {
			active = 1
		}
		var right any
		if r.Right > 0 {
			right = r.Right
		}
		_, err = db.Exec(insert, r.ID, r.Title, r.Left, right, r.Level, r.Root, active)
		require.NoError(t, err)
	}
	return dbPath
}

func openFixture(t *testing.T) *SQLiteSource {
	t.Helper()
	path := createTestDB(t, "tree", DefaultColumns(), fixture())
	s, err := OpenSQLite(path, SQLiteOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteRootsAndChildren(t *testing.T) {
	s := openFixture(t)
	ctx := context.Background()

	roots, err := s.Roots(ctx)
	require.NoError(t, err)
	assert.Equal(t, []api.ID{1, 8}, recordIDs(roots))
	assert.Equal(t, -1, roots[0].ChildCount)

	children, err := s.Children(ctx, roots[0])
	require.NoError(t, err)
	assert.Equal(t, []api.ID{2, 5}, recordIDs(children))

	// A parent without a known right boundary is looked up first.
	garden := children[1]
	garden.Right = 0
	children, err = s.Children(ctx, garden)
	require.NoError(t, err)
	assert.Equal(t, []api.ID{6}, recordIDs(children))

	children, err = s.Children(ctx, api.Record{ID: 404, Root: 1, Level: 0, Left: 1})
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestSQLiteGet(t *testing.T) {
	s := openFixture(t)
	ctx := context.Background()

	r, err := s.Get(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, api.Record{ID: 4, Title: "Saws", Left: 5, Right: 6, Level: 2, Root: 1, Active: false, ChildCount: -1}, r)

	_, err = s.Get(ctx, 404)
	assert.ErrorIs(t, err, nestedset.ErrNotFound)
}

func TestSQLiteFlatAndScoped(t *testing.T) {
	s := openFixture(t)
	ctx := context.Background()

	flat, err := s.Flat(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []api.ID{2, 3, 4, 5, 6, 7, 8, 9}, recordIDs(flat))

	scoped, err := s.Scoped(ctx, nestedset.Scope{Self: 3, Group: 1})
	require.NoError(t, err)
	assert.Equal(t, []api.ID{1, 2, 3, 4, 5, 6, 7}, recordIDs(scoped))

	scoped, err = s.Scoped(ctx, nestedset.Scope{Self: 8, Group: 8})
	require.NoError(t, err)
	assert.Equal(t, []api.ID{8, 9}, recordIDs(scoped))
}

func TestSQLiteCountDescendants(t *testing.T) {
	s := openFixture(t)
	ctx := context.Background()

	for id, want := range map[api.ID]int{1: 6, 2: 2, 6: 1, 7: 0, 8: 1} {
		n, err := s.CountDescendants(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, n, "record %d", id)
	}

	_, err := s.CountDescendants(ctx, 404)
	assert.ErrorIs(t, err, nestedset.ErrNotFound)
}

func TestSQLiteWithoutRightBoundaries(t *testing.T) {
	records := fixture()
	for i := range records {
		if records[i].Root == 1 && records[i].ID != 2 {
			records[i].Right = 0
		}
	}
	path := createTestDB(t, "tree", DefaultColumns(), records)
	s, err := OpenSQLite(path, SQLiteOptions{})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	root, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, root.Right)

	children, err := s.Children(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, []api.ID{2, 5}, recordIDs(children))

	garden, err := s.Get(ctx, 5)
	require.NoError(t, err)
	children, err = s.Children(ctx, garden)
	require.NoError(t, err)
	assert.Equal(t, []api.ID{6}, recordIDs(children))

	for id, want := range map[api.ID]int{1: 6, 2: 2, 5: 2, 6: 1, 7: 0} {
		n, err := s.CountDescendants(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, n, "record %d", id)
	}

	fromDB, err := nestedset.NewBuilder(s).Tree(ctx, nestedset.AllRoots(), nestedset.Unbounded())
	require.NoError(t, err)
	fromMem, err := nestedset.NewBuilder(NewMemoryStore(fixture()...)).Tree(ctx, nestedset.AllRoots(), nestedset.Unbounded())
	require.NoError(t, err)
	assert.Equal(t, fromMem, fromDB)
}

func TestSQLiteCustomColumns(t *testing.T) {
	cols := Columns{ID: "term_id", Title: "label", Left: "l", Right: "r", Level: "depth", Root: "tree_id", Active: "visible"}
	path := createTestDB(t, "terms", cols, fixture())

	s, err := OpenSQLite(path, SQLiteOptions{Table: "terms", Columns: cols})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	b := nestedset.NewBuilder(s)
	opts, err := b.Options(context.Background(), nestedset.ByID(5), nestedset.Unbounded())
	require.NoError(t, err)
	assert.Equal(t, []api.Option{
		{ID: 5, Label: "Garden"},
		{ID: 6, Label: "—›Seeds"},
		{ID: 7, Label: "——›Tomato"},
	}, nestedset.Entries(opts))
}

func TestSQLiteWithoutActiveColumn(t *testing.T) {
	path := createTestDB(t, "tree", DefaultColumns(), fixture())
	cols := DefaultColumns()
	cols.Active = ""

	s, err := OpenSQLite(path, SQLiteOptions{Columns: cols})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	r, err := s.Get(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, r.Active)
}

func TestOpenSQLiteRejectsBadIdentifiers(t *testing.T) {
	_, err := OpenSQLite("unused.db", SQLiteOptions{Table: "tree; DROP TABLE tree"})
	assert.Error(t, err)

	cols := DefaultColumns()
	cols.Left = "lft--"
	_, err = OpenSQLite("unused.db", SQLiteOptions{Columns: cols})
	assert.Error(t, err)
}

func TestOpenSQLiteMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.db")

	_, err := OpenSQLite(path, SQLiteOptions{})
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestSQLiteSourceIsReadOnly(t *testing.T) {
	s := openFixture(t)

	_, err := s.db.Exec(`CREATE TABLE scratch (id INTEGER)`)
	assert.Error(t, err)
	_, err = s.db.Exec(`DELETE FROM tree`)
	assert.Error(t, err)

	roots, err := s.Roots(context.Background())
	require.NoError(t, err)
	assert.Len(t, roots, 2)
}

func TestReadOnlyDSN(t *testing.T) {
	assert.Equal(t, "file:/data/tree.db?mode=ro", readOnlyDSN("/data/tree.db"))
	assert.Equal(t, "file:/data/a%3fb%23c%2520.db?mode=ro", readOnlyDSN("/data/a?b#c%20.db"))
}

func TestSQLiteMatchesMemoryStore(t *testing.T) {
	db := openFixture(t)
	mem := NewMemoryStore(fixture()...)
	ctx := context.Background()

	fromDB, err := nestedset.NewBuilder(db).Tree(ctx, nestedset.AllRoots(), nestedset.Unbounded())
	require.NoError(t, err)
	fromMem, err := nestedset.NewBuilder(mem).Tree(ctx, nestedset.AllRoots(), nestedset.Unbounded())
	require.NoError(t, err)
	assert.Equal(t, fromMem, fromDB)

	dbList, err := nestedset.NewBuilder(db).ScopedList(ctx, 9)
	require.NoError(t, err)
	memList, err := nestedset.NewBuilder(mem).ScopedList(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, nestedset.Entries(memList), nestedset.Entries(dbList))
}

func TestColumnsValidate(t *testing.T) {
	require.NoError(t, DefaultColumns().Validate())

	cols := DefaultColumns()
	cols.Active = ""
	require.NoError(t, cols.Validate())

	cols.Root = "1root"
	assert.Error(t, cols.Validate())

	assert.True(t, ValidIdentifier("_tree2"))
	assert.False(t, ValidIdentifier(""))
	assert.False(t, ValidIdentifier("tree name"))
}
