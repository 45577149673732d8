package migrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"sql/0001_widgets.up.sql":   {Data: []byte(`create table widgets (id integer primary key, label text not null default 'a;b');`)},
		"sql/0001_widgets.down.sql": {Data: []byte(`drop table widgets;`)},
		"sql/0002_gadgets.up.sql":   {Data: []byte("create table gadgets (id integer primary key);\ninsert into gadgets(id) values (1);")},
		"sql/0002_gadgets.down.sql": {Data: []byte(`drop table gadgets;`)},
		"sql/README.md":             {Data: []byte("ignored")},
	}
}

func TestUpAppliesPendingOnce(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	m := NewManager(db, testFS(), WithDir("sql"), WithDialect(SQLite))

	applied, err := m.Up(ctx)
	if err != nil {
		t.Fatalf("up: %v", err)
	}
	want := []string{"0001_widgets.up.sql", "0002_gadgets.up.sql"}
	if !reflect.DeepEqual(applied, want) {
		t.Fatalf("applied = %v, want %v", applied, want)
	}

	again, err := m.Up(ctx)
	if err != nil {
		t.Fatalf("second up: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("second up applied %v", again)
	}

	var n int
	if err := db.QueryRowContext(ctx, `select count(*) from gadgets`).Scan(&n); err != nil || n != 1 {
		t.Fatalf("gadgets count = %d, err = %v", n, err)
	}
}

func TestDownRollsBackLatest(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	m := NewManager(db, testFS(), WithDir("sql"), WithDialect(SQLite))
	if _, err := m.Up(ctx); err != nil {
		t.Fatalf("up: %v", err)
	}

	name, err := m.Down(ctx)
	if err != nil {
		t.Fatalf("down: %v", err)
	}
	if name != "0002_gadgets.up.sql" {
		t.Fatalf("rolled back %q", name)
	}
	status, err := m.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !reflect.DeepEqual(status, []string{"0001_widgets.up.sql"}) {
		t.Fatalf("status = %v", status)
	}
	if _, err := db.ExecContext(ctx, `select 1 from gadgets`); err == nil {
		t.Fatal("gadgets table should be gone")
	}
}

func TestDownWithoutHistory(t *testing.T) {
	m := NewManager(openSQLite(t), testFS(), WithDir("sql"), WithDialect(SQLite))
	if _, err := m.Down(context.Background()); err == nil {
		t.Fatal("expected error when nothing is applied")
	}
}

func TestSplitStatementsKeepsQuotedSemicolons(t *testing.T) {
	got := splitStatements("insert into t values ('a;b'); select 1;")
	if len(got) != 2 {
		t.Fatalf("statements = %q", got)
	}
}
