package history

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// testDB builds a bun handle for rendering SQL; nothing connects
func testDB() *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN("postgres://localhost:5432/history_test?sslmode=disable")))
	return bun.NewDB(sqldb, pgdialect.New())
}

func renderSQL(t *testing.T, db *bun.DB, q *bun.CreateTableQuery) string {
	t.Helper()
	b, err := q.AppendQuery(db.Formatter(), nil)
	if err != nil {
		t.Fatalf("failed to render query: %v", err)
	}
	return string(b)
}

func TestCreateTableQueries_ForeignKeys(t *testing.T) {
	db := testDB()
	queries := createTableQueries(db)
	if len(queries) != 3 {
		t.Fatalf("expected 3 create-table queries, got %d", len(queries))
	}

	sessions := renderSQL(t, db, queries[0])
	if !strings.Contains(sessions, `"chat_sessions"`) {
		t.Errorf("expected chat_sessions table first, got:\n%s", sessions)
	}
	if strings.Contains(sessions, "REFERENCES") {
		t.Errorf("chat_sessions must not reference anything, got:\n%s", sessions)
	}

	for i, table := range []string{`"chat_messages"`, `"tasks"`} {
		qsql := renderSQL(t, db, queries[i+1])
		if !strings.Contains(qsql, table) {
			t.Errorf("expected table %s, got:\n%s", table, qsql)
		}
		if !strings.Contains(qsql, `REFERENCES "chat_sessions" ("id")`) {
			t.Errorf("%s missing session foreign key, got:\n%s", table, qsql)
		}
		if !strings.Contains(qsql, "ON DELETE CASCADE") {
			t.Errorf("%s missing cascade clause, got:\n%s", table, qsql)
		}
	}
}

func TestConnect_DisabledWithoutDSN(t *testing.T) {
	store, err := Connect(nil)
	if err != nil || store != nil {
		t.Fatalf("expected disabled store for nil config, got %v, %v", store, err)
	}

	// every method must be a no-op on the disabled store
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Errorf("Init on disabled store: %v", err)
	}
	if id, err := store.NewSession(ctx, "x"); err != nil || id != "" {
		t.Errorf("NewSession on disabled store: %q, %v", id, err)
	}
	if err := store.AppendMessage(ctx, "", "user", "hi", nil); err != nil {
		t.Errorf("AppendMessage on disabled store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close on disabled store: %v", err)
	}
}
