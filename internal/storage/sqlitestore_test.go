package storage

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "clinic.db"))
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	if data, err := store.Load(ctx, "appointments"); err != nil || data != nil {
		t.Fatalf("load absent collection = (%v, %v), want (nil, nil)", data, err)
	}

	payload := []byte(`{"format":"clinic-records/v1","records":[{"id":"A0001"}]}`)
	if err := store.Save(ctx, "appointments", payload); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx, "appointments")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("load = %s, want %s", got, payload)
	}
}

func TestSQLiteStoreSaveUpserts(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "bills", []byte("one")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "bills", []byte("two")); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := store.Load(ctx, "bills")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != "two" {
		t.Errorf("load = %q, want two", got)
	}
}

func TestSQLiteStoreAppend(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, "audit", []byte(`{"type":"a"}`)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append(ctx, "audit", []byte(`{"type":"b"}`)); err != nil {
		t.Fatalf("append: %v", err)
	}

	rows, err := store.db.Query(`SELECT line FROM events WHERE stream = ? ORDER BY id`, "audit")
	if err != nil {
		t.Fatalf("query events: %v", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line []byte
		if err := rows.Scan(&line); err != nil {
			t.Fatalf("scan: %v", err)
		}
		lines = append(lines, string(line))
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(lines) != 2 || lines[0] != `{"type":"a"}` || lines[1] != `{"type":"b"}` {
		t.Errorf("events = %v, want two lines in insert order", lines)
	}
}
