package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	if data, err := store.Load(ctx, "patients"); err != nil || data != nil {
		t.Fatalf("load absent collection = (%v, %v), want (nil, nil)", data, err)
	}

	payload := []byte(`{"format":"clinic-records/v1","records":[]}`)
	if err := store.Save(ctx, "patients", payload); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx, "patients")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("load = %s, want %s", got, payload)
	}
}

func TestFileStoreSaveReplacesInFull(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, "bills", []byte("first payload, quite long")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "bills", []byte("short")); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx, "bills")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != "short" {
		t.Errorf("load = %q, want the second payload only", got)
	}

	// No temp files may be left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestFileStoreAppend(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	if err := store.Append(ctx, "audit", []byte(`{"type":"a"}`)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append(ctx, "audit", []byte(`{"type":"b"}`)); err != nil {
		t.Fatalf("append: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "audit.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	want := "{\"type\":\"a\"}\n{\"type\":\"b\"}\n"
	if string(raw) != want {
		t.Errorf("log = %q, want %q", raw, want)
	}
}

func TestNewFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	if _, err := NewFileStore(dir); err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("expected data directory to exist: %v", err)
	}
}
