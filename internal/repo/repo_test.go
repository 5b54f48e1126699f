package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/medidesk/clinic-records/internal/storage"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (r record) EntityID() string { return r.ID }

func newTestRepo(t *testing.T, store *storage.MemStore) *Repository[record] {
	t.Helper()
	r, err := New[record](context.Background(), store, "records")
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	return r
}

func TestAddAndFindByID(t *testing.T) {
	r := newTestRepo(t, storage.NewMemStore())
	ctx := context.Background()

	if err := r.Add(ctx, record{ID: "P0001", Name: "Ada"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, ok := r.FindByID("  p0001 ")
	if !ok {
		t.Fatal("expected to find P0001 with untrimmed lowercase lookup")
	}
	if got.Name != "Ada" {
		t.Errorf("name = %q, want Ada", got.Name)
	}

	if _, ok := r.FindByID("P0002"); ok {
		t.Error("expected P0002 to be absent")
	}
}

func TestAddRejectsDuplicateID(t *testing.T) {
	r := newTestRepo(t, storage.NewMemStore())
	ctx := context.Background()

	if err := r.Add(ctx, record{ID: "P0001"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	err := r.Add(ctx, record{ID: "p0001"})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("err = %v, want ErrDuplicateID", err)
	}
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}
}

func TestAddRollsBackOnPersistenceFailure(t *testing.T) {
	store := storage.NewMemStore()
	r := newTestRepo(t, store)
	ctx := context.Background()

	if err := r.Add(ctx, record{ID: "P0001"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	store.SaveErr = errors.New("disk full")
	err := r.Add(ctx, record{ID: "P0002"})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}

	if r.Len() != 1 {
		t.Errorf("len = %d, want 1 after rollback", r.Len())
	}
	if _, ok := r.FindByID("P0002"); ok {
		t.Error("P0002 must not be visible after failed add")
	}

	// Collection content must match the pre-call state.
	all := r.All()
	if len(all) != 1 || all[0].ID != "P0001" {
		t.Errorf("collection = %v, want only P0001", all)
	}
}

func TestReplaceSwapsInPlace(t *testing.T) {
	r := newTestRepo(t, storage.NewMemStore())
	ctx := context.Background()

	if err := r.Add(ctx, record{ID: "P0001", Name: "Ada"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := r.Replace(ctx, "P0001", record{ID: "P0001", Name: "Grace"}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, _ := r.FindByID("P0001")
	if got.Name != "Grace" {
		t.Errorf("name = %q, want Grace", got.Name)
	}
}

func TestReplaceMissingReturnsNotFound(t *testing.T) {
	r := newTestRepo(t, storage.NewMemStore())

	err := r.Replace(context.Background(), "P0009", record{ID: "P0009"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReplaceRollsBackOnPersistenceFailure(t *testing.T) {
	store := storage.NewMemStore()
	r := newTestRepo(t, store)
	ctx := context.Background()

	if err := r.Add(ctx, record{ID: "P0001", Name: "Ada"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	store.SaveErr = errors.New("disk full")
	err := r.Replace(ctx, "P0001", record{ID: "P0001", Name: "Grace"})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}

	got, _ := r.FindByID("P0001")
	if got.Name != "Ada" {
		t.Errorf("name = %q, want original Ada after rollback", got.Name)
	}
}

func TestNewReloadsPersistedCollection(t *testing.T) {
	store := storage.NewMemStore()
	ctx := context.Background()

	first := newTestRepo(t, store)
	if err := first.Add(ctx, record{ID: "P0001", Name: "Ada"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := first.Add(ctx, record{ID: "P0002", Name: "Grace"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	second := newTestRepo(t, store)
	if second.Len() != 2 {
		t.Fatalf("len after reload = %d, want 2", second.Len())
	}
	if _, ok := second.FindByID("P0002"); !ok {
		t.Error("expected P0002 after reload")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	store := storage.NewMemStore()
	ctx := context.Background()
	if err := store.Save(ctx, "records", []byte(`{"format":"something/v9","records":[]}`)); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := New[record](ctx, store, "records"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	r := newTestRepo(t, storage.NewMemStore())
	ctx := context.Background()

	if err := r.Add(ctx, record{ID: "P0001", Name: "Ada"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	all := r.All()
	all[0].Name = "mutated"

	got, _ := r.FindByID("P0001")
	if got.Name != "Ada" {
		t.Error("mutating the returned slice must not affect the repository")
	}
}
