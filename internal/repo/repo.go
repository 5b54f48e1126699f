// Package repo implements the persistence pattern shared by every record
// type: an in-memory collection mirrored to durable storage, where a failed
// write rolls the collection back to its pre-mutation state.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/medidesk/clinic-records/internal/storage"
)

var (
	ErrDuplicateID = errors.New("record with this id already exists")
	ErrNotFound    = errors.New("record not found")
	ErrPersistence = errors.New("failed to persist collection")
)

// Entity is anything a Repository can own. EntityID must be stable for the
// lifetime of the record.
type Entity interface {
	EntityID() string
}

const formatV1 = "clinic-records/v1"

// envelope is the on-disk encoding: a versioned wrapper around the full
// collection. Unknown formats are rejected on load.
type envelope[T any] struct {
	Format  string    `json:"format"`
	SavedAt time.Time `json:"saved_at"`
	Records []T       `json:"records"`
}

// Repository owns one entity type's canonical in-memory collection. Every
// mutation is written through to the backing store as a whole-collection
// snapshot; if the write fails the in-memory state is restored and the
// caller sees ErrPersistence.
type Repository[T Entity] struct {
	mu    sync.Mutex
	name  string
	store storage.Store
	items []T
}

// New loads the named collection from the store. An absent payload yields an
// empty repository.
func New[T Entity](ctx context.Context, store storage.Store, name string) (*Repository[T], error) {
	data, err := store.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	r := &Repository[T]{name: name, store: store}
	if len(data) == 0 {
		return r, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if env.Format != formatV1 {
		return nil, fmt.Errorf("decode %s: unsupported format %q", name, env.Format)
	}
	r.items = env.Records
	return r, nil
}

// Name returns the collection name used in the backing store.
func (r *Repository[T]) Name() string { return r.name }

// All returns a copy of the collection.
func (r *Repository[T]) All() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of records.
func (r *Repository[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// FindByID looks a record up by identifier, case-insensitive and trimmed.
// First match wins.
func (r *Repository[T]) FindByID(id string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findLocked(id)
}

func (r *Repository[T]) findLocked(id string) (T, bool) {
	var zero T
	want := NormalizeID(id)
	if want == "" {
		return zero, false
	}
	for _, item := range r.items {
		if NormalizeID(item.EntityID()) == want {
			return item, true
		}
	}
	return zero, false
}

// Add appends a record and persists the collection. On persistence failure
// the record is removed again and ErrPersistence is returned.
func (r *Repository[T]) Add(ctx context.Context, item T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.findLocked(item.EntityID()); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, item.EntityID())
	}

	r.items = append(r.items, item)
	if err := r.persistLocked(ctx); err != nil {
		r.items = r.items[:len(r.items)-1]
		return err
	}
	return nil
}

// Replace swaps the record with the given identifier for a new value and
// persists. On persistence failure the original record is restored.
func (r *Repository[T]) Replace(ctx context.Context, id string, item T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := NormalizeID(id)
	for i := range r.items {
		if NormalizeID(r.items[i].EntityID()) != want {
			continue
		}
		previous := r.items[i]
		r.items[i] = item
		if err := r.persistLocked(ctx); err != nil {
			r.items[i] = previous
			return err
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// NextID allocates the next sequential identifier for this collection.
func (r *Repository[T]) NextID(prefix string, width int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, len(r.items))
	for i, item := range r.items {
		ids[i] = item.EntityID()
	}
	return NextID(ids, prefix, width)
}

func (r *Repository[T]) persistLocked(ctx context.Context) error {
	env := envelope[T]{
		Format:  formatV1,
		SavedAt: time.Now().UTC(),
		Records: r.items,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrPersistence, r.name, err)
	}
	if err := r.store.Save(ctx, r.name, data); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrPersistence, r.name, err)
	}
	return nil
}
