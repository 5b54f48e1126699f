package storage

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store used by tests and dry runs. SaveErr and
// AppendErr, when set, are returned by the corresponding operations to
// exercise persistence-failure paths.
type MemStore struct {
	mu        sync.Mutex
	data      map[string][]byte
	appends   map[string][][]byte
	SaveErr   error
	AppendErr error
}

func NewMemStore() *MemStore {
	return &MemStore{
		data:    make(map[string][]byte),
		appends: make(map[string][][]byte),
	}
}

func (s *MemStore) Load(_ context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[name]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemStore) Save(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.data[name] = stored
	return nil
}

func (s *MemStore) Append(_ context.Context, name string, line []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AppendErr != nil {
		return s.AppendErr
	}
	stored := make([]byte, len(line))
	copy(stored, line)
	s.appends[name] = append(s.appends[name], stored)
	return nil
}

// Appended returns the lines recorded for a stream.
func (s *MemStore) Appended(name string) [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appends[name]
}
