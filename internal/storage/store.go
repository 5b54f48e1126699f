package storage

import "context"

// Store holds one opaque payload per named collection. A missing collection
// is reported as (nil, nil), which callers treat as empty. Save replaces the
// payload in full; readers never observe a partial write.
type Store interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
}

// Appender receives audit event lines. Append failures must not corrupt
// collection payloads.
type Appender interface {
	Append(ctx context.Context, name string, line []byte) error
}
