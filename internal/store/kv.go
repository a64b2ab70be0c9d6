// Package store persists the task collection as a single named blob.
package store

import (
	"context"
	"fmt"
	"sync"
)

// Backend names accepted by OpenKV.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// KV is a named string blob store. Get reports ok=false when no blob exists
// under name.
type KV interface {
	Get(ctx context.Context, name string) (value string, ok bool, err error)
	Set(ctx context.Context, name, value string) error
	Close() error
}

// OpenKV opens the backend named by kind. dir is used by the file backend and
// databaseURL by the postgres backend.
func OpenKV(ctx context.Context, kind, dir, databaseURL string) (KV, error) {
	switch kind {
	case BackendFile, "":
		kv, err := NewFileKV(dir)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case BackendMemory:
		return NewMemoryKV(), nil
	case BackendPostgres:
		kv, err := OpenPgKV(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return kv, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q, must be one of: file, memory, postgres", kind)
	}
}

// MemoryKV keeps blobs in a map. It is safe for concurrent use.
type MemoryKV struct {
	mu    sync.Mutex
	blobs map[string]string
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{blobs: make(map[string]string)}
}

// Get returns the blob stored under name.
func (m *MemoryKV) Get(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.blobs[name]
	return v, ok, nil
}

// Set stores value under name.
func (m *MemoryKV) Set(ctx context.Context, name, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[name] = value
	return nil
}

// Close is a no-op.
func (m *MemoryKV) Close() error {
	return nil
}
