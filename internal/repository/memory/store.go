// Package memory is an in-process implementation of the repository
// interfaces. It backs STORE_DRIVER=memory and the service tests, and mirrors
// the constraints the Postgres schema enforces: live sibling names are
// unique, parents must exist and depth stays within models.MaxDepth.
package memory

import (
	"context"
	"sync"

	"educreate/internal/domain/models"
	"educreate/internal/domain/repositories"
)

type txKey struct{}

// Store holds every folder, live or deleted, keyed by id.
//
// Transactions are serialized on txMu and roll back by restoring a snapshot
// taken when they began. Writes made outside ExecTx take txMu for their own
// duration, so they never interleave with a transaction.
type Store struct {
	mu      sync.RWMutex
	txMu    sync.Mutex
	folders map[string]models.Folder
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{folders: make(map[string]models.Folder)}
}

// NewTransactionManager returns the store's transaction manager
func NewTransactionManager(s *Store) repositories.TransactionManager {
	return s
}

// ExecTx runs fn atomically. Nested calls join the outer transaction.
func (s *Store) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.folders = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// write runs fn under the write lock, joining the caller's transaction or
// serializing against running ones.
func (s *Store) write(ctx context.Context, fn func() error) error {
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func (s *Store) read(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *Store) snapshot() map[string]models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.Folder, len(s.folders))
	for id, f := range s.folders {
		out[id] = cloneFolder(f)
	}
	return out
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// cloneFolder deep-copies the pointer fields so callers never alias stored state.
func cloneFolder(f models.Folder) models.Folder {
	if f.ParentID != nil {
		p := *f.ParentID
		f.ParentID = &p
	}
	if f.Description != nil {
		d := *f.Description
		f.Description = &d
	}
	if f.DeletedAt != nil {
		t := *f.DeletedAt
		f.DeletedAt = &t
	}
	return f
}
