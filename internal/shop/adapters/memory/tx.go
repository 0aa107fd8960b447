package memory

import (
	"context"
	"sync"
)

// Transactor serializes lifecycle operations with a single mutex. There is no
// rollback: the command handlers compensate explicitly on failure, so the
// in-memory stores stay consistent without one.
type Transactor struct {
	mu sync.Mutex
}

// NewTransactor constructs a Transactor.
func NewTransactor() *Transactor {
	return &Transactor{}
}

// InTx runs fn while holding the lock.
func (t *Transactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}
