package memory

import (
	"context"
	"sync"
)

// Tx provides the all-or-nothing boundary for the in-memory store: a coarse
// mutex serializes mutating operations, and a snapshot taken before the
// callback is restored if the callback fails. This supplies explicitly what
// a serialized platform would guarantee ambiently.
type Tx struct {
	mu    sync.Mutex
	store *Store
}

func NewTx(store *Store) *Tx {
	return &Tx{store: store}
}

func (t *Tx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}
