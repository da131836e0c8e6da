package database

import (
	"context"
	"sync"
)

type hooksKey struct{}

// CommitHooks collects the callbacks registered with AfterCommit inside one
// transaction scope.
type CommitHooks struct {
	mu  sync.Mutex
	fns []func()
}

// WithCommitHooks opens a hook scope for a transaction or savepoint.
func WithCommitHooks(ctx context.Context) (context.Context, *CommitHooks) {
	h := &CommitHooks{}
	return context.WithValue(ctx, hooksKey{}, h), h
}

// Release hands the hooks to the enclosing scope in ctx, or runs them when
// ctx has none. Call it only after a successful commit; hooks of a scope
// that rolled back are simply dropped.
func (h *CommitHooks) Release(ctx context.Context) {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()

	if parent, ok := ctx.Value(hooksKey{}).(*CommitHooks); ok {
		parent.mu.Lock()
		parent.fns = append(parent.fns, fns...)
		parent.mu.Unlock()
		return
	}
	for _, fn := range fns {
		fn()
	}
}

// AfterCommit runs fn once the outermost transaction in ctx commits, or
// right away outside a transaction.
func AfterCommit(ctx context.Context, fn func()) {
	if h, ok := ctx.Value(hooksKey{}).(*CommitHooks); ok {
		h.mu.Lock()
		h.fns = append(h.fns, fn)
		h.mu.Unlock()
		return
	}
	fn()
}
