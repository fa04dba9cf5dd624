package view

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned by a load whose result was dropped because a newer
// load of the same view started after it.
var ErrSuperseded = errors.New("view: superseded by a newer load")

// fetcher tracks the latest load of a view. Each begin cancels the previous
// load's context; end must be called under the view's own lock so that
// results are applied in generation order.
type fetcher struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func (f *fetcher) begin(ctx context.Context) (context.Context, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
	}
	f.gen++
	ctx, f.cancel = context.WithCancel(ctx)
	return ctx, f.gen
}

// end reports whether gen is still the latest load and releases its context.
func (f *fetcher) end(gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return false
	}
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	return true
}

// stop cancels the in-flight load and invalidates it.
func (f *fetcher) stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.gen++
}
