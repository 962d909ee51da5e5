package api

import (
	"context"
	"sync"
)

// inflight tracks outstanding requests by key. Starting a request whose key
// is already running cancels the older one with ErrSuperseded.
type inflight struct {
	mu    sync.Mutex
	seq   uint64
	calls map[string]*inflightCall
}

type inflightCall struct {
	id     uint64
	cancel context.CancelCauseFunc
}

func newInflight() *inflight {
	return &inflight{calls: map[string]*inflightCall{}}
}

func (f *inflight) begin(parent context.Context, key string) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(parent)

	f.mu.Lock()
	if prev, ok := f.calls[key]; ok {
		prev.cancel(ErrSuperseded)
	}
	f.seq++
	call := &inflightCall{id: f.seq, cancel: cancel}
	f.calls[key] = call
	f.mu.Unlock()

	return ctx, func() {
		f.mu.Lock()
		if cur, ok := f.calls[key]; ok && cur.id == call.id {
			delete(f.calls, key)
		}
		f.mu.Unlock()
		cancel(nil)
	}
}

func (f *inflight) cancelAll(cause error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, call := range f.calls {
		call.cancel(cause)
		delete(f.calls, key)
	}
}

func (f *inflight) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
