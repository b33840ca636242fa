package sync

import (
	"context"
	gosync "sync"
	"sync/atomic"

	"github.com/sqlainsaad5/eventify-bell/internal/model"
)

// fakeClient is a remote.Client whose fetches can be held open on a gate.
type fakeClient struct {
	mu        gosync.Mutex
	list      []model.Notification
	fetchErr  error
	markErr   error
	clearErr  error
	marked    []model.ID
	gate      chan struct{}
	honorCtx  bool
	fetchSeen chan struct{}

	fetches   atomic.Int32
	marks     atomic.Int32
	clears    atomic.Int32
	active    atomic.Int32
	maxActive atomic.Int32
}

func newFakeClient(list ...model.Notification) *fakeClient {
	return &fakeClient{list: list, fetchSeen: make(chan struct{}, 64)}
}

// hold makes every fetch block until release is called.
func (c *fakeClient) hold() {
	c.mu.Lock()
	c.gate = make(chan struct{})
	c.mu.Unlock()
}

func (c *fakeClient) release() {
	c.mu.Lock()
	if c.gate != nil {
		close(c.gate)
		c.gate = nil
	}
	c.mu.Unlock()
}

// obeyContext makes a gated fetch give up when its context is done.
func (c *fakeClient) obeyContext() {
	c.mu.Lock()
	c.honorCtx = true
	c.mu.Unlock()
}

func (c *fakeClient) setFetchErr(err error) {
	c.mu.Lock()
	c.fetchErr = err
	c.mu.Unlock()
}

func (c *fakeClient) setMarkErr(err error) {
	c.mu.Lock()
	c.markErr = err
	c.mu.Unlock()
}

func (c *fakeClient) setClearErr(err error) {
	c.mu.Lock()
	c.clearErr = err
	c.mu.Unlock()
}

// FetchNotifications ignores ctx while gated, unless obeyContext was called,
// so a late response can be simulated after the poller has been stopped.
func (c *fakeClient) FetchNotifications(ctx context.Context, _ string) ([]model.Notification, error) {
	n := c.active.Add(1)
	defer c.active.Add(-1)
	for {
		m := c.maxActive.Load()
		if n <= m || c.maxActive.CompareAndSwap(m, n) {
			break
		}
	}
	c.fetches.Add(1)
	select {
	case c.fetchSeen <- struct{}{}:
	default:
	}

	c.mu.Lock()
	gate, honorCtx := c.gate, c.honorCtx
	c.mu.Unlock()
	if gate != nil {
		if honorCtx {
			select {
			case <-gate:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		} else {
			<-gate
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fetchErr != nil {
		return nil, c.fetchErr
	}
	out := make([]model.Notification, len(c.list))
	copy(out, c.list)
	return out, nil
}

func (c *fakeClient) MarkRead(_ context.Context, _ string, id model.ID) error {
	c.marks.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.marked = append(c.marked, id)
	return c.markErr
}

func (c *fakeClient) ClearAll(_ context.Context, _ string) error {
	c.clears.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clearErr
}

func note(id string, read bool) model.Notification {
	return model.Notification{
		ID:      model.ID(id),
		Title:   "title " + id,
		Type:    model.TypeGeneric,
		IsRead:  read,
		Payload: model.NewPayload(model.TypeGeneric, model.ExtraData{}),
	}
}
