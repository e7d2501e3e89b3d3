package assets

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrQueueClosed is returned when work is submitted to a closed RenderQueue.
var ErrQueueClosed = errors.New("render queue closed")

// RenderQueue runs submitted work on a single goroutine locked to one OS
// thread. Texture uploads for most graphics APIs must happen on the thread
// that owns the rendering context; the queue is that thread.
type RenderQueue struct {
	jobs      chan func()
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewRenderQueue starts the render goroutine.
func NewRenderQueue() *RenderQueue {
	q := &RenderQueue{
		jobs: make(chan func()),
		done: make(chan struct{}),
	}
	q.wg.Add(1)
	go q.loop()
	return q
}

func (q *RenderQueue) loop() {
	defer q.wg.Done()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for {
		select {
		case job := <-q.jobs:
			job()
		case <-q.done:
			return
		}
	}
}

// Do runs fn on the render goroutine and blocks until it returns, ctx is
// done, or the queue is closed. When ctx ends while fn is running, Do returns
// immediately and fn's completion is discarded.
func (q *RenderQueue) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	job := func() {
		defer close(finished)
		fn()
	}

	select {
	case q.jobs <- job:
	case <-ctx.Done():
		return ctx.Err()
	case <-q.done:
		return ErrQueueClosed
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the render goroutine after the job in flight, if any.
func (q *RenderQueue) Close() {
	q.closeOnce.Do(func() { close(q.done) })
	q.wg.Wait()
}

// OnRenderQueue wraps p so that every resolution runs on q.
func OnRenderQueue(q *RenderQueue, p Provider) Provider {
	return ProviderFunc(func(ctx context.Context, path string) (Handle, error) {
		var (
			h   Handle
			err error
		)
		if qErr := q.Do(ctx, func() { h, err = p.Resolve(ctx, path) }); qErr != nil {
			return Handle{}, qErr
		}
		return h, err
	})
}
