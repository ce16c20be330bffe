// Package render runs formatter invocations off the event loop. Requests are
// accepted without blocking, executed on a bounded worker pool under a
// deadline, and delivered back as completions on a channel.
package render

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdsn/manifold/internal/core/document"
	"github.com/mdsn/manifold/internal/core/logging"
)

const (
	defaultWorkers          = 2
	defaultTimeout          = 10 * time.Second
	defaultResultBufferSize = 64
)

// Options configures a Dispatcher. Zero values select defaults.
type Options struct {
	Workers int
	Timeout time.Duration
}

// inflight is the newest render scheduled for a document.
type inflight struct {
	generation uint64
	cancel     context.CancelFunc
}

// Dispatcher schedules renders on a worker pool. It implements the tab
// manager's Scheduler. A newer request for a document supersedes the older
// one: it is cancelled whether it is waiting for a slot or running.
type Dispatcher struct {
	formatter document.Formatter
	pool      *WorkerPool
	timeout   time.Duration
	results   chan document.Completion
	log       zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
	latest map[uint64]inflight
}

// NewDispatcher creates a dispatcher rendering through f.
func NewDispatcher(f document.Formatter, opts Options, logger zerolog.Logger) *Dispatcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		formatter: f,
		pool:      NewWorkerPool(opts.Workers),
		timeout:   opts.Timeout,
		results:   make(chan document.Completion, defaultResultBufferSize),
		log:       logger,
		ctx:       ctx,
		cancel:    cancel,
		latest:    make(map[uint64]inflight),
	}
}

// Results returns the channel completions are delivered on. It is closed by
// Close.
func (d *Dispatcher) Results() <-chan document.Completion {
	return d.results
}

// Schedule starts rendering req in the background. It never blocks; requests
// made after Close are dropped.
func (d *Dispatcher) Schedule(req document.RenderRequest) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	if prev, ok := d.latest[req.DocID]; ok {
		prev.cancel()
	}
	ctx, cancel := context.WithCancel(d.ctx)
	d.latest[req.DocID] = inflight{generation: req.Generation, cancel: cancel}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.finish(req, cancel)
		d.run(ctx, req)
	}()
}

// finish releases req's context and forgets it unless a newer request for
// the same document has replaced it.
func (d *Dispatcher) finish(req document.RenderRequest, cancel context.CancelFunc) {
	cancel()

	d.mu.Lock()
	defer d.mu.Unlock()
	if cur, ok := d.latest[req.DocID]; ok && cur.generation == req.Generation {
		delete(d.latest, req.DocID)
	}
}

func (d *Dispatcher) run(ctx context.Context, req document.RenderRequest) {
	ctx = logging.WithDocID(ctx, req.DocID)
	ctx = logging.WithDocument(ctx, req.Identity.String())

	var (
		c       document.Completion
		skipped bool
	)
	err := d.pool.RunContext(ctx, func() {
		if ctx.Err() != nil {
			skipped = true
			return
		}
		c = d.render(ctx, req)
	})
	if err != nil || skipped || ctx.Err() != nil {
		// Superseded or closed; the document no longer wants this result.
		d.log.Debug().Ctx(ctx).
			Int("width", req.Width).
			Uint64("generation", req.Generation).
			Msg("drop superseded render")
		return
	}

	select {
	case d.results <- c:
	case <-d.ctx.Done():
	}
}

func (d *Dispatcher) render(ctx context.Context, req document.RenderRequest) document.Completion {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	rendered, err := d.formatter.Render(ctx, req.Identity, req.Width)
	err = document.TimeoutError(ctx, req.Identity, err)

	event := d.log.Debug()
	if err != nil {
		event = d.log.Warn().Err(err)
	}
	event.Ctx(ctx).
		Int("width", req.Width).
		Uint64("generation", req.Generation).
		Int("lines", len(rendered.Lines)).
		Dur("elapsed", time.Since(start)).
		Msg("render finished")

	return req.Complete(rendered, err)
}

// Close cancels in-flight renders, waits for workers to exit and closes the
// results channel.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
	close(d.results)
}
