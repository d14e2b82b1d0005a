// Package fetcher runs the asynchronous result channels behind each screen.
//
// A Channel moves Idle -> Loading -> Success | Failed and back to Loading on the next
// trigger. Every trigger gets a sequence number and only the latest one may write a result.
package fetcher

import (
	"context"
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/alvarorichard/gokino/internal/util"
)

// DefaultLoadingDelay is how long a request may run before the loading flag is raised
const DefaultLoadingDelay = 500 * time.Millisecond

// Status is the state of a channel
type Status int

const (
	Idle Status = iota
	Loading
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent view of a channel.
// Loading is the user visible flag: it only turns on once a request outlives the loading delay.
type Snapshot[T any] struct {
	Status  Status
	Loading bool
	Data    T
	HasData bool
	Err     error
	Seq     uint64
}

// FetchFunc performs one request
type FetchFunc[In, Out any] func(ctx context.Context, in In) (Out, error)

// Options tunes a channel
type Options[In any] struct {
	// Name identifies the channel in logs and events
	Name string
	// LoadingDelay defaults to DefaultLoadingDelay. Negative raises the flag immediately.
	LoadingDelay time.Duration
	// ClearOnError drops the previous data when a request fails
	ClearOnError bool
	// Identity maps an input to the value compared between triggers. Defaults to the input itself.
	Identity func(In) any
}

// Channel is one independently loaded result stream
type Channel[In, Out any] struct {
	fetch FetchFunc[In, Out]
	opts  Options[In]

	mu       sync.Mutex
	seq      uint64
	key      uint64
	hasKey   bool
	last     In
	snap     Snapshot[Out]
	cancel   context.CancelFunc
	timer    *time.Timer
	done     chan struct{}
	nextSub  int
	watchers map[int]func(Snapshot[Out])

	// rev numbers every state change under mu; delivered is the last rev handed to watchers
	rev       uint64
	notifyMu  sync.Mutex
	delivered uint64
}

// NewChannel returns an idle channel
func NewChannel[In, Out any](fetch FetchFunc[In, Out], opts Options[In]) *Channel[In, Out] {
	if opts.LoadingDelay == 0 {
		opts.LoadingDelay = DefaultLoadingDelay
	}
	return &Channel[In, Out]{
		fetch:    fetch,
		opts:     opts,
		watchers: make(map[int]func(Snapshot[Out])),
	}
}

// Name returns the configured channel name
func (c *Channel[In, Out]) Name() string {
	return c.opts.Name
}

// Trigger fetches in unless it is identical to the latest trigger. It reports whether a fetch started.
func (c *Channel[In, Out]) Trigger(ctx context.Context, in In) bool {
	key, ok := c.identity(in)

	c.mu.Lock()
	if ok && c.hasKey && c.key == key && c.snap.Status != Idle {
		c.mu.Unlock()
		util.Debug("fetch skipped, input unchanged", "channel", c.opts.Name)
		return false
	}
	c.key, c.hasKey = key, ok
	snap := c.start(ctx, in)
	rev := c.bump()
	c.mu.Unlock()

	c.notify(snap, rev)
	return true
}

// Refresh fetches in even when it equals the latest input
func (c *Channel[In, Out]) Refresh(ctx context.Context, in In) {
	key, ok := c.identity(in)

	c.mu.Lock()
	c.key, c.hasKey = key, ok
	snap := c.start(ctx, in)
	rev := c.bump()
	c.mu.Unlock()

	c.notify(snap, rev)
}

// Retry refetches the latest input. It is a no-op on an idle channel.
func (c *Channel[In, Out]) Retry(ctx context.Context) bool {
	c.mu.Lock()
	if c.snap.Status == Idle {
		c.mu.Unlock()
		return false
	}
	snap := c.start(ctx, c.last)
	rev := c.bump()
	c.mu.Unlock()

	c.notify(snap, rev)
	return true
}

// Last returns the latest triggered input
func (c *Channel[In, Out]) Last() (In, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.snap.Status != Idle
}

// start must be called with c.mu held
func (c *Channel[In, Out]) start(parent context.Context, in In) Snapshot[Out] {
	if c.cancel != nil {
		c.cancel()
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	if c.snap.Status != Loading || c.done == nil {
		c.done = make(chan struct{})
	}

	c.seq++
	seq := c.seq
	c.last = in
	c.snap.Status = Loading
	c.snap.Loading = c.opts.LoadingDelay < 0
	c.snap.Seq = seq

	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel

	if c.opts.LoadingDelay > 0 {
		c.timer = time.AfterFunc(c.opts.LoadingDelay, func() { c.raiseLoading(seq) })
	}

	go func() {
		out, err := c.fetch(ctx, in)
		c.finish(seq, out, err)
	}()

	return c.snap
}

func (c *Channel[In, Out]) raiseLoading(seq uint64) {
	c.mu.Lock()
	if c.seq != seq || c.snap.Status != Loading {
		c.mu.Unlock()
		return
	}
	c.snap.Loading = true
	snap := c.snap
	rev := c.bump()
	c.mu.Unlock()

	c.notify(snap, rev)
}

func (c *Channel[In, Out]) finish(seq uint64, out Out, err error) {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		util.Debug("stale response discarded", "channel", c.opts.Name, "seq", seq)
		return
	}

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.cancel()
	c.cancel = nil
	c.snap.Loading = false

	if err != nil {
		c.snap.Status = Failed
		c.snap.Err = err
		if c.opts.ClearOnError {
			var zero Out
			c.snap.Data, c.snap.HasData = zero, false
		}
		util.Warn("fetch failed", "channel", c.opts.Name, "error", err)
	} else {
		c.snap.Status = Success
		c.snap.Err = nil
		c.snap.Data, c.snap.HasData = out, true
	}

	snap := c.snap
	rev := c.bump()
	close(c.done)
	c.mu.Unlock()

	c.notify(snap, rev)
}

// Reset cancels any in-flight request and returns the channel to Idle without data
func (c *Channel[In, Out]) Reset() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.done != nil && c.snap.Status == Loading {
		close(c.done)
	}
	c.seq++
	c.hasKey = false
	var zero In
	c.last = zero
	c.snap = Snapshot[Out]{Seq: c.seq}
	snap := c.snap
	rev := c.bump()
	c.mu.Unlock()

	c.notify(snap, rev)
}

// Snapshot returns the current state
func (c *Channel[In, Out]) Snapshot() Snapshot[Out] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Wait blocks until the latest request settles or ctx is done
func (c *Channel[In, Out]) Wait(ctx context.Context) (Snapshot[Out], error) {
	c.mu.Lock()
	if c.snap.Status != Loading {
		snap := c.snap
		c.mu.Unlock()
		return snap, nil
	}
	done := c.done
	c.mu.Unlock()

	select {
	case <-done:
		return c.Snapshot(), nil
	case <-ctx.Done():
		return c.Snapshot(), ctx.Err()
	}
}

// Subscribe registers fn for every state change and returns a function removing it.
// fn runs on the goroutine that caused the change and must not block or trigger the channel.
// Snapshots arrive in the order of the changes; one overtaken by a later change is skipped.
func (c *Channel[In, Out]) Subscribe(fn func(Snapshot[Out])) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.watchers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.watchers, id)
		c.mu.Unlock()
	}
}

// bump must be called with c.mu held
func (c *Channel[In, Out]) bump() uint64 {
	c.rev++
	return c.rev
}

func (c *Channel[In, Out]) notify(snap Snapshot[Out], rev uint64) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if rev <= c.delivered {
		return
	}
	c.delivered = rev

	c.mu.Lock()
	watchers := make([]func(Snapshot[Out]), 0, len(c.watchers))
	for _, fn := range c.watchers {
		watchers = append(watchers, fn)
	}
	c.mu.Unlock()

	for _, fn := range watchers {
		fn(snap)
	}
}

func (c *Channel[In, Out]) identity(in In) (uint64, bool) {
	var v any = in
	if c.opts.Identity != nil {
		v = c.opts.Identity(in)
	}
	key, err := hashstructure.Hash(v, hashstructure.FormatV2, nil)
	if err != nil {
		util.Debug("input not hashable, always refetching", "channel", c.opts.Name, "error", err)
		return 0, false
	}
	return key, true
}
