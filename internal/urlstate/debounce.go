package urlstate

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period after the last keystroke before text is committed
const DefaultDebounce = time.Second

// Debouncer keeps the latest draft and commits it once no new value arrived for the quiet period
type Debouncer[T any] struct {
	delay  time.Duration
	commit func(T)

	mu      sync.Mutex
	draft   T
	gen     uint64
	timer   *time.Timer
	pending bool
}

// NewDebouncer returns a debouncer calling commit on its own goroutine
func NewDebouncer[T any](delay time.Duration, commit func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer[T]{delay: delay, commit: commit}
}

// Push updates the draft immediately and restarts the quiet period
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.draft = v
	d.gen++
	gen := d.gen
	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	v := d.draft
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	d.commit(v)
}

// Flush commits a pending draft right away. It reports whether there was one.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = false
	v := d.draft
	d.mu.Unlock()

	d.commit(v)
	return true
}

// Cancel drops a pending commit and sets the draft to v without committing it
func (d *Debouncer[T]) Cancel(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = false
	d.draft = v
}

// Draft returns the latest pushed value
func (d *Debouncer[T]) Draft() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft
}

// Pending reports whether a commit is scheduled
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
