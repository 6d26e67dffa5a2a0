package search

import (
	"sync"
	"time"
)

const DefaultDebounce = 300 * time.Millisecond

// Debouncer runs the most recently triggered function once input has been
// quiet for Delay. The zero value uses DefaultDebounce.
type Debouncer struct {
	Delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	running sync.WaitGroup
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{Delay: delay}
}

// Trigger re-arms the timer, replacing any pending function.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
	delay := d.Delay
	if delay <= 0 {
		delay = DefaultDebounce
	}

	d.running.Add(1)
	d.pending = fn
	d.timer = time.AfterFunc(delay, func() {
		defer d.running.Done()
		fn()
	})
}

// Stop cancels a pending call. It reports whether one was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked()
}

// Flush runs a pending call immediately and waits for any call already
// fired to return.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fn := d.pending
	stopped := d.cancelLocked()
	d.mu.Unlock()

	if stopped && fn != nil {
		fn()
	}
	d.running.Wait()
}

func (d *Debouncer) cancelLocked() bool {
	stopped := d.timer != nil && d.timer.Stop()
	if stopped {
		d.running.Done()
	}
	d.timer = nil
	d.pending = nil
	return stopped
}
