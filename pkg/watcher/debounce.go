package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is how long the debouncer waits after the last
// trigger before firing. Editors and sync tools often write a file several
// times in quick succession; one reload is enough.
const DefaultDebounceDuration = 300 * time.Millisecond

// Debouncer coalesces bursts of triggers into a single callback invocation.
type Debouncer struct {
	duration time.Duration
	mu       sync.Mutex
	timer    *time.Timer
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(d time.Duration) *Debouncer {
	if d <= 0 {
		d = DefaultDebounceDuration
	}
	return &Debouncer{duration: d}
}

// Trigger schedules fn to run after the quiet period. A trigger arriving
// before the period elapses resets the clock and replaces fn.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel drops any pending invocation.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
