// internal/search/controller/debounce.go
package controller

import (
	"sync"
	"time"
)

// debouncer is a trailing-edge debounce over a string value: the callback
// fires once per quiet period with the last value set, and never on the
// leading edge. A new value arriving before the delay elapses cancels the
// pending emission.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	emit    func(string)
	timer   *time.Timer
	gen     uint64
	stopped bool
}

func newDebouncer(delay time.Duration, emit func(string)) *debouncer {
	return &debouncer{delay: delay, emit: emit}
}

// Set records a new raw value, restarting the settle timer.
func (d *debouncer) Set(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		live := !d.stopped && gen == d.gen
		d.mu.Unlock()
		if live {
			d.emit(value)
		}
	})
}

// Cancel drops any pending emission. The debouncer stays usable; a later Set
// schedules again. Values set before Cancel never emit, even if their timer
// already fired and lost the race.
func (d *debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Stop cancels any pending emission and rejects further values.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
