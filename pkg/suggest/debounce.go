package suggest

import (
	"context"
	"sync"
	"time"
)

// Debouncer coalesces rapid reschedules into one run and hands each run a
// sequence number. A newer Schedule stops the previous timer and cancels the
// previous run's context, so last-input-wins holds even when an older fetch
// is already in flight: its completion checks Current and gets dropped.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule queues fn to run after the debounce delay on its own goroutine.
// Any previously queued or running fn is superseded. Returns the sequence
// assigned to this run.
func (d *Debouncer) Schedule(fn func(ctx context.Context, seq uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.supersedeLocked()
	seq := d.seq
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.timer = time.AfterFunc(d.delay, func() {
		fn(ctx, seq)
	})
	return seq
}

// Cancel supersedes without scheduling anything new. Used when the panel
// closes, the draft drops below the minimum length, or the session clears.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.supersedeLocked()
}

func (d *Debouncer) supersedeLocked() {
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// Current reports whether seq is still the newest scheduled run. Completions
// holding a stale sequence must discard their result.
func (d *Debouncer) Current(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq == seq
}
