package session

import (
	"sync"
	"time"
)

// countdown tracks a fixed time budget against the wall clock. Each tick it
// recomputes the remaining time from max(0, budget - (now - start)) instead of
// decrementing a counter, so it self-corrects after scheduling delays. When the
// remaining time reaches zero it fires onTimeout exactly once and stops ticking.
type countdown struct {
	budget   time.Duration
	start    time.Time
	interval time.Duration
	now      func() time.Time

	onTick    func(remaining time.Duration)
	onTimeout func()

	stopCh   chan struct{}
	stopOnce sync.Once
}

func newCountdown(budget, interval time.Duration, now func() time.Time, onTick func(time.Duration), onTimeout func()) *countdown {
	if now == nil {
		now = time.Now
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &countdown{
		budget:    budget,
		start:     now(),
		interval:  interval,
		now:       now,
		onTick:    onTick,
		onTimeout: onTimeout,
		stopCh:    make(chan struct{}),
	}
}

// Remaining returns the time left on the budget, clamped at zero.
func (c *countdown) Remaining() time.Duration {
	remaining := c.budget - c.now().Sub(c.start)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Start begins ticking in a new goroutine.
func (c *countdown) Start() {
	go c.run()
}

func (c *countdown) run() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			remaining := c.Remaining()
			if c.onTick != nil {
				c.onTick(remaining)
			}
			if remaining <= 0 {
				if c.onTimeout != nil {
					c.onTimeout()
				}
				return
			}
		}
	}
}

// Stop cancels the countdown. After Stop returns no further tick or timeout
// callback is started; a callback already in flight is fenced off by the
// session's timer generation check.
func (c *countdown) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}
