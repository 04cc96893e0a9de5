package testing

import (
	"slices"
	"sync"
	"time"
)

// FakeClock provides controllable time for deterministic tests. It also
// schedules widget timers: a timer fires when Advance moves the clock past
// its deadline, or when FireTimers is called. All methods are safe for
// concurrent use.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	seq      int
	deadline time.Time
	fire     func()
}

// NewFakeClock returns a FakeClock starting at a fixed epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and fires the timers that came due,
// earliest first.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	due := c.takeLocked(func(t *fakeTimer) bool { return !t.deadline.After(c.now) })
	c.mu.Unlock()
	for _, t := range due {
		t.fire()
	}
}

// FireTimers fires every pending timer regardless of its deadline and
// returns how many fired.
func (c *FakeClock) FireTimers() int {
	c.mu.Lock()
	due := c.takeLocked(func(*fakeTimer) bool { return true })
	c.mu.Unlock()
	for _, t := range due {
		t.fire()
	}
	return len(due)
}

// PendingTimers returns the number of armed timers.
func (c *FakeClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Schedule arms fire to run delay after the current fake time.
func (c *FakeClock) Schedule(delay time.Duration, fire func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{seq: c.seq, deadline: c.now.Add(delay), fire: fire}
	c.timers = append(c.timers, t)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.timers = slices.DeleteFunc(c.timers, func(other *fakeTimer) bool { return other == t })
	}
}

func (c *FakeClock) takeLocked(match func(*fakeTimer) bool) []*fakeTimer {
	var due, keep []*fakeTimer
	for _, t := range c.timers {
		if match(t) {
			due = append(due, t)
		} else {
			keep = append(keep, t)
		}
	}
	c.timers = keep
	slices.SortFunc(due, func(a, b *fakeTimer) int {
		if cmp := a.deadline.Compare(b.deadline); cmp != 0 {
			return cmp
		}
		return a.seq - b.seq
	})
	return due
}
