package testing

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestFakeClock_Advance(t *testing.T) {
	c := NewFakeClock()
	start := c.Now()
	c.Advance(100 * time.Millisecond)
	if got := c.Now().Sub(start); got != 100*time.Millisecond {
		t.Errorf("advanced %v, want 100ms", got)
	}
}

func TestFakeClock_FiresDueTimersInOrder(t *testing.T) {
	c := NewFakeClock()
	var fired []string
	c.Schedule(30*time.Millisecond, func() { fired = append(fired, "c") })
	c.Schedule(10*time.Millisecond, func() { fired = append(fired, "a") })
	c.Schedule(10*time.Millisecond, func() { fired = append(fired, "b") })
	c.Schedule(time.Second, func() { fired = append(fired, "late") })

	c.Advance(50 * time.Millisecond)
	if diff := cmp.Diff([]string{"a", "b", "c"}, fired); diff != "" {
		t.Errorf("fired (-want +got):\n%s", diff)
	}
	if c.PendingTimers() != 1 {
		t.Errorf("pending = %d, want 1", c.PendingTimers())
	}
}

func TestFakeClock_Cancel(t *testing.T) {
	c := NewFakeClock()
	fired := false
	cancel := c.Schedule(time.Millisecond, func() { fired = true })
	cancel()
	c.Advance(time.Second)
	if fired {
		t.Error("canceled timer fired")
	}
}

func TestFakeClock_FireTimers(t *testing.T) {
	c := NewFakeClock()
	n := 0
	c.Schedule(time.Hour, func() { n++ })
	c.Schedule(time.Minute, func() { n++ })
	if got := c.FireTimers(); got != 2 || n != 2 {
		t.Errorf("FireTimers = %d (ran %d), want 2", got, n)
	}
	if c.PendingTimers() != 0 {
		t.Error("timers left after FireTimers")
	}
}
