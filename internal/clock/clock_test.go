package clock

import (
	"testing"
	"time"
)

func TestFakeAdvance(t *testing.T) {
	c := NewFake(time.Unix(0, 0))

	var fired []string
	c.AfterFunc(2*time.Second, func() { fired = append(fired, "two") })
	c.AfterFunc(time.Second, func() { fired = append(fired, "one") })
	stopped := c.AfterFunc(time.Second, func() { fired = append(fired, "stopped") })

	if !stopped.Stop() {
		t.Error("first Stop should report true")
	}
	if stopped.Stop() {
		t.Error("second Stop should report false")
	}

	c.Advance(500 * time.Millisecond)
	if len(fired) != 0 {
		t.Errorf("nothing should fire yet, got %v", fired)
	}
	if c.Pending() != 2 {
		t.Errorf("expected 2 pending timers, got %d", c.Pending())
	}

	c.Advance(2 * time.Second)
	if len(fired) != 2 || fired[0] != "one" || fired[1] != "two" {
		t.Errorf("expected [one two], got %v", fired)
	}
	if c.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", c.Pending())
	}
	if got := c.Now(); !got.Equal(time.Unix(2, 500000000)) {
		t.Errorf("unexpected Now %v", got)
	}
}

func TestFakeStopAfterFire(t *testing.T) {
	c := NewFake(time.Unix(0, 0))
	tm := c.AfterFunc(time.Millisecond, func() {})
	c.Advance(time.Millisecond)
	if tm.Stop() {
		t.Error("Stop after firing should report false")
	}
}

func TestRealClock(t *testing.T) {
	done := make(chan struct{})
	Real().AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("real timer did not fire")
	}
}
