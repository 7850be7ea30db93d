package synblog

import (
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, max int) (*LoginLimiter, *time.Time) {
	t.Helper()
	l := NewLoginLimiter(max, time.Minute)
	t.Cleanup(l.Close)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	return l, &clock
}

func TestLoginLimiterBlocksAfterMaxFailures(t *testing.T) {
	l, _ := newTestLimiter(t, 3)
	for i := 0; i < 3; i++ {
		if !l.Check("1.2.3.4") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		l.Record("1.2.3.4")
	}
	if l.Check("1.2.3.4") {
		t.Fatal("4th attempt should be blocked")
	}
}

func TestLoginLimiterPerIP(t *testing.T) {
	l, _ := newTestLimiter(t, 1)
	l.Record("1.1.1.1")
	if l.Check("1.1.1.1") {
		t.Fatal("first IP should be blocked")
	}
	if !l.Check("2.2.2.2") {
		t.Fatal("second IP should have its own budget")
	}
}

func TestLoginLimiterCheckAndRecord(t *testing.T) {
	l, _ := newTestLimiter(t, 2)
	ip := "10.0.0.1"
	for i := 0; i < 5; i++ {
		if !l.Check(ip) {
			t.Fatal("Check must not consume attempts")
		}
	}
	l.Record(ip)
	if !l.Check(ip) {
		t.Fatal("one failure should still be allowed")
	}
	l.Record(ip)
	if l.Check(ip) {
		t.Fatal("two failures should block")
	}
}

func TestLoginLimiterWindow(t *testing.T) {
	l, clock := newTestLimiter(t, 1)
	ip := "10.0.0.2"
	l.Record(ip)
	if l.Check(ip) {
		t.Fatal("should be blocked inside the window")
	}
	*clock = clock.Add(time.Minute + time.Second)
	if !l.Check(ip) {
		t.Fatal("should be allowed after the window")
	}
	l.mu.Lock()
	_, tracked := l.attempts[ip]
	l.mu.Unlock()
	if tracked {
		t.Error("expired attempts should be pruned")
	}
}

func TestLoginLimiterCloseTwice(t *testing.T) {
	l := NewLoginLimiter(1, time.Minute)
	l.Close()
	l.Close()
}
