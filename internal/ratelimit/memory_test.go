package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(window time.Duration, max int64) (*MemoryLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(Config{Window: window, MaxRequests: max})
	l.now = clock.Now
	return l, clock
}

func TestMemoryLimiter_RejectsAfterMax(t *testing.T) {
	l, _ := newTestLimiter(10*time.Minute, 100)
	ctx := context.Background()

	for i := 1; i <= 100; i++ {
		d, err := l.Admit(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("Admit error = %v", err)
		}
		if !d.Allowed {
			t.Fatalf("request %d rejected, want allowed", i)
		}
		if d.Count != int64(i) {
			t.Errorf("Count = %d, want %d", d.Count, i)
		}
	}

	d, _ := l.Admit(ctx, "10.0.0.1")
	if d.Allowed {
		t.Fatal("101st request allowed, want rejected")
	}
	if d.RetryAfter != 10*time.Minute {
		t.Errorf("RetryAfter = %v, want 10m", d.RetryAfter)
	}

	// 其他客户端不受影响
	if d, _ := l.Admit(ctx, "10.0.0.2"); !d.Allowed {
		t.Error("other client rejected")
	}
}

func TestMemoryLimiter_RejectedKeepCounting(t *testing.T) {
	l, clock := newTestLimiter(time.Minute, 2)
	ctx := context.Background()

	l.Admit(ctx, "k")
	l.Admit(ctx, "k")
	clock.Advance(30 * time.Second)
	for i := 0; i < 3; i++ {
		d, _ := l.Admit(ctx, "k")
		if d.Allowed {
			t.Fatalf("request %d allowed within exhausted window", i+3)
		}
		if d.RetryAfter != 30*time.Second {
			t.Errorf("RetryAfter = %v, want 30s", d.RetryAfter)
		}
	}
	if d, _ := l.Admit(ctx, "k"); d.Count != 6 {
		t.Errorf("Count = %d, want 6", d.Count)
	}
}

func TestMemoryLimiter_WindowReset(t *testing.T) {
	l, clock := newTestLimiter(10*time.Minute, 1)
	ctx := context.Background()

	l.Admit(ctx, "k")
	if d, _ := l.Admit(ctx, "k"); d.Allowed {
		t.Fatal("second request allowed, want rejected")
	}

	// 窗口边界：now - windowStart == window 视为过期
	clock.Advance(10 * time.Minute)
	d, _ := l.Admit(ctx, "k")
	if !d.Allowed || d.Count != 1 {
		t.Errorf("after window: Decision = %+v, want allowed with count 1", d)
	}
}

func TestMemoryLimiter_ConcurrentLastSlot(t *testing.T) {
	l, _ := newTestLimiter(time.Hour, 10)
	ctx := context.Background()

	var allowed int64
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d, _ := l.Admit(ctx, "same"); d.Allowed {
				atomic.AddInt64(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	if allowed != 10 {
		t.Errorf("allowed = %d, want exactly 10", allowed)
	}
}

func TestMemoryLimiter_Sweep(t *testing.T) {
	l, clock := newTestLimiter(time.Minute, 5)
	ctx := context.Background()

	l.Admit(ctx, "a")
	clock.Advance(40 * time.Second)
	l.Admit(ctx, "b")
	clock.Advance(20 * time.Second)

	if n := l.sweep(); n != 1 {
		t.Errorf("sweep() = %d, want 1", n)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestMemoryLimiter_SweeperNonPositiveInterval(t *testing.T) {
	l := NewMemoryLimiter(Config{Window: time.Minute, MaxRequests: 5})
	for _, interval := range []time.Duration{0, -time.Second} {
		ctx, cancel := context.WithCancel(context.Background())
		// 非正间隔回退到默认值，不能让 ticker 在后台 goroutine 中 panic
		l.StartSweeper(ctx, interval)
		time.Sleep(10 * time.Millisecond)
		cancel()
	}
	if d, err := l.Admit(context.Background(), "a"); err != nil || !d.Allowed {
		t.Errorf("Admit() = %+v, %v, want allowed", d, err)
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int64
	}{
		{in: 0, want: 1},
		{in: 300 * time.Millisecond, want: 1},
		{in: 1500 * time.Millisecond, want: 2},
		{in: 10 * time.Minute, want: 600},
	}
	for _, tt := range tests {
		if got := RetryAfterSeconds(tt.in); got != tt.want {
			t.Errorf("RetryAfterSeconds(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func BenchmarkMemoryLimiter_Admit(b *testing.B) {
	l := NewMemoryLimiter(Config{Window: time.Minute, MaxRequests: 1 << 40})
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = l.Admit(ctx, "bench")
	}
}
