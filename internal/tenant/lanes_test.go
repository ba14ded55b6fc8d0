package tenant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLanes_SerializesSameShop(t *testing.T) {
	l := NewLanes(time.Second)

	var running, maxRunning int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.Do(context.Background(), 1, func(ctx context.Context) error {
				n := atomic.AddInt32(&running, 1)
				for {
					m := atomic.LoadInt32(&maxRunning)
					if n <= m || atomic.CompareAndSwapInt32(&maxRunning, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&running, -1)
				return nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if maxRunning != 1 {
		t.Errorf("expected at most 1 concurrent job per shop, got %d", maxRunning)
	}
}

func TestLanes_DifferentShopsRunInParallel(t *testing.T) {
	l := NewLanes(time.Second)

	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = l.Do(context.Background(), 1, func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	done := make(chan error, 1)
	go func() {
		done <- l.Do(context.Background(), 2, func(ctx context.Context) error { return nil })
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("shop 2 was blocked by shop 1")
	}
	close(release)
}

func TestLanes_PreservesSubmissionOrder(t *testing.T) {
	l := NewLanes(time.Second)

	var mu sync.Mutex
	var order []int

	for i := 0; i < 10; i++ {
		i := i
		if err := l.Do(context.Background(), 7, func(ctx context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		}); err != nil {
			t.Fatal(err)
		}
	}

	for i, v := range order {
		if v != i {
			t.Fatalf("expected order %d at %d, got %v", i, i, order)
		}
	}
}

func TestLanes_ReturnsErrorAndRecoversPanic(t *testing.T) {
	l := NewLanes(time.Second)
	boom := errors.New("boom")

	if err := l.Do(context.Background(), 1, func(ctx context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}

	err := l.Do(context.Background(), 1, func(ctx context.Context) error { panic("kaboom") })
	if err == nil {
		t.Fatal("expected panic to surface as error")
	}

	// a lane continua viva depois do panic
	if err := l.Do(context.Background(), 1, func(ctx context.Context) error { return nil }); err != nil {
		t.Errorf("lane should keep working after panic, got %v", err)
	}
}

func TestLanes_CancelledContextSkipsJob(t *testing.T) {
	l := NewLanes(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := l.Do(ctx, 1, func(ctx context.Context) error {
		ran = true
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if ran {
		t.Error("job must not run with a cancelled context")
	}
}

func TestLanes_IdleLaneIsReaped(t *testing.T) {
	l := NewLanes(20 * time.Millisecond)

	if err := l.Do(context.Background(), 1, func(ctx context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for l.Active() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("idle lane was not reaped")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// recriada sob demanda
	if err := l.Do(context.Background(), 1, func(ctx context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}
}
