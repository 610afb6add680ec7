package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	t.Parallel()

	var g SingleFlight[string]
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err, _ := g.Do("feed", func() (string, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if v != "ok" {
				t.Errorf("unexpected value %q", v)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_ReleasesKeyOnPanic(t *testing.T) {
	t.Parallel()

	var g SingleFlight[int]
	func() {
		defer func() { _ = recover() }()
		_, _, _ = g.Do("k", func() (int, error) { panic("boom") })
	}()

	v, err, shared := g.Do("k", func() (int, error) { return 7, nil })
	if err != nil || v != 7 || shared {
		t.Fatalf("expected fresh execution after panic, got v=%d err=%v shared=%v", v, err, shared)
	}
}

func TestSingleFlight_ForgetStartsFreshExecution(t *testing.T) {
	t.Parallel()

	var g SingleFlight[int]
	var executions atomic.Int32
	run := func(v int, started chan<- struct{}, release <-chan struct{}) func() (int, error) {
		return func() (int, error) {
			executions.Add(1)
			close(started)
			<-release
			return v, nil
		}
	}

	firstStarted, firstRelease := make(chan struct{}), make(chan struct{})
	firstDone := make(chan int, 1)
	go func() {
		v, _, _ := g.Do("feed", run(1, firstStarted, firstRelease))
		firstDone <- v
	}()
	<-firstStarted

	g.Forget("feed")

	secondStarted, secondRelease := make(chan struct{}), make(chan struct{})
	secondDone := make(chan int, 1)
	go func() {
		v, _, _ := g.Do("feed", run(2, secondStarted, secondRelease))
		secondDone <- v
	}()
	<-secondStarted

	close(firstRelease)
	if got := <-firstDone; got != 1 {
		t.Fatalf("first execution returned %d, want 1", got)
	}

	joined := make(chan bool, 1)
	go func() {
		v, _, shared := g.Do("feed", func() (int, error) {
			executions.Add(1)
			return 3, nil
		})
		joined <- shared && v == 2
	}()
	time.Sleep(20 * time.Millisecond)
	close(secondRelease)

	if got := <-secondDone; got != 2 {
		t.Fatalf("second execution returned %d, want 2", got)
	}
	if !<-joined {
		t.Fatalf("expected late caller to join the second execution")
	}
	if got := executions.Load(); got != 2 {
		t.Fatalf("expected 2 executions, got %d", got)
	}
}
