package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNextDailyUTCAdvancesToNextMidnight(t *testing.T) {
	now := time.Date(2025, time.January, 1, 15, 30, 0, 0, time.UTC)
	next := NextDailyUTC(now)
	want := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("expected %s, got %s", want, next)
	}
}

func TestNextDailyUTCAtMidnightMovesToTomorrow(t *testing.T) {
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	next := NextDailyUTC(now)
	want := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("expected %s, got %s", want, next)
	}
}

func TestNextDailyUTCNormalizesZone(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*3600)
	now := time.Date(2025, time.January, 1, 2, 0, 0, 0, zone) // 2024-12-31 21:00 UTC
	next := NextDailyUTC(now)
	want := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("expected %s, got %s", want, next)
	}
}

func TestIntervalJobRunsSequentially(t *testing.T) {
	var running int32
	var overlapped int32
	var runs int32

	job := NewInterval("test_job", 5*time.Millisecond, func(context.Context) error {
		if !atomic.CompareAndSwapInt32(&running, 0, 1) {
			atomic.StoreInt32(&overlapped, 1)
		}
		time.Sleep(15 * time.Millisecond)
		atomic.StoreInt32(&running, 0)
		atomic.AddInt32(&runs, 1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		job.Run(ctx, nil)
	}()

	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&runs) < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	wg.Wait()

	if atomic.LoadInt32(&runs) < 3 {
		t.Fatalf("expected at least 3 runs, got %d", runs)
	}
	if atomic.LoadInt32(&overlapped) != 0 {
		t.Fatal("expected runs to never overlap")
	}
}

func TestJobStopsOnContextCancel(t *testing.T) {
	job := NewInterval("test_job", time.Hour, func(context.Context) error {
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Run(ctx, nil)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected job loop to stop on cancel")
	}
}
