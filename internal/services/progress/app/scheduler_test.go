package app

import (
	"context"
	"testing"
	"time"

	"github.com/arxlet/paperdex/internal/services/progress/domain/progress"
)

func TestTickSweepsOnlyElapsedPapers(t *testing.T) {
	service, clock := newTestService(t)
	scheduler := NewScheduler(service, SchedulerConfig{Logf: t.Logf})
	ctx := context.Background()

	// paper-stale goes quiet well past the window; paper-fresh was contacted
	// recently; paper-idle never sent the email at all.
	for _, paperID := range []string{"paper-stale", "paper-fresh", "paper-idle"} {
		if _, err := service.Initiate(ctx, paperID, "alice"); err != nil {
			t.Fatalf("Initiate(%s) error = %v", paperID, err)
		}
	}
	mustTransition(t, service, TransitionInput{
		PaperID: "paper-stale", ActorID: "alice", Target: progress.StatusEmailSent,
	})
	clock.Advance(progress.DefaultResponseWindow)
	mustTransition(t, service, TransitionInput{
		PaperID: "paper-fresh", ActorID: "alice", Target: progress.StatusEmailSent,
	})

	if err := scheduler.Tick(ctx); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	want := map[string]progress.Status{
		"paper-stale": progress.StatusNoResponse,
		"paper-fresh": progress.StatusEmailSent,
		"paper-idle":  progress.StatusStarted,
	}
	for paperID, wantStatus := range want {
		state, err := service.GetState(ctx, paperID)
		if err != nil {
			t.Fatalf("GetState(%s) error = %v", paperID, err)
		}
		if state.Status != wantStatus {
			t.Errorf("%s status = %s, want %s", paperID, state.Status, wantStatus)
		}
	}
}

func TestTickSweepsBeyondOnePage(t *testing.T) {
	service, clock := newTestService(t)
	scheduler := NewScheduler(service, SchedulerConfig{Logf: t.Logf})
	scheduler.pageSize = 2
	ctx := context.Background()

	papers := []string{"paper-1", "paper-2", "paper-3", "paper-4", "paper-5"}
	for _, paperID := range papers {
		if _, err := service.Initiate(ctx, paperID, "alice"); err != nil {
			t.Fatalf("Initiate(%s) error = %v", paperID, err)
		}
		mustTransition(t, service, TransitionInput{
			PaperID: paperID, ActorID: "alice", Target: progress.StatusEmailSent,
		})
	}
	clock.Advance(progress.DefaultResponseWindow)

	if err := scheduler.Tick(ctx); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	// Every paper gets evaluated in a single tick, not just the first page.
	for _, paperID := range papers {
		state, err := service.GetState(ctx, paperID)
		if err != nil {
			t.Fatalf("GetState(%s) error = %v", paperID, err)
		}
		if state.Status != progress.StatusNoResponse {
			t.Errorf("%s status = %s, want %s", paperID, state.Status, progress.StatusNoResponse)
		}
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	service, _ := newTestService(t)
	scheduler := NewScheduler(service, SchedulerConfig{
		PollInterval: 10 * time.Millisecond,
		Logf:         t.Logf,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- scheduler.Run(ctx)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not stop after cancellation")
	}
}
