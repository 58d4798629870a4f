package app

import (
	"context"
	"log"
	"time"

	apperrors "github.com/arxlet/paperdex/internal/platform/errors"
	"github.com/arxlet/paperdex/internal/services/progress/domain/event"
	"github.com/arxlet/paperdex/internal/services/progress/domain/progress"
)

const (
	defaultPollInterval  = time.Hour
	defaultSweepPageSize = 500
	schedulerActorID     = event.ActorSystem
	schedulerLogPreamble = "progress scheduler"
)

// Scheduler sweeps papers stuck in email_sent and records no_response for
// those whose author-silence window has elapsed. It acts through the same
// transition path as users, as the system actor, so every rule and audit
// guarantee applies unchanged.
type Scheduler struct {
	service      *Service
	pollInterval time.Duration
	pageSize     int
	logf         func(format string, args ...any)
}

// SchedulerConfig tunes scheduler behavior. Zero values select defaults.
type SchedulerConfig struct {
	PollInterval time.Duration
	// Logf overrides the log sink, for tests.
	Logf func(format string, args ...any)
}

// NewScheduler builds a scheduler over the given service.
func NewScheduler(service *Service, cfg SchedulerConfig) *Scheduler {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	logf := cfg.Logf
	if logf == nil {
		logf = log.Printf
	}
	return &Scheduler{
		service:      service,
		pollInterval: interval,
		pageSize:     defaultSweepPageSize,
		logf:         logf,
	}
}

// Run sweeps on the poll interval until the context is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		if err := s.Tick(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logf("%s: sweep failed: %v", schedulerLogPreamble, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tick performs one sweep over every paper in email_sent, paging on the
// paper id cursor until a short page. Candidate selection is a cheap status
// filter; the window check itself lives in the transition rules, so a
// candidate whose window has not elapsed is simply skipped. Per-paper
// failures are isolated: one bad paper never stops the sweep.
func (s *Scheduler) Tick(ctx context.Context) error {
	cursor := ""
	for {
		records, err := s.service.store.ListProgressByStatus(ctx, progress.StatusEmailSent, cursor, s.pageSize)
		if err != nil {
			return err
		}

		for _, rec := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			cursor = rec.PaperID
			s.sweepPaper(ctx, rec.PaperID)
		}

		if len(records) < s.pageSize {
			return nil
		}
	}
}

func (s *Scheduler) sweepPaper(ctx context.Context, paperID string) {
	_, err := s.service.RequestTransition(ctx, TransitionInput{
		PaperID: paperID,
		ActorID: schedulerActorID,
		Target:  progress.StatusNoResponse,
	})
	switch {
	case err == nil:
		s.logf("%s: recorded no_response for paper %s", schedulerLogPreamble, paperID)
	case apperrors.IsCode(err, apperrors.CodeProgressForbidden):
		// Window not elapsed yet.
	case apperrors.IsCode(err, apperrors.CodeProgressStaleState),
		apperrors.IsCode(err, apperrors.CodeProgressIllegalTransition):
		// A user moved the paper between listing and deciding.
	default:
		s.logf("%s: paper %s: %v", schedulerLogPreamble, paperID, err)
	}
}
