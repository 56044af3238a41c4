package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/metrics"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/timeutil"
)

type retentionStore interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupService purges stale pending verifications and SMS logs on a
// daily schedule. Rows older than the retention window are dead weight:
// pending challenges expire with the provider long before then and the
// logs only feed rate-limit counting over a few minutes.
type CleanupService struct {
	pending   retentionStore
	smsLogs   retentionStore
	retention time.Duration
	cron      *cron.Cron
	now       func() time.Time
}

func NewCleanupService(pending, smsLogs retentionStore) *CleanupService {
	return &CleanupService{
		pending:   pending,
		smsLogs:   smsLogs,
		retention: 24 * time.Hour,
		cron:      cron.New(),
		now:       timeutil.Now,
	}
}

// Start schedules the daily sweep. Failures are logged and retried at
// the next tick; the sweeper never interrupts request serving.
func (s *CleanupService) Start() error {
	if _, err := s.cron.AddFunc("@daily", func() {
		s.RunOnce(context.Background())
	}); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("[Cleanup] daily sweep scheduled, retention %s", s.retention)
	return nil
}

func (s *CleanupService) Stop() {
	s.cron.Stop()
}

// RunOnce performs a single retention sweep.
func (s *CleanupService) RunOnce(ctx context.Context) {
	cutoff := s.now().Add(-s.retention)

	if n, err := s.pending.DeleteOlderThan(ctx, cutoff); err != nil {
		log.Printf("[Cleanup] pending verification sweep failed: %v", err)
	} else if n > 0 {
		metrics.CleanupRowsDeleted.WithLabelValues("pending_verifications").Add(float64(n))
		log.Printf("[Cleanup] removed %d stale pending verifications", n)
	}

	if n, err := s.smsLogs.DeleteOlderThan(ctx, cutoff); err != nil {
		log.Printf("[Cleanup] sms log sweep failed: %v", err)
	} else if n > 0 {
		metrics.CleanupRowsDeleted.WithLabelValues("sms_logs").Add(float64(n))
		log.Printf("[Cleanup] removed %d stale sms logs", n)
	}
}
