package service

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"docstore/internal/model"
	"docstore/internal/repository"
)

// SweepStats counts the rows each sweep pass expired.
type SweepStats struct {
	ImportPending  int64
	ImportApproved int64
	BorrowPending  int64
	BorrowApproved int64
}

// Total is the number of requests expired by the pass.
func (s SweepStats) Total() int64 {
	return s.ImportPending + s.ImportApproved + s.BorrowPending + s.BorrowApproved
}

// ExpirySweeper periodically demotes stale requests to EXPIRED: PENDING rows
// past their expired_at, and APPROVED rows never verified within the grace
// window. Each transition is a single conditional UPDATE, so the sweep is
// idempotent and safe to run concurrently with itself or on overlapping
// schedules. It never touches document state.
type ExpirySweeper struct {
	imports  repository.ImportRequestRepository
	borrows  repository.BorrowRequestRepository
	interval time.Duration
	grace    time.Duration
	now      func() time.Time
	expired  *prometheus.CounterVec
}

// NewExpirySweeper constructs an ExpirySweeper. A non-positive interval
// defaults to one hour; a non-positive grace defaults to the request TTL.
func NewExpirySweeper(
	imports repository.ImportRequestRepository,
	borrows repository.BorrowRequestRepository,
	interval, grace time.Duration,
	reg prometheus.Registerer,
	now func() time.Time,
) (*ExpirySweeper, error) {
	if interval <= 0 {
		interval = time.Hour
	}
	if grace <= 0 {
		grace = model.DefaultRequestTTL
	}
	if now == nil {
		now = time.Now
	}
	expired := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "request_expirations_total",
			Help: "Requests transitioned to EXPIRED by the sweeper.",
		},
		[]string{"kind", "from"},
	)
	if reg != nil {
		if err := reg.Register(expired); err != nil {
			return nil, err
		}
	}
	return &ExpirySweeper{
		imports:  imports,
		borrows:  borrows,
		interval: interval,
		grace:    grace,
		now:      now,
		expired:  expired,
	}, nil
}

// SweepOnce runs the four conditional updates of a single pass. Failures of
// one sweep do not stop the others; the first error is returned after all
// four ran.
func (s *ExpirySweeper) SweepOnce(ctx context.Context) (SweepStats, error) {
	now := s.now().UTC()
	cutoff := now.Add(-s.grace)

	var stats SweepStats
	var firstErr error

	record := func(kind, from string, n int64, err error) int64 {
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return 0
		}
		if n > 0 {
			s.expired.WithLabelValues(kind, from).Add(float64(n))
		}
		return n
	}

	n, err := s.imports.ExpirePending(ctx, now)
	stats.ImportPending = record("import", "PENDING", n, err)

	n, err = s.imports.ExpireStaleApproved(ctx, cutoff)
	stats.ImportApproved = record("import", "APPROVED", n, err)

	n, err = s.borrows.ExpirePending(ctx, now)
	stats.BorrowPending = record("borrow", "PENDING", n, err)

	n, err = s.borrows.ExpireStaleApproved(ctx, cutoff)
	stats.BorrowApproved = record("borrow", "APPROVED", n, err)

	return stats, firstErr
}

// Run executes SweepOnce on every tick until the context is canceled. A missed
// or failed run only defers expiry detection, never correctness.
func (s *ExpirySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats, err := s.SweepOnce(ctx)
			if err != nil {
				log.Printf("expiry sweep: %v", err)
			}
			if stats.Total() > 0 {
				log.Printf("expiry sweep: expired %d requests", stats.Total())
			}
		}
	}
}
