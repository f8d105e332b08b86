package service

import (
	"context"
	"sort"
	"time"

	"docstore/internal/model"
	"docstore/internal/repository"
)

// Window is a closed borrow interval [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two closed intervals intersect:
// eStart <= cEnd AND eEnd >= cStart.
func (w Window) Overlaps(o Window) bool {
	return !w.Start.After(o.End) && !w.End.Before(o.Start)
}

// WindowOf derives the closed borrow window of a request.
func WindowOf(req *model.BorrowRequest) Window {
	return Window{Start: req.StartDate, End: req.EndDate()}
}

// OverlapScheduler decides whether a candidate borrow window conflicts with
// any approved, non-expired borrow of the same document. It is evaluated once
// at creation and again at acceptance, because other requests can be approved
// in between; the database-side predicate remains the final authority. There
// is no persistent interval index; per-document cardinality is bounded by
// real shelf traffic, so an exact linear scan is sufficient.
type OverlapScheduler struct {
	borrows repository.BorrowRequestRepository
	now     func() time.Time
}

// NewOverlapScheduler constructs an OverlapScheduler.
func NewOverlapScheduler(borrows repository.BorrowRequestRepository, now func() time.Time) *OverlapScheduler {
	if now == nil {
		now = time.Now
	}
	return &OverlapScheduler{borrows: borrows, now: now}
}

// Check returns a *ScheduleConflictError when the candidate window intersects
// any approved unexpired window of the document, excluding the request with
// excludeID (pass "" when creating). Full date/time comparison throughout.
func (s *OverlapScheduler) Check(ctx context.Context, documentID, excludeID string, candidate Window) error {
	existing, err := s.borrows.FindApprovedUnexpired(ctx, documentID, excludeID, s.now().UTC())
	if err != nil {
		return err
	}

	// Most recent start first. The repository already orders this way; keep
	// the sort so the scan does not depend on it.
	sort.Slice(existing, func(i, j int) bool {
		return existing[i].StartDate.After(existing[j].StartDate)
	})

	for i := range existing {
		w := WindowOf(&existing[i])
		if w.Overlaps(candidate) {
			return &ScheduleConflictError{Start: w.Start, End: w.End}
		}
	}
	return nil
}
