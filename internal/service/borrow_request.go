package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"docstore/internal/model"
	"docstore/internal/notify"
	"docstore/internal/repository"
)

// CreateBorrowInput is the payload for requesting a document checkout.
type CreateBorrowInput struct {
	Description    string    `json:"description"`
	DocumentID     string    `json:"document_id"`
	StartDate      time.Time `json:"start_date"`
	BorrowDuration int       `json:"borrow_duration"`
}

// BorrowRequestService drives the borrow request lifecycle. Its guard set is
// the same state machine as imports plus the overlap check against other
// approved windows of the same document, applied at creation and again at
// acceptance.
type BorrowRequestService interface {
	Create(ctx context.Context, actor model.Actor, in CreateBorrowInput) (*model.BorrowRequest, error)
	Get(ctx context.Context, actor model.Actor, id string) (*model.BorrowRequest, error)
	List(ctx context.Context, actor model.Actor, status model.RequestStatus, pq repository.PageQuery) (*repository.PageResult[model.BorrowRequest], error)
	Accept(ctx context.Context, actor model.Actor, id string) error
	Verify(ctx context.Context, actor model.Actor, token string) error
	Reject(ctx context.Context, actor model.Actor, id, reason string) error
	Cancel(ctx context.Context, actor model.Actor, id string) error
}

type borrowRequestService struct {
	requests  repository.BorrowRequestRepository
	documents repository.DocumentRepository
	scheduler *OverlapScheduler
	notifier  notify.Notifier
	now       func() time.Time
}

// NewBorrowRequestService constructs a BorrowRequestService.
func NewBorrowRequestService(
	requests repository.BorrowRequestRepository,
	documents repository.DocumentRepository,
	scheduler *OverlapScheduler,
	notifier notify.Notifier,
	now func() time.Time,
) BorrowRequestService {
	if now == nil {
		now = time.Now
	}
	return &borrowRequestService{
		requests:  requests,
		documents: documents,
		scheduler: scheduler,
		notifier:  notifier,
		now:       now,
	}
}

func (s *borrowRequestService) Create(ctx context.Context, actor model.Actor, in CreateBorrowInput) (*model.BorrowRequest, error) {
	if in.BorrowDuration <= 0 {
		return nil, &ValidationError{Field: "borrow_duration", Reason: "must be greater than zero"}
	}
	if in.StartDate.IsZero() {
		return nil, &ValidationError{Field: "start_date", Reason: "must be set"}
	}

	// The document must sit inside the requester's department.
	if _, err := s.documents.FindInDepartment(ctx, in.DocumentID, actor.DepartmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &StateConflictError{Entity: "Document"}
		}
		return nil, err
	}

	now := s.now().UTC()
	candidate := Window{Start: in.StartDate, End: in.StartDate.AddDate(0, 0, in.BorrowDuration)}
	if err := s.scheduler.Check(ctx, in.DocumentID, "", candidate); err != nil {
		return nil, err
	}

	req := &model.BorrowRequest{
		ID:             uuid.NewString(),
		Description:    in.Description,
		Status:         model.RequestPending,
		ExpiredAt:      now.Add(model.DefaultRequestTTL),
		DocumentID:     in.DocumentID,
		StartDate:      in.StartDate,
		BorrowDuration: in.BorrowDuration,
		CreatedBy:      actor.ID,
		CreatedAt:      now,
	}

	stored, err := s.requests.Create(ctx, req)
	if err != nil {
		if errors.Is(err, repository.ErrNotInserted) {
			// The write-time overlap predicate rejected the row: an approval
			// landed between our read and the insert.
			return nil, &ScheduleConflictError{Start: candidate.Start, End: candidate.End}
		}
		return nil, err
	}

	s.emit(ctx, notify.Event{
		RequestID:  stored.ID,
		DocumentID: in.DocumentID,
		ActorName:  actor.Name,
		Message:    "borrow request created",
	})
	return stored, nil
}

func (s *borrowRequestService) Get(ctx context.Context, actor model.Actor, id string) (*model.BorrowRequest, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &StateConflictError{Entity: "Borrow Request"}
		}
		return nil, err
	}
	if !actor.IsManager() && req.CreatedBy != actor.ID {
		return nil, &StateConflictError{Entity: "Borrow Request"}
	}
	attachBorrowToken(req, actor)
	return req, nil
}

func (s *borrowRequestService) List(ctx context.Context, actor model.Actor, status model.RequestStatus, pq repository.PageQuery) (*repository.PageResult[model.BorrowRequest], error) {
	f := repository.RequestFilter{Status: status, Page: pq}
	if !actor.IsManager() {
		f.CreatedBy = actor.ID
	}
	res, err := s.requests.List(ctx, f)
	if err != nil {
		return nil, err
	}
	for i := range res.Items {
		attachBorrowToken(&res.Items[i], actor)
	}
	return res, nil
}

// attachBorrowToken puts the verification token on an APPROVED request when
// the reader is its requester.
func attachBorrowToken(req *model.BorrowRequest, actor model.Actor) {
	if req.Status != model.RequestApproved || req.CreatedBy != actor.ID {
		return
	}
	if tok, err := VerificationToken(req.ID); err == nil {
		req.Token = tok
	}
}

// Accept re-runs the overlap check (state may have shifted since creation) and
// then performs the guarded update. When the update loses a race, the request
// is re-read to tell "row vanished or already transitioned" apart from "an
// overlapping approval won".
func (s *borrowRequestService) Accept(ctx context.Context, actor model.Actor, id string) error {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &StateConflictError{Entity: "Borrow Request"}
		}
		return err
	}
	if req.Status != model.RequestPending {
		return &StateConflictError{Entity: "Borrow Request"}
	}

	if err := s.scheduler.Check(ctx, req.DocumentID, req.ID, WindowOf(req)); err != nil {
		return err
	}

	ok, err := s.requests.Accept(ctx, id, actor.ID, s.now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		fresh, err := s.requests.FindByID(ctx, id)
		if err != nil || fresh.Status != model.RequestPending {
			return &StateConflictError{Entity: "Borrow Request"}
		}
		return &ScheduleConflictError{Start: req.StartDate, End: req.EndDate()}
	}

	s.emit(ctx, notify.Event{
		RequestID:  id,
		DocumentID: req.DocumentID,
		ActorName:  actor.Name,
		Message:    "borrow request accepted",
	})
	return nil
}

// Verify hands the physical document over: the approved request becomes DONE,
// the document flips to BORROWED and the checkout is recorded. Allowed only
// inside the approved window.
func (s *borrowRequestService) Verify(ctx context.Context, actor model.Actor, token string) error {
	id, err := ParseVerificationToken(token)
	if err != nil {
		return err
	}
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &StateConflictError{Entity: "Borrow Request"}
		}
		return err
	}
	if req.Status != model.RequestApproved {
		return &StateConflictError{Entity: "Borrow Request"}
	}

	now := s.now().UTC()
	if now.Before(req.StartDate) {
		return ErrBorrowTooEarly
	}
	if now.After(req.EndDate()) {
		return ErrBorrowWindowPassed
	}

	hist := &model.BorrowHistory{
		ID:              uuid.NewString(),
		DocumentID:      req.DocumentID,
		BorrowRequestID: req.ID,
		UserID:          req.CreatedBy,
		StartDate:       req.StartDate,
		DueDate:         req.EndDate(),
	}
	ok, err := s.requests.Verify(ctx, id, actor.ID, hist)
	if err != nil {
		return err
	}
	if !ok {
		return &StateConflictError{Entity: "Borrow Request"}
	}
	return nil
}

func (s *borrowRequestService) Reject(ctx context.Context, actor model.Actor, id, reason string) error {
	ok, err := s.requests.Reject(ctx, id, reason, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return &StateConflictError{Entity: "Borrow Request"}
	}
	s.emit(ctx, notify.Event{
		RequestID: id,
		ActorName: actor.Name,
		Message:   "borrow request rejected: " + reason,
	})
	return nil
}

func (s *borrowRequestService) Cancel(ctx context.Context, actor model.Actor, id string) error {
	ok, err := s.requests.Cancel(ctx, id, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return &StateConflictError{Entity: "Borrow Request"}
	}
	return nil
}

func (s *borrowRequestService) emit(ctx context.Context, e notify.Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := s.notifier.Send(ctx, e); err != nil {
			log.Printf("notify: %v", err)
		}
	}()
}
