package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"docstore/internal/model"
	"docstore/internal/notify"
	"docstore/internal/repository"
)

// CreateImportInput is the payload for registering a new physical document.
type CreateImportInput struct {
	Description  string `json:"description"`
	DocumentName string `json:"document_name"`
	NumOfPages   int    `json:"num_of_pages"`
	FolderID     string `json:"folder_id"`
	CategoryID   string `json:"category_id"`
}

// ImportRequestService drives the import request lifecycle: a requester files
// the request together with its new document, a manager accepts or rejects it,
// and physical arrival is verified against the approved request.
type ImportRequestService interface {
	Create(ctx context.Context, actor model.Actor, in CreateImportInput) (*model.ImportRequest, error)
	Get(ctx context.Context, actor model.Actor, id string) (*model.ImportRequest, error)
	List(ctx context.Context, actor model.Actor, status model.RequestStatus, pq repository.PageQuery) (*repository.PageResult[model.ImportRequest], error)
	Accept(ctx context.Context, actor model.Actor, id string) error
	Verify(ctx context.Context, actor model.Actor, token string) error
	Reject(ctx context.Context, actor model.Actor, id, reason string) error
	Cancel(ctx context.Context, actor model.Actor, id string) error
}

type importRequestService struct {
	requests    repository.ImportRequestRepository
	documents   repository.DocumentRepository
	folders     repository.FolderRepository
	departments repository.DepartmentRepository
	ledger      *CapacityLedger
	notifier    notify.Notifier
	now         func() time.Time
}

// NewImportRequestService constructs an ImportRequestService.
func NewImportRequestService(
	requests repository.ImportRequestRepository,
	documents repository.DocumentRepository,
	folders repository.FolderRepository,
	departments repository.DepartmentRepository,
	ledger *CapacityLedger,
	notifier notify.Notifier,
	now func() time.Time,
) ImportRequestService {
	if now == nil {
		now = time.Now
	}
	return &importRequestService{
		requests:    requests,
		documents:   documents,
		folders:     folders,
		departments: departments,
		ledger:      ledger,
		notifier:    notifier,
		now:         now,
	}
}

func (s *importRequestService) Create(ctx context.Context, actor model.Actor, in CreateImportInput) (*model.ImportRequest, error) {
	if in.DocumentName == "" {
		return nil, &ValidationError{Field: "document_name", Reason: "must not be empty"}
	}
	if in.NumOfPages <= 0 {
		return nil, &ValidationError{Field: "num_of_pages", Reason: "must be greater than zero"}
	}

	// The folder must sit inside the requester's department, and the category
	// must belong to that same department, before any capacity math runs.
	if _, err := s.folders.FindFolderInDepartment(ctx, in.FolderID, actor.DepartmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &ContainmentViolationError{Entity: "Folder"}
		}
		return nil, err
	}
	ok, err := s.departments.CategoryServesFolder(ctx, in.CategoryID, in.FolderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ContainmentViolationError{Entity: "Category"}
	}

	report, err := s.ledger.CheckFolder(ctx, in.FolderID, in.NumOfPages)
	if err != nil {
		return nil, err
	}
	if !report.OK {
		return nil, &CapacityExceededError{
			Resource:  "folder",
			Current:   report.CurrentUsage,
			Capacity:  report.Capacity,
			Requested: in.NumOfPages,
		}
	}

	now := s.now().UTC()
	doc := &model.Document{
		ID:         uuid.NewString(),
		Name:       in.DocumentName,
		Status:     model.DocumentRequesting,
		NumOfPages: in.NumOfPages,
		FolderID:   in.FolderID,
		CategoryID: in.CategoryID,
		CreatedBy:  actor.ID,
		CreatedAt:  now,
	}
	req := &model.ImportRequest{
		ID:          uuid.NewString(),
		Description: in.Description,
		Status:      model.RequestPending,
		ExpiredAt:   now.Add(model.DefaultRequestTTL),
		DocumentID:  doc.ID,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
	}

	stored, err := s.requests.Create(ctx, req, doc)
	if err != nil {
		if errors.Is(err, repository.ErrNotInserted) {
			// The write-time capacity predicate rejected the row: a concurrent
			// import won the remaining space between our read and the insert.
			fresh, rerr := s.ledger.CheckFolder(ctx, in.FolderID, in.NumOfPages)
			if rerr != nil {
				return nil, rerr
			}
			return nil, &CapacityExceededError{
				Resource:  "folder",
				Current:   fresh.CurrentUsage,
				Capacity:  fresh.Capacity,
				Requested: in.NumOfPages,
			}
		}
		if isUniqueViolation(err) {
			return nil, &DuplicateNameError{Entity: "Document", Name: in.DocumentName}
		}
		return nil, err
	}
	stored.Document = doc

	s.emit(ctx, notify.Event{
		RequestID:  stored.ID,
		DocumentID: doc.ID,
		ActorName:  actor.Name,
		Message:    "import request created",
	})
	return stored, nil
}

func (s *importRequestService) Get(ctx context.Context, actor model.Actor, id string) (*model.ImportRequest, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &StateConflictError{Entity: "Import Request"}
		}
		return nil, err
	}
	// Employees only see their own requests.
	if !actor.IsManager() && req.CreatedBy != actor.ID {
		return nil, &StateConflictError{Entity: "Import Request"}
	}
	attachImportToken(req, actor)
	return req, nil
}

func (s *importRequestService) List(ctx context.Context, actor model.Actor, status model.RequestStatus, pq repository.PageQuery) (*repository.PageResult[model.ImportRequest], error) {
	f := repository.RequestFilter{Status: status, Page: pq}
	if !actor.IsManager() {
		f.CreatedBy = actor.ID
	}
	res, err := s.requests.List(ctx, f)
	if err != nil {
		return nil, err
	}
	for i := range res.Items {
		attachImportToken(&res.Items[i], actor)
	}
	return res, nil
}

// attachImportToken puts the verification token on an APPROVED request when
// the reader is its requester. The requester presents it at the archive desk.
func attachImportToken(req *model.ImportRequest, actor model.Actor) {
	if req.Status != model.RequestApproved || req.CreatedBy != actor.ID {
		return
	}
	if tok, err := VerificationToken(req.ID); err == nil {
		req.Token = tok
	}
}

func (s *importRequestService) Accept(ctx context.Context, actor model.Actor, id string) error {
	ok, err := s.requests.Accept(ctx, id, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return &StateConflictError{Entity: "Import Request"}
	}
	s.emit(ctx, notify.Event{
		RequestID: id,
		ActorName: actor.Name,
		Message:   "import request accepted",
	})
	return nil
}

func (s *importRequestService) Verify(ctx context.Context, actor model.Actor, token string) error {
	id, err := ParseVerificationToken(token)
	if err != nil {
		return err
	}
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &StateConflictError{Entity: "Import Request"}
		}
		return err
	}
	if req.Status != model.RequestApproved || req.Document == nil || req.Document.Status != model.DocumentRequesting {
		return &StateConflictError{Entity: "Import Request"}
	}

	ok, err := s.requests.Verify(ctx, id, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return &StateConflictError{Entity: "Import Request"}
	}
	return nil
}

func (s *importRequestService) Reject(ctx context.Context, actor model.Actor, id, reason string) error {
	ok, err := s.requests.Reject(ctx, id, reason, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return &StateConflictError{Entity: "Import Request"}
	}
	s.emit(ctx, notify.Event{
		RequestID: id,
		ActorName: actor.Name,
		Message:   "import request rejected: " + reason,
	})
	return nil
}

func (s *importRequestService) Cancel(ctx context.Context, actor model.Actor, id string) error {
	ok, err := s.requests.Cancel(ctx, id, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return &StateConflictError{Entity: "Import Request"}
	}
	return nil
}

// emit sends the event without blocking the request path. Delivery failures
// are logged and dropped.
func (s *importRequestService) emit(ctx context.Context, e notify.Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := s.notifier.Send(ctx, e); err != nil {
			log.Printf("notify: %v", err)
		}
	}()
}

// isUniqueViolation detects PostgreSQL unique-constraint errors (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
