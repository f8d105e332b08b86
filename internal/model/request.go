package model

import "time"

// DefaultRequestTTL is the window a new request stays actionable before the
// sweeper expires it. The same duration bounds how long an APPROVED request
// may wait for verification.
const DefaultRequestTTL = 3 * 24 * time.Hour

// ImportRequest asks to register and physically place a new document. The
// document row is created together with the request (status REQUESTING) and
// advances to PENDING only when the request is verified.
type ImportRequest struct {
	ID             string        `json:"id"`
	Description    string        `json:"description,omitempty"`
	Status         RequestStatus `json:"status"`
	ExpiredAt      time.Time     `json:"expired_at"`
	RejectedReason string        `json:"rejected_reason,omitempty"`
	DocumentID     string        `json:"document_id"`
	CreatedBy      string        `json:"created_by"`
	UpdatedBy      string        `json:"updated_by,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	// Document is the request's owned document when the query joined it.
	Document *Document `json:"document,omitempty"`

	// Token is the verification token handed to the requester while the
	// request is APPROVED. Derived per read, never persisted.
	Token string `json:"token,omitempty"`
}

// BorrowRequest asks to check out an existing document for a bounded window
// starting at StartDate and lasting BorrowDuration days.
type BorrowRequest struct {
	ID             string        `json:"id"`
	Description    string        `json:"description,omitempty"`
	Status         RequestStatus `json:"status"`
	ExpiredAt      time.Time     `json:"expired_at"`
	RejectedReason string        `json:"rejected_reason,omitempty"`
	DocumentID     string        `json:"document_id"`
	StartDate      time.Time     `json:"start_date"`
	BorrowDuration int           `json:"borrow_duration"`
	CreatedBy      string        `json:"created_by"`
	UpdatedBy      string        `json:"updated_by,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	// Token is the verification token handed to the requester while the
	// request is APPROVED. Derived per read, never persisted.
	Token string `json:"token,omitempty"`
}

// EndDate is the inclusive end of the requested borrow window.
func (b *BorrowRequest) EndDate() time.Time {
	return b.StartDate.AddDate(0, 0, b.BorrowDuration)
}

// BorrowHistory records an actual checkout. A row is created when a borrow
// request is verified and closed when the document comes back.
type BorrowHistory struct {
	ID              string     `json:"id"`
	DocumentID      string     `json:"document_id"`
	BorrowRequestID string     `json:"borrow_request_id"`
	UserID          string     `json:"user_id"`
	StartDate       time.Time  `json:"start_date"`
	DueDate         time.Time  `json:"due_date"`
	ReturnDate      *time.Time `json:"return_date,omitempty"`
	Note            string     `json:"note,omitempty"`
}

// Overdue reports whether the checkout is past due at the given instant. A
// closed history is never overdue.
func (h *BorrowHistory) Overdue(now time.Time) bool {
	return h.ReturnDate == nil && now.After(h.DueDate)
}
