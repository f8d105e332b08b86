package model

// DocumentStatus is the persisted lifecycle state of a physical document.
// Values are part of the storage contract and must not change.
type DocumentStatus string

const (
	// DocumentRequesting marks a document created by an import request that has
	// not yet been physically placed; it does not occupy folder space.
	DocumentRequesting DocumentStatus = "REQUESTING"
	// DocumentPending marks a document whose import was verified but whose
	// placement has not been confirmed by a manager. It counts against the
	// folder's page capacity.
	DocumentPending DocumentStatus = "PENDING"
	DocumentAvailable DocumentStatus = "AVAILABLE"
	DocumentBorrowed  DocumentStatus = "BORROWED"
	// DocumentDeleted is terminal and excludes the document from capacity sums.
	DocumentDeleted DocumentStatus = "DELETED"
)

// RequestStatus is the persisted lifecycle state of an import or borrow request.
// PENDING is initial; REJECTED, CANCELED, DONE and EXPIRED are terminal.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
	RequestCanceled RequestStatus = "CANCELED"
	RequestDone     RequestStatus = "DONE"
	RequestExpired  RequestStatus = "EXPIRED"
)

// Terminal reports whether no further transition is allowed from s.
func (s RequestStatus) Terminal() bool {
	switch s {
	case RequestRejected, RequestCanceled, RequestDone, RequestExpired:
		return true
	}
	return false
}

// Role is the actor role resolved by the identity gateway. The engine never
// validates credentials; it only consumes the resolved role.
type Role string

const (
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)
