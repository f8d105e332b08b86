package model

import "time"

// Document represents a physical document stored in a folder.
type Document struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Status     DocumentStatus `json:"status"`
	NumOfPages int            `json:"num_of_pages"`
	// StorageKey is the object-storage key of the uploaded scan, empty until a
	// scan has been attached.
	StorageKey string    `json:"storage_key,omitempty"`
	FolderID   string    `json:"folder_id"`
	CategoryID string    `json:"category_id"`
	CreatedBy  string    `json:"created_by"`
	UpdatedBy  string    `json:"updated_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ActiveStatuses are the document states that occupy physical folder space and
// therefore count against the folder's page capacity.
var ActiveStatuses = []DocumentStatus{DocumentAvailable, DocumentBorrowed, DocumentPending}
