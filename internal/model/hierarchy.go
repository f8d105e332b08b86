package model

import "time"

// Containment hierarchy: a department owns rooms and categories, a room owns
// lockers, a locker owns folders, a folder owns documents. Children hold a
// foreign key to their parent; reverse navigation goes through queries by
// parent id rather than embedded back-pointers.

type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Room capacity is the maximum number of lockers it can hold.
type Room struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Capacity     int       `json:"capacity"`
	DepartmentID string    `json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Locker capacity is the maximum number of folders it can hold.
type Locker struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	RoomID    string    `json:"room_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Folder capacity is measured in pages, not in document count.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	LockerID  string    `json:"locker_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Category classifies documents and is owned by a department. A document's
// category must belong to the same department as its folder.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DepartmentID string    `json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
}
