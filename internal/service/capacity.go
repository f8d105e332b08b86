package service

import (
	"context"
	"database/sql"
	"errors"

	"docstore/internal/repository"
)

// CapacityReport is the result of a folder capacity check.
type CapacityReport struct {
	OK           bool `json:"ok"`
	CurrentUsage int  `json:"current_usage"`
	Capacity     int  `json:"capacity"`
}

// CapacityLedger computes and validates space usage at each hierarchy level:
// folder page capacity, locker folder-count capacity, room locker-count
// capacity. The ledger's reads produce the explainable numbers; the
// authoritative enforcement is the predicate inside the repository's guarded
// writes, which re-evaluates the same arithmetic at commit time.
type CapacityLedger struct {
	folders repository.FolderRepository
	docs    repository.DocumentRepository
	lockers repository.LockerRepository
	rooms   repository.RoomRepository
}

// NewCapacityLedger constructs a CapacityLedger.
func NewCapacityLedger(
	folders repository.FolderRepository,
	docs repository.DocumentRepository,
	lockers repository.LockerRepository,
	rooms repository.RoomRepository,
) *CapacityLedger {
	return &CapacityLedger{folders: folders, docs: docs, lockers: lockers, rooms: rooms}
}

// CheckFolder reports whether additionalPages fit into the folder given the
// pages already taken by AVAILABLE, BORROWED and PENDING documents.
func (l *CapacityLedger) CheckFolder(ctx context.Context, folderID string, additionalPages int) (CapacityReport, error) {
	folder, err := l.folders.FindFolderByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CapacityReport{}, &StateConflictError{Entity: "Folder"}
		}
		return CapacityReport{}, err
	}

	used, err := l.docs.SumActivePages(ctx, folderID)
	if err != nil {
		return CapacityReport{}, err
	}

	return CapacityReport{
		OK:           used+additionalPages <= folder.Capacity,
		CurrentUsage: used,
		Capacity:     folder.Capacity,
	}, nil
}

// CheckLocker reports whether one more folder fits into the locker.
func (l *CapacityLedger) CheckLocker(ctx context.Context, lockerID string) (CapacityReport, error) {
	locker, err := l.lockers.FindLockerByID(ctx, lockerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CapacityReport{}, &StateConflictError{Entity: "Locker"}
		}
		return CapacityReport{}, err
	}

	count, err := l.lockers.CountFolders(ctx, lockerID)
	if err != nil {
		return CapacityReport{}, err
	}

	return CapacityReport{
		OK:           count < locker.Capacity,
		CurrentUsage: count,
		Capacity:     locker.Capacity,
	}, nil
}

// CheckRoom reports whether one more locker fits into the room.
func (l *CapacityLedger) CheckRoom(ctx context.Context, roomID string) (CapacityReport, error) {
	room, err := l.rooms.FindRoomByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CapacityReport{}, &StateConflictError{Entity: "Room"}
		}
		return CapacityReport{}, err
	}

	count, err := l.rooms.CountLockers(ctx, roomID)
	if err != nil {
		return CapacityReport{}, err
	}

	return CapacityReport{
		OK:           count < room.Capacity,
		CurrentUsage: count,
		Capacity:     room.Capacity,
	}, nil
}
