package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"docstore/internal/model"
	"docstore/internal/repository"
)

// HierarchyService manages the containment hierarchy. Creating a locker or
// folder consumes a parent slot and therefore runs through the capacity
// ledger; everything else is lookup with uniqueness checks.
type HierarchyService interface {
	CreateDepartment(ctx context.Context, name string) (*model.Department, error)
	ListDepartments(ctx context.Context) ([]model.Department, error)

	CreateRoom(ctx context.Context, departmentID, name string, capacity int) (*model.Room, error)
	ListRooms(ctx context.Context, departmentID string) ([]model.Room, error)
	UpdateRoomCapacity(ctx context.Context, id string, capacity int) error

	CreateLocker(ctx context.Context, roomID, name string, capacity int) (*model.Locker, error)
	ListLockers(ctx context.Context, roomID string) ([]model.Locker, error)
	UpdateLockerCapacity(ctx context.Context, id string, capacity int) error

	CreateFolder(ctx context.Context, lockerID, name string, capacity int) (*model.Folder, error)
	ListFolders(ctx context.Context, lockerID string) ([]model.Folder, error)
	UpdateFolderCapacity(ctx context.Context, id string, capacity int) error

	CreateCategory(ctx context.Context, departmentID, name string) (*model.Category, error)
	ListCategories(ctx context.Context, departmentID string) ([]model.Category, error)
}

type hierarchyService struct {
	departments repository.DepartmentRepository
	rooms       repository.RoomRepository
	lockers     repository.LockerRepository
	folders     repository.FolderRepository
	ledger      *CapacityLedger
	now         func() time.Time
}

// NewHierarchyService constructs a HierarchyService.
func NewHierarchyService(
	departments repository.DepartmentRepository,
	rooms repository.RoomRepository,
	lockers repository.LockerRepository,
	folders repository.FolderRepository,
	ledger *CapacityLedger,
	now func() time.Time,
) HierarchyService {
	if now == nil {
		now = time.Now
	}
	return &hierarchyService{
		departments: departments,
		rooms:       rooms,
		lockers:     lockers,
		folders:     folders,
		ledger:      ledger,
		now:         now,
	}
}

func (s *hierarchyService) CreateDepartment(ctx context.Context, name string) (*model.Department, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	out, err := s.departments.CreateDepartment(ctx, &model.Department{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &DuplicateNameError{Entity: "Department", Name: name}
		}
		return nil, err
	}
	return out, nil
}

func (s *hierarchyService) ListDepartments(ctx context.Context) ([]model.Department, error) {
	return s.departments.ListDepartments(ctx)
}

func (s *hierarchyService) CreateRoom(ctx context.Context, departmentID, name string, capacity int) (*model.Room, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if capacity <= 0 {
		return nil, &ValidationError{Field: "capacity", Reason: "must be greater than zero"}
	}
	out, err := s.rooms.CreateRoom(ctx, &model.Room{
		ID:           uuid.NewString(),
		Name:         name,
		Capacity:     capacity,
		DepartmentID: departmentID,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &DuplicateNameError{Entity: "Room", Name: name}
		}
		return nil, err
	}
	return out, nil
}

func (s *hierarchyService) ListRooms(ctx context.Context, departmentID string) ([]model.Room, error) {
	return s.rooms.ListRooms(ctx, departmentID)
}

func (s *hierarchyService) UpdateRoomCapacity(ctx context.Context, id string, capacity int) error {
	if capacity <= 0 {
		return &ValidationError{Field: "capacity", Reason: "must be greater than zero"}
	}
	ok, err := s.rooms.UpdateRoomCapacity(ctx, id, capacity)
	if err != nil {
		return err
	}
	if !ok {
		return &ValidationError{Field: "capacity", Reason: "must be greater or equal to the current locker count"}
	}
	return nil
}

func (s *hierarchyService) CreateLocker(ctx context.Context, roomID, name string, capacity int) (*model.Locker, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if capacity <= 0 {
		return nil, &ValidationError{Field: "capacity", Reason: "must be greater than zero"}
	}
	out, err := s.lockers.CreateLocker(ctx, &model.Locker{
		ID:        uuid.NewString(),
		Name:      name,
		Capacity:  capacity,
		RoomID:    roomID,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotInserted) {
			report, rerr := s.ledger.CheckRoom(ctx, roomID)
			if rerr != nil {
				return nil, rerr
			}
			return nil, &CapacityExceededError{
				Resource:  "room",
				Current:   report.CurrentUsage,
				Capacity:  report.Capacity,
				Requested: 1,
			}
		}
		if isUniqueViolation(err) {
			return nil, &DuplicateNameError{Entity: "Locker", Name: name}
		}
		return nil, err
	}
	return out, nil
}

func (s *hierarchyService) ListLockers(ctx context.Context, roomID string) ([]model.Locker, error) {
	return s.lockers.ListLockers(ctx, roomID)
}

func (s *hierarchyService) UpdateLockerCapacity(ctx context.Context, id string, capacity int) error {
	if capacity <= 0 {
		return &ValidationError{Field: "capacity", Reason: "must be greater than zero"}
	}
	ok, err := s.lockers.UpdateLockerCapacity(ctx, id, capacity)
	if err != nil {
		return err
	}
	if !ok {
		return &ValidationError{Field: "capacity", Reason: "must be greater or equal to the current folder count"}
	}
	return nil
}

func (s *hierarchyService) CreateFolder(ctx context.Context, lockerID, name string, capacity int) (*model.Folder, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if capacity <= 0 {
		return nil, &ValidationError{Field: "capacity", Reason: "must be greater than zero"}
	}
	out, err := s.folders.CreateFolder(ctx, &model.Folder{
		ID:        uuid.NewString(),
		Name:      name,
		Capacity:  capacity,
		LockerID:  lockerID,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotInserted) {
			report, rerr := s.ledger.CheckLocker(ctx, lockerID)
			if rerr != nil {
				return nil, rerr
			}
			return nil, &CapacityExceededError{
				Resource:  "locker",
				Current:   report.CurrentUsage,
				Capacity:  report.Capacity,
				Requested: 1,
			}
		}
		if isUniqueViolation(err) {
			return nil, &DuplicateNameError{Entity: "Folder", Name: name}
		}
		return nil, err
	}
	return out, nil
}

func (s *hierarchyService) ListFolders(ctx context.Context, lockerID string) ([]model.Folder, error) {
	return s.folders.ListFolders(ctx, lockerID)
}

func (s *hierarchyService) UpdateFolderCapacity(ctx context.Context, id string, capacity int) error {
	if capacity <= 0 {
		return &ValidationError{Field: "capacity", Reason: "must be greater than zero"}
	}
	ok, err := s.folders.UpdateFolderCapacity(ctx, id, capacity)
	if err != nil {
		return err
	}
	if !ok {
		return &ValidationError{Field: "capacity", Reason: "must be greater or equal to the current page usage"}
	}
	return nil
}

func (s *hierarchyService) CreateCategory(ctx context.Context, departmentID, name string) (*model.Category, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	out, err := s.departments.CreateCategory(ctx, &model.Category{
		ID:           uuid.NewString(),
		Name:         name,
		DepartmentID: departmentID,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &DuplicateNameError{Entity: "Category", Name: name}
		}
		return nil, err
	}
	return out, nil
}

func (s *hierarchyService) ListCategories(ctx context.Context, departmentID string) ([]model.Category, error) {
	return s.departments.ListCategories(ctx, departmentID)
}
