package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g. postgres) inside this directory.
// Interfaces stay narrow and persistence-only: point lookups, guarded
// single-statement writes reporting affected rows, and the few joined queries
// the booking engine needs. Business rules live in internal/service.

import "errors"

// ErrNotInserted is returned by guarded inserts whose capacity or overlap
// predicate rejected the row. It means the database-side re-check failed even
// though a prior read may have passed; callers translate it into the
// appropriate business error.
var ErrNotInserted = errors.New("repository: guarded insert affected no rows")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
