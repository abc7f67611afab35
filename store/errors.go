package store

import (
	"errors"
	"fmt"
)

var (
	// ErrStorage wraps every failure that originates in the database.
	ErrStorage = errors.New("storage error")

	// ErrNotFound is returned when an update or delete targets a missing id.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned by InsertUnique when a record with the same name or link exists.
	ErrDuplicate = errors.New("duplicate record")

	// ErrLocked is returned when another process holds the catalog write lock.
	ErrLocked = errors.New("catalog is locked by another process")
)

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
