package store

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrDuplicate indicates a unique constraint violation
	ErrDuplicate = errors.New("already exists")
	// ErrNotFound indicates the row does not exist
	ErrNotFound = errors.New("not found")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
