// Package repository contains the PostgreSQL data access layer. Each
// repository wraps a pgx pool and translates driver errors into the
// shared apperr taxonomy: pgx.ErrNoRows becomes ErrNotFound, unique
// violations become domain conflicts, anything else is tagged as a
// transient storage fault.
package repository

import (
	"fmt"

	"dating-backend/internal/apperr"
)

// storageErr wraps a driver fault so callers can detect it as
// transient with errors.Is(err, apperr.ErrStorageUnavailable).
func storageErr(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, apperr.ErrStorageUnavailable, err)
}
