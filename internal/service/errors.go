package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/recipeshare/backend/internal/apperr"
)

// storeError classifies a data store failure. Unique violations become
// ErrConflict and missing rows or references become ErrNotFound; everything
// else is a BackendError carrying the store's message.
func storeError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case apperr.Known(err):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrForeignKeyViolated), isForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, apperr.ErrConflict)
	default:
		return apperr.Backend(op, err)
	}
}

// Drivers that predate error translation report constraint failures as text.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

func isForeignKeyViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "violates foreign key constraint")
}
