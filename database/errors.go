package database

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/todoapi/errors"
)

// IsNotFoundError checks if the error is a GORM record-not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError checks if the error is a duplicate-key violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// WrapError converts an unclassified database error to an AppError. Callers
// that can name the missing resource translate not-found themselves before
// falling back here.
func WrapError(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}
	return apperrors.DatabaseError(err)
}
