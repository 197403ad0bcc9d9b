// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"devconnector/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// updateVersioned writes every column of model only if the stored version still
// equals *version, then advances it. Losing the race yields STALE_WRITE, and a
// row that vanished yields NOT_FOUND.
func updateVersioned(ctx context.Context, db *gorm.DB, model any, id string, version *int, resource string) error {
	prev := *version
	*version = prev + 1

	res := db.WithContext(ctx).
		Model(model).
		Where("version = ?", prev).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if res.Error != nil {
		*version = prev
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	*version = prev
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return models.NewInternalError(err)
	}
	if count == 0 {
		return models.NewNotFoundError(resource + " not found")
	}
	return models.NewStaleWriteError(resource)
}
