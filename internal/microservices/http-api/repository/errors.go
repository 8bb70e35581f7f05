package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrDuplicateID       = errors.New("duplicate primary key")
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrReferenced        = errors.New("record is still referenced")
	ErrTransient         = errors.New("transient storage failure")
)

// postgres SQLSTATE codes the repositories react to
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgQueryCanceled        = "57014"
	pgLockNotAvailable     = "55P03"
)

// translateError maps driver and gorm errors onto the repository sentinels.
// Errors it does not recognise are returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		if strings.Contains(pgErr.ConstraintName, "username") {
			return fmt.Errorf("%w: %s", ErrDuplicateUsername, pgErr.ConstraintName)
		}
		return fmt.Errorf("%w: %s", ErrDuplicateID, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrReferenced, pgErr.ConstraintName)
	case pgSerializationFailure, pgDeadlockDetected, pgQueryCanceled, pgLockNotAvailable:
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	return err
}
