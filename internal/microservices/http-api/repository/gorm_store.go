package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormStore is the GORM implementation of Store.
// Inside WithinTx, db is the transaction handle.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by GORM
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Books() BookRepository {
	return &bookRepository{db: s.db}
}

func (s *gormStore) Users() UserRepository {
	return &userRepository{db: s.db}
}

func (s *gormStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	// gorm rolls back when fn returns an error or panics
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
	return translateError(err)
}

// withLock adds the row locking clause for the requested mode.
func withLock(db *gorm.DB, lock LockMode) *gorm.DB {
	switch lock {
	case LockUpdate:
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	case LockShare:
		return db.Clauses(clause.Locking{Strength: "SHARE"})
	default:
		return db
	}
}
