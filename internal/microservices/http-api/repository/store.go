package repository

import (
	"context"

	"libraryhub/internal/microservices/http-api/models"
)

// LockMode selects the row lock taken by FindByID inside a transaction.
// Outside a transaction the lock is released as soon as the read completes.
type LockMode int

const (
	LockNone   LockMode = iota
	LockShare           // SELECT ... FOR SHARE
	LockUpdate          // SELECT ... FOR UPDATE
)

// BookFilter narrows ListBooks. Empty fields match everything.
type BookFilter struct {
	Title  string
	Author string
}

// BookRepository defines the data operations on books.
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	Exists(ctx context.Context, id int64) (bool, error)
	FindByID(ctx context.Context, id int64, lock LockMode) (*models.Book, error)
	List(ctx context.Context, filter BookFilter) ([]models.Book, error)
	ListByHolder(ctx context.Context, userID int64) ([]models.Book, error)
	// SwapHolder sets the holder to next only if it currently equals expected
	// (nil meaning no holder). It reports whether the row was updated.
	SwapHolder(ctx context.Context, id int64, expected, next *int64) (bool, error)
}

// UserRepository defines the data operations on users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Exists(ctx context.Context, id int64) (bool, error)
	FindByID(ctx context.Context, id int64, lock LockMode) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id int64) error
}

// Store groups the repositories and provides the transaction scope every
// read-then-conditional-write must run in.
type Store interface {
	Books() BookRepository
	Users() UserRepository
	// WithinTx runs fn against a transactional view of the store. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
