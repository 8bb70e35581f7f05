package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
)

// ToggleAction tells the caller which transition a toggle performed.
type ToggleAction string

const (
	ActionSignedOut ToggleAction = "signed_out"
	ActionReturned  ToggleAction = "returned"
)

// ToggleResult is the outcome of a successful ToggleSignOut.
type ToggleResult struct {
	Book   *models.Book
	Action ToggleAction
}

// LoanChecker answers "which books does this user hold" against the caller's
// transaction, so a deletion guard sees the same state as its delete.
type LoanChecker interface {
	HeldBy(ctx context.Context, tx repository.Store, userID int64) ([]models.Book, error)
}

type LendingService interface {
	LoanChecker
	// ToggleSignOut signs the book out to userID when it is available, returns
	// it when userID already holds it, and fails with ErrAlreadySignedOut when
	// someone else does.
	ToggleSignOut(ctx context.Context, bookID, userID int64) (*ToggleResult, error)
	IsSignedOut(ctx context.Context, bookID int64) (bool, error)
	Holder(ctx context.Context, bookID int64) (int64, bool, error)
	QueryHolderOf(ctx context.Context, userID int64) ([]models.Book, error)
}

type lendingService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewLendingService(store repository.Store, logger *slog.Logger) LendingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &lendingService{store: store, logger: logger}
}

func (s *lendingService) ToggleSignOut(ctx context.Context, bookID, userID int64) (*ToggleResult, error) {
	var result ToggleResult

	// Book row first, then user row: the same order DeleteUser never inverts.
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		book, err := tx.Books().FindByID(ctx, bookID, repository.LockUpdate)
		if errors.Is(err, repository.ErrRecordNotFound) {
			return fmt.Errorf("%w: book %d", ErrNotFound, bookID)
		}
		if err != nil {
			return err
		}

		var next *int64
		holder, held := book.CurrentHolder()
		switch {
		case !held:
			// FOR SHARE blocks a concurrent delete of the user until commit.
			if _, err := tx.Users().FindByID(ctx, userID, repository.LockShare); err != nil {
				if errors.Is(err, repository.ErrRecordNotFound) {
					return fmt.Errorf("%w: user %d", ErrNotFound, userID)
				}
				return err
			}
			next = &userID
			result.Action = ActionSignedOut
		case holder == userID:
			result.Action = ActionReturned
		default:
			return fmt.Errorf("%w: book %d", ErrAlreadySignedOut, bookID)
		}

		swapped, err := tx.Books().SwapHolder(ctx, bookID, book.HolderID, next)
		if errors.Is(err, repository.ErrReferenced) {
			return fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		if err != nil {
			return err
		}
		if !swapped {
			return fmt.Errorf("%w: book %d", ErrAlreadySignedOut, bookID)
		}

		book.HolderID = next
		result.Book = book
		return nil
	})
	if err != nil {
		return nil, storageError("toggle sign out", err)
	}

	s.logger.InfoContext(ctx, "book toggled",
		"book_id", bookID,
		"user_id", userID,
		"action", string(result.Action),
	)
	return &result, nil
}

func (s *lendingService) IsSignedOut(ctx context.Context, bookID int64) (bool, error) {
	_, held, err := s.Holder(ctx, bookID)
	return held, err
}

func (s *lendingService) Holder(ctx context.Context, bookID int64) (int64, bool, error) {
	book, err := s.store.Books().FindByID(ctx, bookID, repository.LockNone)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return 0, false, fmt.Errorf("%w: book %d", ErrNotFound, bookID)
	}
	if err != nil {
		return 0, false, storageError("get holder", err)
	}
	holder, held := book.CurrentHolder()
	return holder, held, nil
}

func (s *lendingService) QueryHolderOf(ctx context.Context, userID int64) ([]models.Book, error) {
	return s.HeldBy(ctx, s.store, userID)
}

func (s *lendingService) HeldBy(ctx context.Context, tx repository.Store, userID int64) ([]models.Book, error) {
	books, err := tx.Books().ListByHolder(ctx, userID)
	if err != nil {
		return nil, storageError("list held books", err)
	}
	return books, nil
}
