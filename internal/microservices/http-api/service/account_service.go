package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
)

type AccountService interface {
	CreateUser(ctx context.Context, username string) (*models.User, error)
	// DeleteUser removes targetUserID. Only self-deletion is allowed and only
	// while the user holds no books.
	DeleteUser(ctx context.Context, requestingUserID, targetUserID int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

type accountService struct {
	store  repository.Store
	loans  LoanChecker
	ids    *IDAllocator
	logger *slog.Logger
}

func NewAccountService(store repository.Store, loans LoanChecker, ids *IDAllocator, logger *slog.Logger) AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &accountService{store: store, loans: loans, ids: ids, logger: logger}
}

// normalize trims and lower-cases a name, failing on blank input.
func normalize(field, value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return "", fmt.Errorf("%w: %s must not be blank", ErrInvalidInput, field)
	}
	return v, nil
}

func (s *accountService) CreateUser(ctx context.Context, username string) (*models.User, error) {
	name, err := normalize("username", username)
	if err != nil {
		return nil, err
	}

	// Fast path for the common conflict; the unique index settles races.
	if _, err := s.store.Users().FindByUsername(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrUsernameTaken, name)
	} else if !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, storageError("find user by username", err)
	}

	user := &models.User{Username: name}
	_, err = s.ids.AllocateWith(ctx, func(ctx context.Context, id int64) error {
		user.ID = id
		return s.store.Users().Create(ctx, user)
	})
	if errors.Is(err, repository.ErrDuplicateUsername) {
		return nil, fmt.Errorf("%w: %q", ErrUsernameTaken, name)
	}
	if err != nil {
		return nil, storageError("create user", err)
	}

	s.logger.InfoContext(ctx, "user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *accountService) DeleteUser(ctx context.Context, requestingUserID, targetUserID int64) (*models.User, error) {
	if requestingUserID != targetUserID {
		return nil, fmt.Errorf("%w: user %d cannot delete user %d", ErrUnauthorized, requestingUserID, targetUserID)
	}

	var deleted *models.User
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		// FOR UPDATE waits for toggles holding FOR SHARE on this user.
		user, err := tx.Users().FindByID(ctx, targetUserID, repository.LockUpdate)
		if errors.Is(err, repository.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, targetUserID)
		}
		if err != nil {
			return err
		}

		held, err := s.loans.HeldBy(ctx, tx, targetUserID)
		if err != nil {
			return err
		}
		if len(held) > 0 {
			return fmt.Errorf("%w: user %d holds %d book(s)", ErrHasActiveLoans, targetUserID, len(held))
		}

		err = tx.Users().Delete(ctx, targetUserID)
		switch {
		case errors.Is(err, repository.ErrReferenced):
			return fmt.Errorf("%w: user %d", ErrHasActiveLoans, targetUserID)
		case errors.Is(err, repository.ErrRecordNotFound):
			return fmt.Errorf("%w: user %d", ErrNotFound, targetUserID)
		case err != nil:
			return err
		}

		deleted = user
		return nil
	})
	if err != nil {
		return nil, storageError("delete user", err)
	}

	s.logger.InfoContext(ctx, "user deleted", "user_id", deleted.ID)
	return deleted, nil
}

func (s *accountService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, storageError("list users", err)
	}
	return users, nil
}

func (s *accountService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.Users().FindByID(ctx, id, repository.LockNone)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, storageError("get user", err)
	}
	return user, nil
}
