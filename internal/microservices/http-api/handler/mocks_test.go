package handler_test

import (
	"context"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/stretchr/testify/mock"
)

func int64Ptr(v int64) *int64 { return &v }

// --- MOCK SERVICES ---

type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) AddBook(ctx context.Context, title, author string) (*models.Book, error) {
	args := m.Called(ctx, title, author)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) ListBooks(ctx context.Context, filter repository.BookFilter) ([]models.Book, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookService) GetBookByID(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

type MockLendingService struct {
	mock.Mock
}

func (m *MockLendingService) ToggleSignOut(ctx context.Context, bookID, userID int64) (*service.ToggleResult, error) {
	args := m.Called(ctx, bookID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ToggleResult), args.Error(1)
}

func (m *MockLendingService) IsSignedOut(ctx context.Context, bookID int64) (bool, error) {
	args := m.Called(ctx, bookID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLendingService) Holder(ctx context.Context, bookID int64) (int64, bool, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockLendingService) QueryHolderOf(ctx context.Context, userID int64) ([]models.Book, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockLendingService) HeldBy(ctx context.Context, tx repository.Store, userID int64) ([]models.Book, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateUser(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAccountService) DeleteUser(ctx context.Context, requestingUserID, targetUserID int64) (*models.User, error) {
	args := m.Called(ctx, requestingUserID, targetUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAccountService) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockAccountService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
