package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	store    repository.Store
	lending  LendingService
	accounts AccountService
	books    BookService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repository.NewMemoryStore()
	logger := discardLogger()
	lending := NewLendingService(store, logger)
	return &testEnv{
		store:    store,
		lending:  lending,
		accounts: NewAccountService(store, lending, NewIDAllocator("users", store.Users().Exists), logger),
		books:    NewBookService(store, NewIDAllocator("books", store.Books().Exists), logger),
	}
}

// seedUser inserts a user with a fixed id so scenarios can refer to it.
func (e *testEnv) seedUser(t *testing.T, id int64, username string) {
	t.Helper()
	require.NoError(t, e.store.Users().Create(context.Background(), &models.User{ID: id, Username: username}))
}

func (e *testEnv) seedBook(t *testing.T, id int64, title, author string) {
	t.Helper()
	require.NoError(t, e.store.Books().Create(context.Background(), &models.Book{ID: id, Title: title, Author: author}))
}

func (e *testEnv) holderOf(t *testing.T, bookID int64) *int64 {
	t.Helper()
	book, err := e.store.Books().FindByID(context.Background(), bookID, repository.LockNone)
	require.NoError(t, err)
	return book.HolderID
}

// --- MOCK STORE ---

type MockStore struct {
	mock.Mock
	books *MockBookRepository
	users *MockUserRepository
}

func newMockStore() *MockStore {
	return &MockStore{books: new(MockBookRepository), users: new(MockUserRepository)}
}

func (m *MockStore) Books() repository.BookRepository { return m.books }
func (m *MockStore) Users() repository.UserRepository { return m.users }

func (m *MockStore) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) Create(ctx context.Context, book *models.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookRepository) FindByID(ctx context.Context, id int64, lock repository.LockMode) (*models.Book, error) {
	args := m.Called(ctx, id, lock)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) List(ctx context.Context, filter repository.BookFilter) ([]models.Book, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepository) ListByHolder(ctx context.Context, userID int64) ([]models.Book, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepository) SwapHolder(ctx context.Context, id int64, expected, next *int64) (bool, error) {
	args := m.Called(ctx, id, expected, next)
	return args.Bool(0), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64, lock repository.LockMode) (*models.User, error) {
	args := m.Called(ctx, id, lock)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
