package repository

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	"libraryhub/internal/microservices/http-api/models"
)

type memoryState struct {
	books     map[int64]models.Book
	users     map[int64]models.User
	usernames map[string]int64
}

func newMemoryState() *memoryState {
	return &memoryState{
		books:     map[int64]models.Book{},
		users:     map[int64]models.User{},
		usernames: map[string]int64{},
	}
}

func (s *memoryState) clone() *memoryState {
	return &memoryState{
		books:     maps.Clone(s.books),
		users:     maps.Clone(s.users),
		usernames: maps.Clone(s.usernames),
	}
}

// memoryStore is an in-process Store. Plain calls take the RWMutex per
// operation; WithinTx holds the write lock for the whole scope, so
// transactions are serializable and restore a snapshot when fn fails.
type memoryStore struct {
	mu    *sync.RWMutex
	state **memoryState
	inTx  bool
}

// NewMemoryStore creates an empty in-memory Store.
func NewMemoryStore() Store {
	state := newMemoryState()
	return &memoryStore{mu: &sync.RWMutex{}, state: &state}
}

func (s *memoryStore) Books() BookRepository { return &memoryBooks{s} }
func (s *memoryStore) Users() UserRepository { return &memoryUsers{s} }

func (s *memoryStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return translateError(err)
	}

	snapshot := (*s.state).clone()
	tx := &memoryStore{mu: s.mu, state: s.state, inTx: true}
	if err := fn(tx); err != nil {
		*s.state = snapshot
		return err
	}
	// a deadline hit mid-transaction aborts it like a database would
	if err := ctx.Err(); err != nil {
		*s.state = snapshot
		return translateError(err)
	}
	return nil
}

func (s *memoryStore) read() (*memoryState, func()) {
	if s.inTx {
		return *s.state, func() {}
	}
	s.mu.RLock()
	return *s.state, s.mu.RUnlock
}

func (s *memoryStore) write() (*memoryState, func()) {
	if s.inTx {
		return *s.state, func() {}
	}
	s.mu.Lock()
	return *s.state, s.mu.Unlock
}

type memoryBooks struct{ s *memoryStore }

func (r *memoryBooks) Create(ctx context.Context, book *models.Book) error {
	st, unlock := r.s.write()
	defer unlock()
	if _, ok := st.books[book.ID]; ok {
		return ErrDuplicateID
	}
	if book.HolderID != nil {
		if _, ok := st.users[*book.HolderID]; !ok {
			return ErrReferenced
		}
	}
	st.books[book.ID] = copyBook(*book)
	return nil
}

func (r *memoryBooks) Exists(ctx context.Context, id int64) (bool, error) {
	st, unlock := r.s.read()
	defer unlock()
	_, ok := st.books[id]
	return ok, nil
}

// FindByID ignores lock: the transaction already holds the store-wide lock.
func (r *memoryBooks) FindByID(ctx context.Context, id int64, _ LockMode) (*models.Book, error) {
	st, unlock := r.s.read()
	defer unlock()
	book, ok := st.books[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	book = copyBook(book)
	return &book, nil
}

func (r *memoryBooks) List(ctx context.Context, filter BookFilter) ([]models.Book, error) {
	st, unlock := r.s.read()
	defer unlock()
	return sortedBooks(st.books, func(b models.Book) bool {
		return (filter.Title == "" || b.Title == filter.Title) &&
			(filter.Author == "" || b.Author == filter.Author)
	}), nil
}

func (r *memoryBooks) ListByHolder(ctx context.Context, userID int64) ([]models.Book, error) {
	st, unlock := r.s.read()
	defer unlock()
	return sortedBooks(st.books, func(b models.Book) bool {
		return b.HeldBy(userID)
	}), nil
}

func (r *memoryBooks) SwapHolder(ctx context.Context, id int64, expected, next *int64) (bool, error) {
	st, unlock := r.s.write()
	defer unlock()
	book, ok := st.books[id]
	if !ok || !sameHolder(book.HolderID, expected) {
		return false, nil
	}
	if next != nil {
		if _, ok := st.users[*next]; !ok {
			return false, ErrReferenced
		}
		v := *next
		book.HolderID = &v
	} else {
		book.HolderID = nil
	}
	st.books[id] = book
	return true, nil
}

type memoryUsers struct{ s *memoryStore }

func (r *memoryUsers) Create(ctx context.Context, user *models.User) error {
	st, unlock := r.s.write()
	defer unlock()
	if _, ok := st.users[user.ID]; ok {
		return ErrDuplicateID
	}
	if _, ok := st.usernames[user.Username]; ok {
		return ErrDuplicateUsername
	}
	st.users[user.ID] = *user
	st.usernames[user.Username] = user.ID
	return nil
}

func (r *memoryUsers) Exists(ctx context.Context, id int64) (bool, error) {
	st, unlock := r.s.read()
	defer unlock()
	_, ok := st.users[id]
	return ok, nil
}

func (r *memoryUsers) FindByID(ctx context.Context, id int64, _ LockMode) (*models.User, error) {
	st, unlock := r.s.read()
	defer unlock()
	user, ok := st.users[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &user, nil
}

func (r *memoryUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	st, unlock := r.s.read()
	defer unlock()
	id, ok := st.usernames[username]
	if !ok {
		return nil, ErrRecordNotFound
	}
	user := st.users[id]
	return &user, nil
}

func (r *memoryUsers) List(ctx context.Context) ([]models.User, error) {
	st, unlock := r.s.read()
	defer unlock()
	users := make([]models.User, 0, len(st.users))
	for _, u := range st.users {
		users = append(users, u)
	}
	slices.SortFunc(users, func(a, b models.User) int { return cmp.Compare(a.ID, b.ID) })
	return users, nil
}

// Delete mirrors the ON DELETE RESTRICT foreign key of the postgres schema.
func (r *memoryUsers) Delete(ctx context.Context, id int64) error {
	st, unlock := r.s.write()
	defer unlock()
	user, ok := st.users[id]
	if !ok {
		return ErrRecordNotFound
	}
	for _, b := range st.books {
		if b.HeldBy(id) {
			return ErrReferenced
		}
	}
	delete(st.users, id)
	delete(st.usernames, user.Username)
	return nil
}

func copyBook(b models.Book) models.Book {
	if b.HolderID != nil {
		v := *b.HolderID
		b.HolderID = &v
	}
	b.Holder = nil
	return b
}

func sameHolder(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sortedBooks(books map[int64]models.Book, keep func(models.Book) bool) []models.Book {
	out := make([]models.Book, 0)
	for _, b := range books {
		if keep(b) {
			out = append(out, copyBook(b))
		}
	}
	slices.SortFunc(out, func(a, b models.Book) int { return cmp.Compare(a.ID, b.ID) })
	return out
}
