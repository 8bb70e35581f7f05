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

type BookService interface {
	AddBook(ctx context.Context, title, author string) (*models.Book, error)
	ListBooks(ctx context.Context, filter repository.BookFilter) ([]models.Book, error)
	GetBookByID(ctx context.Context, id int64) (*models.Book, error)
}

type bookService struct {
	store  repository.Store
	ids    *IDAllocator
	logger *slog.Logger
}

func NewBookService(store repository.Store, ids *IDAllocator, logger *slog.Logger) BookService {
	if logger == nil {
		logger = slog.Default()
	}
	return &bookService{store: store, ids: ids, logger: logger}
}

func (s *bookService) AddBook(ctx context.Context, title, author string) (*models.Book, error) {
	normTitle, err := normalize("title", title)
	if err != nil {
		return nil, err
	}
	normAuthor, err := normalize("author", author)
	if err != nil {
		return nil, err
	}

	book := &models.Book{Title: normTitle, Author: normAuthor}
	_, err = s.ids.AllocateWith(ctx, func(ctx context.Context, id int64) error {
		book.ID = id
		return s.store.Books().Create(ctx, book)
	})
	if err != nil {
		return nil, storageError("add book", err)
	}

	s.logger.InfoContext(ctx, "book added", "book_id", book.ID, "title", book.Title)
	return book, nil
}

// ListBooks matches title and author exactly after the same normalization
// applied on insert. Blank filter fields are ignored.
func (s *bookService) ListBooks(ctx context.Context, filter repository.BookFilter) ([]models.Book, error) {
	filter.Title = strings.ToLower(strings.TrimSpace(filter.Title))
	filter.Author = strings.ToLower(strings.TrimSpace(filter.Author))

	books, err := s.store.Books().List(ctx, filter)
	if err != nil {
		return nil, storageError("list books", err)
	}
	return books, nil
}

func (s *bookService) GetBookByID(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.store.Books().FindByID(ctx, id, repository.LockNone)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: book %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, storageError("get book", err)
	}
	return book, nil
}
