package repository

import (
	"context"
	"fmt"

	"libraryhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new instance of BookRepository in a GORM implementation
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Omit("Holder").Create(book).Error; err != nil {
		return fmt.Errorf("create book: %w", translateError(err))
	}
	return nil
}

func (r *bookRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check book exists: %w", translateError(err))
	}
	return count > 0, nil
}

func (r *bookRepository) FindByID(ctx context.Context, id int64, lock LockMode) (*models.Book, error) {
	var book models.Book
	// return nil on error so callers never see a zero-value book
	if err := withLock(r.db.WithContext(ctx), lock).First(&book, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &book, nil
}

func (r *bookRepository) List(ctx context.Context, filter BookFilter) ([]models.Book, error) {
	var books []models.Book
	q := r.db.WithContext(ctx).Model(&models.Book{})
	if filter.Title != "" {
		q = q.Where("title = ?", filter.Title)
	}
	if filter.Author != "" {
		q = q.Where("author = ?", filter.Author)
	}
	if err := q.Order("id").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", translateError(err))
	}
	return books, nil
}

func (r *bookRepository) ListByHolder(ctx context.Context, userID int64) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).
		Where("holder_id = ?", userID).
		Order("id").
		Find(&books).Error; err != nil {
		return nil, fmt.Errorf("list books by holder: %w", translateError(err))
	}
	return books, nil
}

func (r *bookRepository) SwapHolder(ctx context.Context, id int64, expected, next *int64) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Book{}).Where("id = ?", id)
	if expected == nil {
		q = q.Where("holder_id IS NULL")
	} else {
		q = q.Where("holder_id = ?", *expected)
	}

	var value any // untyped nil writes NULL
	if next != nil {
		value = *next
	}

	result := q.Update("holder_id", value)
	if result.Error != nil {
		return false, fmt.Errorf("swap book holder: %w", translateError(result.Error))
	}
	return result.RowsAffected == 1, nil
}
