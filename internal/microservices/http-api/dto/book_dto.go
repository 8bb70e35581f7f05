package dto

import "libraryhub/internal/microservices/http-api/models"

// CreateBookRequest used for POST /api/books
type CreateBookRequest struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
}

// ToggleRequest used for PATCH /api/books/:book_id
type ToggleRequest struct {
	UserID int64 `json:"user_id" binding:"required,min=1"`
}

type BookResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	SignedOut bool   `json:"signed_out"`
	Holder    *int64 `json:"holder"`
}

type BookListResponse struct {
	Items []BookResponse `json:"items"`
	Total int            `json:"total"`
}

// ToggleResponse reports which transition a toggle performed.
type ToggleResponse struct {
	Book   BookResponse `json:"book"`
	Action string       `json:"action"`
}

type HolderResponse struct {
	BookID    int64  `json:"book_id"`
	SignedOut bool   `json:"signed_out"`
	Holder    *int64 `json:"holder"`
}

// Converters
func FromBookModel(b models.Book) BookResponse {
	return BookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		SignedOut: b.IsSignedOut(),
		Holder:    b.HolderID,
	}
}

func FromBookModels(books []models.Book) BookListResponse {
	items := make([]BookResponse, 0, len(books))
	for _, b := range books {
		items = append(items, FromBookModel(b))
	}
	return BookListResponse{Items: items, Total: len(items)}
}
