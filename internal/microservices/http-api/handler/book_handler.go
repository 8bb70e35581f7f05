package handler

import (
	"context"
	"net/http"
	"time"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	books   service.BookService
	lending service.LendingService
	timeout time.Duration
}

func NewBookHandler(books service.BookService, lending service.LendingService, timeout time.Duration) *BookHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BookHandler{books: books, lending: lending, timeout: timeout}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:book_id", h.Get)
	rg.GET("/:book_id/holder", h.Holder)
	rg.PATCH("/:book_id", h.Toggle)
}

func (h *BookHandler) Create(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	book, err := h.books.AddBook(ctx, req.Title, req.Author)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromBookModel(*book))
}

// List returns every book, optionally filtered by exact title and author.
func (h *BookHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	books, err := h.books.ListBooks(ctx, repository.BookFilter{
		Title:  c.Query("title"),
		Author: c.Query("author"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromBookModels(books))
}

func (h *BookHandler) Get(c *gin.Context) {
	bookID, ok := parseIDParam(c, "book_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	book, err := h.books.GetBookByID(ctx, bookID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromBookModel(*book))
}

func (h *BookHandler) Holder(c *gin.Context) {
	bookID, ok := parseIDParam(c, "book_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	holder, held, err := h.lending.Holder(ctx, bookID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.HolderResponse{BookID: bookID, SignedOut: held}
	if held {
		resp.Holder = &holder
	}
	c.JSON(http.StatusOK, resp)
}

// Toggle signs the book out to the user or returns it, see LendingService.
func (h *BookHandler) Toggle(c *gin.Context) {
	bookID, ok := parseIDParam(c, "book_id")
	if !ok {
		return
	}

	var req dto.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	res, err := h.lending.ToggleSignOut(ctx, bookID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToggleResponse{
		Book:   dto.FromBookModel(*res.Book),
		Action: string(res.Action),
	})
}
