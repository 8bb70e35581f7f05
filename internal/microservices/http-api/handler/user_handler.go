package handler

import (
	"context"
	"net/http"
	"time"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	accounts service.AccountService
	lending  service.LendingService
	timeout  time.Duration
}

func NewUserHandler(accounts service.AccountService, lending service.LendingService, timeout time.Duration) *UserHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &UserHandler{accounts: accounts, lending: lending, timeout: timeout}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:user_id", h.Get)
	rg.GET("/:user_id/books", h.Books)
	rg.DELETE("/:user_id", h.Delete)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	user, err := h.accounts.CreateUser(ctx, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromUserModel(*user))
}

func (h *UserHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	users, err := h.accounts.ListUsers(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromUserModels(users))
}

func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	user, err := h.accounts.GetUserByID(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromUserModel(*user))
}

// Books lists the books the user currently holds.
func (h *UserHandler) Books(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	books, err := h.lending.QueryHolderOf(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromBookModels(books))
}

// Delete removes the account named in the path on behalf of the requester
// in the body.
func (h *UserHandler) Delete(c *gin.Context) {
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	var req dto.DeleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	user, err := h.accounts.DeleteUser(ctx, req.UserID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromUserModel(*user))
}
