package dto

import "libraryhub/internal/microservices/http-api/models"

// CreateUserRequest used for POST /api/users
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
}

// DeleteUserRequest carries the id of the user asking for the deletion.
type DeleteUserRequest struct {
	UserID int64 `json:"user_id" binding:"required,min=1"`
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Total int            `json:"total"`
}

func FromUserModel(u models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username}
}

func FromUserModels(users []models.User) UserListResponse {
	items := make([]UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, FromUserModel(u))
	}
	return UserListResponse{Items: items, Total: len(items)}
}
