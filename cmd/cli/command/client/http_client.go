package client

// http_client.go = talks to the libraryhub HTTP API for the CLI.

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"

	"libraryhub/internal/microservices/http-api/dto"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// constructor for HTTP client
func NewHTTPClient(apiURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: apiURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// do sends body as JSON and decodes a response with status want into out.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Book methods
func (c *HTTPClient) AddBook(ctx context.Context, title, author string) (*dto.BookResponse, error) {
	var result dto.BookResponse
	err := c.do(ctx, http.MethodPost, "/api/books", dto.CreateBookRequest{Title: title, Author: author}, http.StatusCreated, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListBooks(ctx context.Context, title, author string) (*dto.BookListResponse, error) {
	query := url.Values{}
	if title != "" {
		query.Set("title", title)
	}
	if author != "" {
		query.Set("author", author)
	}
	path := "/api/books"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var result dto.BookListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetBook(ctx context.Context, id int64) (*dto.BookResponse, error) {
	var result dto.BookResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/books/%d", id), nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) BookHolder(ctx context.Context, id int64) (*dto.HolderResponse, error) {
	var result dto.HolderResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/books/%d/holder", id), nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ToggleBook(ctx context.Context, bookID, userID int64) (*dto.ToggleResponse, error) {
	var result dto.ToggleResponse
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/books/%d", bookID), dto.ToggleRequest{UserID: userID}, http.StatusOK, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// User methods
func (c *HTTPClient) CreateUser(ctx context.Context, username string) (*dto.UserResponse, error) {
	var result dto.UserResponse
	err := c.do(ctx, http.MethodPost, "/api/users", dto.CreateUserRequest{Username: username}, http.StatusCreated, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context) (*dto.UserListResponse, error) {
	var result dto.UserListResponse
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, id int64) (*dto.UserResponse, error) {
	var result dto.UserResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) UserBooks(ctx context.Context, id int64) (*dto.BookListResponse, error) {
	var result dto.BookListResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d/books", id), nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteUser deletes targetID acting as requesterID.
func (c *HTTPClient) DeleteUser(ctx context.Context, requesterID, targetID int64) (*dto.UserResponse, error) {
	var result dto.UserResponse
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d", targetID), dto.DeleteUserRequest{UserID: requesterID}, http.StatusOK, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
