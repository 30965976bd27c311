package api

import (
	"context"
	"net/http"

	"github.com/odo-hq/expensys/internal/api/dto"
	"github.com/odo-hq/expensys/internal/domain"
)

// ListUsers returns every member of the current actor's company. Admin only;
// the backend enforces the restriction.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var resp []dto.UserResponse
	if err := c.doJSON(ctx, "users.list", http.MethodGet, "/users", nil, &resp, true); err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(resp))
	for _, item := range resp {
		users = append(users, item.ToDomain())
	}
	return users, nil
}

// CreateUser provisions a new member. Admin only.
func (c *Client) CreateUser(ctx context.Context, req dto.UserCreateRequest) (*domain.User, error) {
	var resp dto.UserResponse
	if err := c.doJSON(ctx, "users.create", http.MethodPost, "/users", req, &resp, true); err != nil {
		return nil, err
	}
	user := resp.ToDomain()
	return &user, nil
}

// UpdateUser applies a partial update to a member. Admin only.
func (c *Client) UpdateUser(ctx context.Context, userID string, req dto.UserUpdateRequest) (*domain.User, error) {
	var resp dto.UserResponse
	if err := c.doJSON(ctx, "users.update", http.MethodPut, "/users/"+userID, req, &resp, true); err != nil {
		return nil, err
	}
	user := resp.ToDomain()
	return &user, nil
}
