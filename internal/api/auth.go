package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/odo-hq/expensys/internal/api/dto"
	"github.com/odo-hq/expensys/internal/domain"
)

// Token exchanges a username and password for a bearer token via the OAuth2
// password flow.
func (c *Client) Token(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var resp dto.TokenResponse
	if err := c.doForm(ctx, "auth.token", "/auth/token", form, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// Signup registers a new company together with its first admin user.
func (c *Client) Signup(ctx context.Context, req dto.SignupRequest) (*domain.User, error) {
	var resp dto.UserResponse
	if err := c.doJSON(ctx, "auth.signup", http.MethodPost, "/auth/signup", req, &resp, false); err != nil {
		return nil, err
	}
	user := resp.ToDomain()
	return &user, nil
}
