package library

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	body := map[string]string{
		"email":    strings.TrimSpace(email),
		"password": password,
	}
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login", nil, body, &resp); err != nil {
		return LoginResponse{}, err
	}
	if strings.TrimSpace(resp.Token) == "" {
		return LoginResponse{}, fmt.Errorf("login response carried no token")
	}
	return resp, nil
}

// Register creates an account. The response token, when present, signs the
// new user in directly.
func (c *Client) Register(ctx context.Context, reg Registration) (LoginResponse, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	body := map[string]Registration{"user": reg}
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/users", nil, body, &resp); err != nil {
		return LoginResponse{}, err
	}
	return resp, nil
}

// Logout asks the service to invalidate the current token.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/logout", nil, nil, nil)
}
