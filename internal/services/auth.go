package services

import (
	"context"
	"errors"
	"net/http"

	"honnylove_storefront/internal/models"
)

// RefreshToken échange le refresh token contre un nouveau jeton d'accès.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	err := c.do(ctx, request{
		Method: http.MethodPost,
		Path:   "/auth/refresh",
		Body:   map[string]string{"refreshToken": refreshToken},
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", errors.New("réponse de rafraîchissement sans accessToken")
	}
	return resp.AccessToken, nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Login : POST /auth/login
func (c *Client) Login(ctx context.Context, req LoginRequest) (*models.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/login", req)
}

// Register : POST /auth/register
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/register", req)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, request{Method: http.MethodPost, Path: path, Body: body}, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		return nil, errors.New("réponse d'authentification incomplète")
	}
	return &resp, nil
}
