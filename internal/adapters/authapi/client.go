// Package authapi is the HTTP adapter for the external auth backend. Every
// call is a POST whose "action" field selects login, registration or a
// password reset.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/olprod/backend/internal/core/domain"
	"github.com/olprod/backend/internal/core/ports"
)

type Client struct {
	httpClient *http.Client
	endpoint   string
}

func NewClient(httpClient *http.Client, endpoint string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, endpoint: strings.TrimRight(endpoint, "/")}
}

type request struct {
	Action      string `json:"action"`
	Email       string `json:"email"`
	Password    string `json:"password,omitempty"`
	NewPassword string `json:"newPassword,omitempty"`
	ArtistName  string `json:"artistName,omitempty"`
}

type wireUser struct {
	ID         json.RawMessage `json:"id"`
	Email      string          `json:"email"`
	ArtistName string          `json:"artistName"`
}

// id accepts numeric and string identifiers.
func (u wireUser) id() string {
	raw := strings.TrimSpace(string(u.ID))
	if raw == "null" {
		return ""
	}
	return strings.Trim(raw, `"`)
}

type response struct {
	Success bool      `json:"success"`
	User    *wireUser `json:"user,omitempty"`
	Message string    `json:"message,omitempty"`
	Error   string    `json:"error,omitempty"`
}

func (c *Client) Login(ctx context.Context, email, password string) (domain.User, error) {
	return c.user(ctx, request{Action: "login", Email: email, Password: password})
}

func (c *Client) Register(ctx context.Context, email, password, artistName string) (domain.User, error) {
	return c.user(ctx, request{Action: "register", Email: email, Password: password, ArtistName: artistName})
}

func (c *Client) ResetPassword(ctx context.Context, email, newPassword string) error {
	_, err := c.post(ctx, request{Action: "reset_password", Email: email, NewPassword: newPassword})
	return err
}

func (c *Client) user(ctx context.Context, req request) (domain.User, error) {
	resp, err := c.post(ctx, req)
	if err != nil {
		return domain.User{}, err
	}
	if resp.User == nil || resp.User.id() == "" {
		return domain.User{}, &ports.RemoteError{Op: req.Action, Err: errors.New("response has no user")}
	}
	return domain.User{
		ID:         resp.User.id(),
		Email:      resp.User.Email,
		ArtistName: resp.User.ArtistName,
	}, nil
}

// post returns *ports.RejectedError for a 4xx answer, which is how the
// backend refuses credentials, and *ports.RemoteError for anything else that
// went wrong.
func (c *Client) post(ctx context.Context, body request) (response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return response{}, fmt.Errorf("authapi: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return response{}, fmt.Errorf("authapi: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, &ports.RemoteError{Op: body.Action, Err: err}
	}
	defer resp.Body.Close()

	var out response
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out)

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return response{}, &ports.RejectedError{Message: out.Error}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return response{}, &ports.RemoteError{Op: body.Action, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	case decodeErr != nil:
		return response{}, &ports.RemoteError{Op: body.Action, Err: fmt.Errorf("decode response: %w", decodeErr)}
	case out.Error != "" && !out.Success:
		return response{}, &ports.RejectedError{Message: out.Error}
	}
	return out, nil
}
