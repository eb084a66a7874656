// Package releasesapi is the HTTP adapter for the external releases backend.
// The backend serves one endpoint; the HTTP method selects the operation.
package releasesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
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
	return &Client{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(endpoint, "/"),
	}
}

// List fetches the user's releases.
func (c *Client) List(ctx context.Context, userID string) ([]domain.ReleaseSnapshot, error) {
	u := c.endpoint + "?userId=" + url.QueryEscape(userID)
	var out listResponse
	if err := c.do(ctx, "list", http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	snaps := make([]domain.ReleaseSnapshot, 0, len(out.Releases))
	for _, w := range out.Releases {
		snaps = append(snaps, w.snapshot())
	}
	return snaps, nil
}

// Create registers a release and returns its remote ID.
func (c *Client) Create(ctx context.Context, userID string, r domain.Release) (string, error) {
	var out createResponse
	if err := c.do(ctx, "create", http.MethodPost, c.endpoint, newCreateRequest(userID, r), &out); err != nil {
		return "", err
	}
	if !out.Success || out.Release == nil || out.Release.ID == "" {
		return "", &ports.RemoteError{Op: "create", Err: rejection(out.Error)}
	}
	return string(out.Release.ID), nil
}

// Update sends the release's current metadata without touching its status.
func (c *Client) Update(ctx context.Context, userID string, r domain.Release) error {
	return c.ack(ctx, "update", http.MethodPut, newUpdateRequest(userID, r))
}

func (c *Client) SetStatus(ctx context.Context, userID, remoteID string, status domain.Status) error {
	return c.ack(ctx, "update", http.MethodPut, updateRequest{
		ReleaseID: remoteID,
		UserID:    userID,
		Status:    statusLabel(status),
	})
}

// Restore undoes a soft delete, putting back the status the release had.
func (c *Client) Restore(ctx context.Context, userID, remoteID string, status domain.Status) error {
	return c.ack(ctx, "restore", http.MethodPut, updateRequest{
		ReleaseID: remoteID,
		UserID:    userID,
		Status:    statusLabel(status),
		Restore:   true,
	})
}

func (c *Client) Delete(ctx context.Context, userID, remoteID string, permanent bool) error {
	return c.ack(ctx, "delete", http.MethodDelete, deleteRequest{
		ReleaseID: remoteID,
		UserID:    userID,
		Permanent: permanent,
	})
}

func (c *Client) ack(ctx context.Context, op, method string, body any) error {
	var out ackResponse
	if err := c.do(ctx, op, method, c.endpoint, body, &out); err != nil {
		return err
	}
	if !out.Success {
		return &ports.RemoteError{Op: op, Err: rejection(out.Error)}
	}
	return nil
}

// do sends one request. Any transport failure, non-2xx status or undecodable
// body is reported as a *ports.RemoteError.
func (c *Client) do(ctx context.Context, op, method, u string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("releasesapi: marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("releasesapi: build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ports.RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
		if e.Error != "" {
			return &ports.RemoteError{Op: op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, e.Error)}
		}
		return &ports.RemoteError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ports.RemoteError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func rejection(msg string) error {
	if msg == "" {
		return errors.New("request not accepted")
	}
	return errors.New(msg)
}
