// Package api is the single gateway to the remote money-manager API.
// Every request goes through one code path that attaches the bearer
// credential, classifies failures, and enforces the global unauthorized
// policy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fintrack/fintrack/internal/session"
)

// publicEndpoints never carry the Authorization header.
var publicEndpoints = []string{"/login", "/register", "/status", "/activate", "/hello"}

type Client struct {
	baseURL string
	http    *http.Client
	session *session.Manager
}

// New builds a gateway rooted at baseURL. The transport timeout is the
// only automatic abort mechanism; it surfaces as ErrTimeout.
func New(baseURL string, timeout time.Duration, sess *session.Manager) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: sess,
	}
}

func isPublic(path string) bool {
	for _, p := range publicEndpoints {
		if strings.Contains(path, p) {
			return true
		}
	}

	return false
}

// do issues one request and decodes a JSON response into out (when out is
// non-nil). Unauthorized responses invalidate the session before the
// error is returned, regardless of which request triggered them.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}

	return nil
}

// raw issues one request and hands the open response to the caller, who
// owns closing the body. Used for binary downloads.
func (c *Client) raw(ctx context.Context, method, path string) (*http.Response, error) {
	resp, err := c.send(ctx, method, path, nil)
	if err != nil {
		return nil, err
	}

	if err := c.checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp, nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if !isPublic(path) {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
		}

		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	return resp, nil
}

func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		// Global policy: the credential is no longer valid, no matter
		// which request found out first.
		c.session.Invalidate()
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	}

	msg := serverMessage(resp.Body)
	slog.Debug("request failed", "status", resp.StatusCode, "message", msg)

	return &StatusError{Status: resp.StatusCode, Message: msg}
}

func serverMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}

	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}

	return payload.Message
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}
