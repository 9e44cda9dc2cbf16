// Package upload posts images to the third-party hosting endpoint used
// for profile pictures and category icons. It deliberately bypasses the
// API gateway: the upload endpoint is unauthenticated (unsigned preset)
// and must never see the bearer credential.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

type Service struct {
	url    string
	preset string
	client *http.Client
}

func NewService(url, preset string, timeout time.Duration) *Service {
	return &Service{
		url:    url,
		preset: preset,
		client: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether an upload endpoint is configured.
func (s *Service) Enabled() bool {
	return s.url != ""
}

// Image uploads the file at path and returns its hosted URL, which the
// caller stores as the icon or profileImageUrl field.
func (s *Service) Image(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("building upload form: %w", err)
	}

	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}

	if err := w.WriteField("upload_preset", s.preset); err != nil {
		return "", fmt.Errorf("building upload form: %w", err)
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("building upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, &buf)
	if err != nil {
		return "", fmt.Errorf("creating upload request: %w", err)
	}

	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		SecureURL string `json:"secure_url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding upload response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if result.Error.Message != "" {
			return "", fmt.Errorf("upload failed: %s", result.Error.Message)
		}

		return "", fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}

	return result.SecureURL, nil
}
