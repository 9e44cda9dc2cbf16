package report

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fintrack/fintrack/internal/model"
)

//go:generate mockgen -source=service.go -destination=api_mock.go -package=report

// API is the slice of the gateway the report service needs.
type API interface {
	ExcelReport(ctx context.Context, kind model.Type) (*http.Response, error)
	EmailReport(ctx context.Context, kind model.Type) error
}

// Service materializes server-generated spreadsheet reports on disk and
// triggers the server-side report emails.
type Service struct {
	api API
}

func NewService(api API) *Service {
	return &Service{api: api}
}

// Download fetches the Excel export for one transaction type into
// outputDir and returns the written path. The server's filename (from
// Content-Disposition) wins; otherwise the file is named
// "<kind>_details.xlsx" as the web client does.
func (s *Service) Download(ctx context.Context, kind model.Type, outputDir string) (string, error) {
	resp, err := s.api.ExcelReport(ctx, kind)
	if err != nil {
		return "", fmt.Errorf("fetching %s report: %w", kind, err)
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(outputDir, determineFilename(resp, kind))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return path, nil
}

// Email asks the server to mail the report. Nothing to show the caller
// beyond success or failure.
func (s *Service) Email(ctx context.Context, kind model.Type) error {
	if err := s.api.EmailReport(ctx, kind); err != nil {
		return fmt.Errorf("emailing %s report: %w", kind, err)
	}

	return nil
}

func determineFilename(resp *http.Response, kind model.Type) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if filename, ok := params["filename"]; ok && filename != "" {
				// Basic sanitization of the filename from the server.
				return strings.ReplaceAll(filepath.Base(filename), " ", "_")
			}
		}
	}

	return fmt.Sprintf("%s_details.xlsx", kind)
}
