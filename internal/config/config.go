package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	API struct {
		BaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:8080/api/v1"`
		Timeout time.Duration `envconfig:"API_TIMEOUT" default:"10s"`
	}

	Upload struct {
		// Unsigned image-upload endpoint (Cloudinary-style). Leave empty to
		// disable icon/profile image uploads.
		URL    string `envconfig:"UPLOAD_URL"`
		Preset string `envconfig:"UPLOAD_PRESET" default:"money-manager"`
	}

	// DataDir holds the persisted session file. Defaults to
	// $XDG_DATA_HOME/fintrack (or ~/.local/share/fintrack).
	DataDir string `envconfig:"DATA_DIR"`

	// DownloadDir receives spreadsheet report downloads.
	DownloadDir string `envconfig:"DOWNLOAD_DIR" default:"."`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("FINTRACK", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, err
		}

		cfg.DataDir = dir
	}

	return &cfg, nil
}

func defaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}

		dataDir = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataDir, "fintrack"), nil
}
