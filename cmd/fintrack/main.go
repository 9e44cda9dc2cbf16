package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fintrack/fintrack/internal/api"
	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/report"
	"github.com/fintrack/fintrack/internal/session"
	"github.com/fintrack/fintrack/internal/upload"
)

const uploadTimeout = 30 * time.Second

var rootCmd = &cobra.Command{
	Use:   "fintrack",
	Short: "Terminal client for the money-manager API",
	Long: `fintrack is a terminal client for a personal-finance tracking API:
record income and expenses, organize categories, browse dashboards and
filtered history, and pull spreadsheet reports.

Run without arguments to open the interactive interface.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		return runTUI(a)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(emailCmd())
}

// app bundles everything a command needs: config, the session, the
// gateway and the services built on top of it.
type app struct {
	cfg     *config.Config
	session *session.Manager
	api     *api.Client
	reports *report.Service
	uploads *upload.Service
}

func newApp() (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	sess, err := session.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	client := api.New(cfg.API.BaseURL, cfg.API.Timeout, sess)

	return &app{
		cfg:     cfg,
		session: sess,
		api:     client,
		reports: report.NewService(client),
		uploads: upload.NewService(cfg.Upload.URL, cfg.Upload.Preset, uploadTimeout),
	}, nil
}

// apiCtx returns a context bounded by the configured gateway timeout,
// for one-shot commands outside the TUI.
func apiCtx(a *app) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.cfg.API.Timeout)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
