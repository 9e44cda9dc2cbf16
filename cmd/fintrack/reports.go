package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fintrack/fintrack/internal/api"
	"github.com/fintrack/fintrack/internal/model"
)

func parseReportKind(arg string) (model.Type, error) {
	switch arg {
	case string(model.TypeIncome):
		return model.TypeIncome, nil
	case string(model.TypeExpense):
		return model.TypeExpense, nil
	default:
		return "", fmt.Errorf("unknown report kind %q (want income or expense)", arg)
	}
}

func exportCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "export <income|expense>",
		Short: "Download a spreadsheet report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseReportKind(args[0])
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}

			if outputDir == "" {
				outputDir = a.cfg.DownloadDir
			}

			ctx, cancel := apiCtx(a)
			defer cancel()

			path, err := a.reports.Download(ctx, kind, outputDir)
			if err != nil {
				return fmt.Errorf("export failed: %s", api.UserMessage(err, "could not download the report"))
			}

			fmt.Printf("Saved %s\n", path)

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory to save the report in")

	return cmd
}

func emailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "email <income|expense>",
		Short: "Email a spreadsheet report to the account address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseReportKind(args[0])
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}

			ctx, cancel := apiCtx(a)
			defer cancel()

			if err := a.reports.Email(ctx, kind); err != nil {
				return fmt.Errorf("email failed: %s", api.UserMessage(err, "could not send the report"))
			}

			fmt.Printf("Emailed the %s report\n", args[0])

			return nil
		},
	}
}
