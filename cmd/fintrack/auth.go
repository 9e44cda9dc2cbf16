package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/fintrack/fintrack/internal/api"
	"github.com/fintrack/fintrack/internal/model"
)

func loginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and save the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			creds := model.Credentials{Email: email}

			fields := []huh.Field{}
			if creds.Email == "" {
				fields = append(fields, huh.NewInput().
					Title("Email").
					Value(&creds.Email).
					Validate(model.ValidateEmail))
			}

			fields = append(fields, huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&creds.Password))

			if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
				return err
			}

			if err := creds.Validate(); err != nil {
				return err
			}

			ctx, cancel := apiCtx(a)
			defer cancel()

			resp, err := a.api.Login(ctx, creds)
			if err != nil {
				return fmt.Errorf("login failed: %s", api.UserMessage(err, "could not reach the server"))
			}

			if err := a.session.Login(resp.Token, &resp.User); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}

			fmt.Printf("Logged in as %s\n", resp.User.Email)

			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted if omitted)")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the saved session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			if !a.session.Authenticated() {
				fmt.Println("Not logged in")
				return nil
			}

			if err := a.session.Logout(); err != nil {
				return fmt.Errorf("clearing session: %w", err)
			}

			fmt.Println("Logged out")

			return nil
		},
	}
}
