package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	loginEmail      string
	loginPassword   string
	loginGoogleCode string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the backend",
	Long:  "Authenticate with email/password credentials, or exchange a Google OAuth authorization code with --google-code. The session is persisted so later commands reuse it.",
	RunE:  runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (or ADMINCTL_PASSWORD)")
	loginCmd.Flags().StringVar(&loginGoogleCode, "google-code", "", "Google OAuth authorization code")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	var ok bool
	switch {
	case loginGoogleCode != "":
		ok = a.sessions.LoginWithGoogle(cmd.Context(), loginGoogleCode)
	default:
		password := loginPassword
		if password == "" {
			password = os.Getenv("ADMINCTL_PASSWORD")
		}
		if loginEmail == "" || password == "" {
			return errors.New("either --google-code or both --email and --password are required")
		}
		ok = a.sessions.Login(cmd.Context(), loginEmail, password)
	}

	state := a.sessions.State()
	if !ok {
		return errors.New(state.Err.Message)
	}

	fmt.Printf("%s — signed in as %s <%s>\n", state.Success, state.User.DisplayName(), state.User.Email)
	return nil
}
