package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password <email>",
	Short: "Request a password recovery link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if !a.sessions.ForgotPassword(cmd.Context(), args[0]) {
			return errors.New(a.sessions.State().Err.Message)
		}
		fmt.Println(a.sessions.State().Success)
		return nil
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <token> <new-password>",
	Short: "Set a new password using a recovery token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if !a.sessions.ResetPassword(cmd.Context(), args[0], args[1]) {
			return errors.New(a.sessions.State().Err.Message)
		}
		fmt.Println(a.sessions.State().Success)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(forgotPasswordCmd, resetPasswordCmd)
}
