package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/adminsuite/adminctl/internal/core/ports"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	RunE:  runUsersList,
}

var (
	createEmail    string
	createName     string
	createLastName string
	createPassword string
	createRole     string
)

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account",
	RunE:  runUsersCreate,
}

var (
	updateName     string
	updateLastName string
	updateRole     string
	updateActive   bool
)

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an account (only the given flags change)",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersUpdate,
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersDelete,
}

func init() {
	usersCreateCmd.Flags().StringVar(&createEmail, "email", "", "account email (required)")
	usersCreateCmd.Flags().StringVar(&createName, "name", "", "display name (required)")
	usersCreateCmd.Flags().StringVar(&createLastName, "last-name", "", "last name")
	usersCreateCmd.Flags().StringVar(&createPassword, "password", "", "initial password (required)")
	usersCreateCmd.Flags().StringVar(&createRole, "role", "user", "role: admin, moderator or user")

	usersUpdateCmd.Flags().StringVar(&updateName, "name", "", "display name")
	usersUpdateCmd.Flags().StringVar(&updateLastName, "last-name", "", "last name")
	usersUpdateCmd.Flags().StringVar(&updateRole, "role", "", "role: admin, moderator or user")
	usersUpdateCmd.Flags().BoolVar(&updateActive, "active", true, "whether the account is active")

	usersCmd.AddCommand(usersListCmd, usersCreateCmd, usersUpdateCmd, usersDeleteCmd)
	rootCmd.AddCommand(usersCmd)
}

func runUsersList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if !a.users.FetchUsers(cmd.Context()) {
		return errors.New(a.users.State().Err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tACTIVE\tCREATED")
	for _, u := range a.users.State().Users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n",
			u.ID, u.Email, u.DisplayName(), u.Role, u.IsActive,
			u.CreatedAt.Local().Format(time.DateOnly))
	}
	return w.Flush()
}

func runUsersCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ok := a.users.CreateUser(cmd.Context(), ports.CreateUserInput{
		Email:    createEmail,
		Name:     createName,
		LastName: createLastName,
		Password: createPassword,
		Role:     createRole,
	})
	if !ok {
		return errors.New(a.users.State().Err)
	}

	state := a.users.State()
	created := state.Users[len(state.Users)-1]
	fmt.Printf("%s: %s <%s> (id %s)\n", state.Success, created.DisplayName(), created.Email, created.ID)
	return nil
}

func runUsersUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	// Only flags the caller actually set go on the wire; the backend leaves
	// the rest untouched.
	var input ports.UpdateUserInput
	if cmd.Flags().Changed("name") {
		input.Name = &updateName
	}
	if cmd.Flags().Changed("last-name") {
		input.LastName = &updateLastName
	}
	if cmd.Flags().Changed("role") {
		input.Role = &updateRole
	}
	if cmd.Flags().Changed("active") {
		input.IsActive = &updateActive
	}

	if !a.users.UpdateUser(cmd.Context(), args[0], input) {
		return errors.New(a.users.State().Err)
	}
	fmt.Println(a.users.State().Success)
	return nil
}

func runUsersDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if !a.users.DeleteUser(cmd.Context(), args[0]) {
		return errors.New(a.users.State().Err)
	}
	fmt.Println(a.users.State().Success)
	return nil
}
