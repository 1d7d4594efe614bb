package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated account",
	Long:  "Fetch the caller's own record from the backend and show it alongside the local session's token expiry.",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if !a.users.FetchMe(cmd.Context()) {
		return errors.New(a.users.State().Err)
	}

	me := a.users.State().CurrentUser
	fmt.Printf("%s <%s>\n", me.DisplayName(), me.Email)
	fmt.Printf("  id:     %s\n", me.ID)
	fmt.Printf("  role:   %s\n", me.Role)
	fmt.Printf("  active: %t\n", me.IsActive)
	if me.LastLoginAt != nil {
		fmt.Printf("  last login: %s\n", me.LastLoginAt.Local().Format(time.RFC1123))
	}

	if session := a.sessions.State(); session.User != nil {
		if exp, ok := tokenExpiry(a); ok {
			fmt.Printf("  session expires: %s\n", exp.Local().Format(time.RFC1123))
		}
	}
	return nil
}

// tokenExpiry decodes the persisted access token's exp claim. The signature
// is not verified; only the backend can do that, this is display only.
func tokenExpiry(a *app) (time.Time, bool) {
	sess := a.sessions.PersistedSession()
	if sess == nil || sess.AccessToken == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(sess.AccessToken, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
