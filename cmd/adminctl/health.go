package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend health",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		health := a.health.CheckHealth(cmd.Context())
		_, checkedAt := a.health.Last()

		fmt.Printf("status:      %s\n", health.Status)
		fmt.Printf("environment: %s\n", health.Environment)
		fmt.Printf("database:    %s", health.Database)
		if health.DBProvider != "" {
			fmt.Printf(" (%s)", health.DBProvider)
		}
		fmt.Println()
		if health.Error != "" {
			fmt.Printf("error:       %s\n", health.Error)
		}
		fmt.Printf("checked at:  %s\n", checkedAt.Format(time.RFC1123))

		if !a.health.IsHealthy() {
			return fmt.Errorf("backend unhealthy")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
