// Package cmd holds the booking-bot command line: the webhook server and
// the admin commands that work on the database directly.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "booking-bot",
		Short:         "Telegram table reservation bot with an admin API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "read settings from this file before the environment")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newServeCmd(&envFile))
	root.AddCommand(newMigrateCmd(&envFile))
	root.AddCommand(newTablesCmd(&envFile))
	root.AddCommand(newBookingsCmd(&envFile))
	root.AddCommand(newTokenCmd(&envFile))

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
