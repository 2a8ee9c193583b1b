package cmd

import (
	"context"
	"fmt"

	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/spf13/cobra"
)

func newMigrateCmd(envFile *string) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			if !seed {
				return nil
			}
			n, err := a.tables.Seed(context.Background(), models.DefaultTables())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d tables\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", true, "add the default floor plan to an empty table registry")
	return cmd
}
