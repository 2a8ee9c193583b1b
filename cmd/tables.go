package cmd

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/spf13/cobra"
)

func newTablesCmd(envFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Manage the table registry",
	}
	cmd.AddCommand(newTablesListCmd(envFile))
	cmd.AddCommand(newTablesAddCmd(envFile))
	cmd.AddCommand(newTablesActiveCmd(envFile, "activate", true))
	cmd.AddCommand(newTablesActiveCmd(envFile, "deactivate", false))
	cmd.AddCommand(newTablesSeedCmd(envFile))
	return cmd
}

// withApp loads the settings, opens the database and runs fn.
func withApp(envFile string, fn func(ctx context.Context, a *app) error) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(context.Background(), a)
}

func newTablesListCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*envFile, func(ctx context.Context, a *app) error {
				tables, err := a.tables.List(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tTITLE\tSEATS\tACTIVE")
				for _, t := range tables {
					fmt.Fprintf(w, "%d\t%s\t%d\t%t\n", t.ID, t.Title, t.Seats, t.Active)
				}
				return w.Flush()
			})
		},
	}
}

func newTablesAddCmd(envFile *string) *cobra.Command {
	var title string
	var seats int

	c := &cobra.Command{
		Use:   "add",
		Short: "Add a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*envFile, func(ctx context.Context, a *app) error {
				table, err := a.tables.Add(ctx, title, seats)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added table %d %q (%d seats)\n", table.ID, table.Title, table.Seats)
				return nil
			})
		},
	}

	c.Flags().StringVar(&title, "title", "", "table title shown to guests")
	c.Flags().IntVar(&seats, "seats", 0, "number of seats")
	_ = c.MarkFlagRequired("title")
	_ = c.MarkFlagRequired("seats")
	return c
}

func newTablesActiveCmd(envFile *string, use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <table-id>",
		Short: fmt.Sprintf("Mark a table as active=%t", active),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUintArg(args[0])
			if err != nil {
				return err
			}
			return withApp(*envFile, func(ctx context.Context, a *app) error {
				table, err := a.tables.SetActive(ctx, id, active)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "table %d %q active=%t\n", table.ID, table.Title, table.Active)
				return nil
			})
		},
	}
}

func newTablesSeedCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add the default floor plan when no tables exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*envFile, func(ctx context.Context, a *app) error {
				n, err := a.tables.Seed(ctx, models.DefaultTables())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d tables\n", n)
				return nil
			})
		},
	}
}

func parseUintArg(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}
