package cmd

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/VitalijsFilipovs/booking-bot/services"
	"github.com/spf13/cobra"
)

func newBookingsCmd(envFile *string) *cobra.Command {
	var as int64

	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Review and manage bookings as a staff member",
	}
	cmd.PersistentFlags().Int64Var(&as, "as", 0, "staff user id to act as (default ADMIN_USER_ID)")

	cmd.AddCommand(newBookingsListCmd(envFile, &as))
	cmd.AddCommand(newBookingsStatusCmd(envFile, &as, "confirm", (*services.BookingService).Confirm))
	cmd.AddCommand(newBookingsStatusCmd(envFile, &as, "cancel", (*services.BookingService).Cancel))
	cmd.AddCommand(newBookingsDeleteCmd(envFile, &as))
	return cmd
}

func (a *app) actor(as int64) (services.Actor, error) {
	if as == 0 {
		as = a.cfg.AdminUserID
	}
	if !a.authz.IsStaff(as) {
		return services.Actor{}, fmt.Errorf("user %d is not staff: pass --as or set ADMIN_USER_ID", as)
	}
	return services.ConsoleActor(as), nil
}

func newBookingsListCmd(envFile *string, as *int64) *cobra.Command {
	var page int
	var status string

	c := &cobra.Command{
		Use:   "list",
		Short: "List one page of bookings, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, ok := services.ParseStatusFilter(status)
			if !ok {
				return fmt.Errorf("unknown status %q", status)
			}
			return withApp(*envFile, func(ctx context.Context, a *app) error {
				actor, err := a.actor(*as)
				if err != nil {
					return err
				}
				bookings, err := a.bookings.ListPage(ctx, actor, page, filter)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tDATE\tTIME\tGUESTS\tTABLE\tNAME\tPHONE\tSTATUS")
				for _, b := range bookings {
					fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
						b.ID, b.Date, b.StartTime, b.PartySize, b.TableTitle(), b.Name, b.Phone, b.Status)
				}
				return w.Flush()
			})
		},
	}

	c.Flags().IntVar(&page, "page", 0, "page number starting at 0")
	c.Flags().StringVar(&status, "status", "all", "all, new, confirmed or cancelled")
	return c
}

type statusFunc func(*services.BookingService, context.Context, uint, services.Actor) (*models.Booking, bool, error)

func newBookingsStatusCmd(envFile *string, as *int64, use string, fn statusFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <booking-id>",
		Short: use + " a booking and notify the guest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUintArg(args[0])
			if err != nil {
				return err
			}
			return withApp(*envFile, func(ctx context.Context, a *app) error {
				actor, err := a.actor(*as)
				if err != nil {
					return err
				}
				booking, changed, err := fn(a.bookings, ctx, id, actor)
				if err != nil {
					return err
				}
				if !changed {
					fmt.Fprintf(cmd.OutOrStdout(), "booking %d is already %s\n", booking.ID, booking.Status)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "booking %d is now %s\n", booking.ID, booking.Status)
				return nil
			})
		},
	}
}

func newBookingsDeleteCmd(envFile *string, as *int64) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <booking-id>",
		Short: "Delete a booking for good",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUintArg(args[0])
			if err != nil {
				return err
			}
			return withApp(*envFile, func(ctx context.Context, a *app) error {
				actor, err := a.actor(*as)
				if err != nil {
					return err
				}
				deleted, err := a.bookings.Delete(ctx, id, actor)
				if err != nil {
					return err
				}
				if !deleted {
					return errors.New("booking not found")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "booking %d deleted\n", id)
				return nil
			})
		},
	}
}
