package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/VitalijsFilipovs/booking-bot/services"
	"github.com/VitalijsFilipovs/booking-bot/utils"
	"github.com/spf13/cobra"
)

func newTokenCmd(envFile *string) *cobra.Command {
	var userID int64
	var ttl time.Duration

	c := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin API token for a staff member",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			if userID == 0 {
				userID = cfg.AdminUserID
			}
			authz := services.NewAuthorizer(cfg.StaffIDs(), cfg.AdminChatID)
			if !authz.IsStaff(userID) {
				return fmt.Errorf("user %d is not staff", userID)
			}

			issuer, err := utils.NewTokenIssuer(cfg.JWTSecret, ttl)
			if err != nil {
				return err
			}
			token, err := issuer.Generate(userID, "staff")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	c.Flags().Int64Var(&userID, "user", 0, "staff user id (default ADMIN_USER_ID)")
	c.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	return c
}
