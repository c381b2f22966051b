package main

import (
	"fmt"
	"time"

	"battlegogo/backend/internal/storage"

	"github.com/spf13/cobra"
)

func newBanCmd() *cobra.Command {
	var hours int
	cmd := &cobra.Command{
		Use:   "ban <principal-id>",
		Short: "Ban a principal and drop its open connections",
		Long: `Ban a principal. New websocket connections are refused while the ban
lasts and connections already open on any instance are kicked.
Without --hours the ban lasts until unban.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if hours < 0 {
				return fmt.Errorf("hours must not be negative, got %d", hours)
			}
			return banPrincipal(moderate, args[0], time.Duration(hours)*time.Hour, cmd)
		},
	}
	cmd.Flags().IntVar(&hours, "hours", 0, "ban duration in hours, 0 for indefinite")
	return cmd
}

func newUnbanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unban <principal-id>",
		Short: "Lift a ban",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := moderate.UnbanUser(args[0]); err != nil {
				return fmt.Errorf("failed to unban %s: %w", args[0], err)
			}
			cmd.Printf("Principal %s has been unbanned.\n", args[0])
			return nil
		},
	}
}

func banPrincipal(s storage.Storage, principalID string, d time.Duration, cmd *cobra.Command) error {
	if err := s.BanUser(principalID, d); err != nil {
		return fmt.Errorf("failed to ban %s: %w", principalID, err)
	}
	if err := s.PublishKick(principalID); err != nil {
		return fmt.Errorf("banned %s but failed to kick: %w", principalID, err)
	}
	if d > 0 {
		cmd.Printf("Principal %s has been banned for %s.\n", principalID, d)
	} else {
		cmd.Printf("Principal %s has been banned.\n", principalID)
	}
	return nil
}
