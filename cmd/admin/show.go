package main

import (
	"fmt"

	"battlegogo/backend/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <principal-id>",
		Short: "Print a principal's directory record and ban status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
			if err != nil {
				return fmt.Errorf("failed to connect postgres: %w", err)
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			return showPrincipal(storage.NewStorageService(db, rdb, zap.NewNop()), args[0], cmd)
		},
	}
}

func showPrincipal(s storage.Storage, principalID string, cmd *cobra.Command) error {
	user, err := s.GetUserByID(principalID)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", principalID, err)
	}
	banned, err := s.IsUserBanned(principalID)
	if err != nil {
		return fmt.Errorf("failed to read ban status of %s: %w", principalID, err)
	}

	cmd.Printf("ID:        %s\n", user.ID)
	cmd.Printf("Name:      %s\n", user.DisplayName)
	cmd.Printf("Tags:      %v\n", []string(user.Tags))
	cmd.Printf("Online:    %t\n", user.IsOnline)
	if !user.LastSeenAt.IsZero() {
		cmd.Printf("Last seen: %s\n", user.LastSeenAt.Format("2006-01-02 15:04:05 MST"))
	}
	cmd.Printf("Banned:    %t\n", banned)
	return nil
}
