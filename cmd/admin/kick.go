package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newKickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kick <principal-id>",
		Short: "Drop every open connection of a principal without banning it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := moderate.PublishKick(args[0]); err != nil {
				return fmt.Errorf("failed to kick %s: %w", args[0], err)
			}
			cmd.Printf("Kick for %s published.\n", args[0])
			return nil
		},
	}
}
