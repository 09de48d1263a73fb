package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/garrison/internal/config"
	"github.com/example/garrison/internal/wire"
)

// StatusCmd returns the status command, a shortcut for showing the
// default garrison.
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the default garrison with resources brought up to date",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id, _ := cmd.Flags().GetString("garrison"); id != "" {
				return wire.GarrisonAdapter().Show(cmd.Context(), id)
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("no config found\nHint: run 'garrison init' first")
			}
			if cfg.GarrisonID != "" {
				return wire.GarrisonAdapter().Show(cmd.Context(), cfg.GarrisonID)
			}
			if cfg.CharacterID != "" {
				return wire.GarrisonAdapter().ShowByCharacter(cmd.Context(), cfg.CharacterID)
			}
			return fmt.Errorf("no garrison selected\nHint: run 'garrison use <id>'")
		},
	}
	cmd.Flags().String("garrison", "", "Garrison ID")
	return cmd
}
