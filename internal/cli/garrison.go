package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/garrison/internal/config"
	"github.com/example/garrison/internal/wire"
)

// CreateCmd returns the create command
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Found a new garrison",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			character, _ := cmd.Flags().GetString("character")
			zone, _ := cmd.Flags().GetString("zone")

			if character == "" {
				character = defaultCharacter()
				if character == "" {
					return fmt.Errorf("no character selected\nHint: use --character or run 'garrison use --character <id>'")
				}
			}
			if zone == "" {
				return fmt.Errorf("a zone is required\nHint: 'garrison catalog zones' lists the available zones")
			}

			return wire.GarrisonAdapter().Create(cmd.Context(), character, args[0], zone)
		},
	}
	cmd.Flags().String("character", "", "Character founding the garrison")
	cmd.Flags().String("zone", "", "Zone to settle in")
	return cmd
}

// ShowCmd returns the show command
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show garrison status with resources brought up to date",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id, _ := cmd.Flags().GetString("garrison"); id != "" {
				return wire.GarrisonAdapter().Show(cmd.Context(), id)
			}
			if character, _ := cmd.Flags().GetString("character"); character != "" {
				return wire.GarrisonAdapter().ShowByCharacter(cmd.Context(), character)
			}

			cfg, err := config.LoadConfig()
			if err == nil && cfg.GarrisonID != "" {
				return wire.GarrisonAdapter().Show(cmd.Context(), cfg.GarrisonID)
			}
			if err == nil && cfg.CharacterID != "" {
				return wire.GarrisonAdapter().ShowByCharacter(cmd.Context(), cfg.CharacterID)
			}
			return fmt.Errorf("no garrison selected\nHint: use --garrison or run 'garrison use <id>'")
		},
	}
	cmd.Flags().String("garrison", "", "Garrison ID")
	cmd.Flags().String("character", "", "Character ID")
	return cmd
}

// UseCmd returns the use command
func UseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use [garrison-id]",
		Short: "Set the default garrison and character for commands",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				cfg = &config.Config{Version: "1.0"}
			}
			if len(args) == 1 {
				cfg.GarrisonID = args[0]
			}
			if character, _ := cmd.Flags().GetString("character"); character != "" {
				cfg.CharacterID = character
			}
			if err := config.SaveConfig(cfg); err != nil {
				return err
			}

			fmt.Printf("✓ Defaults saved (garrison: %s, character: %s)\n", cfg.GarrisonID, cfg.CharacterID)
			return nil
		},
	}
	cmd.Flags().String("character", "", "Default character ID")
	return cmd
}

// resolveGarrison returns the garrison from the --garrison flag or the
// configured default.
func resolveGarrison(cmd *cobra.Command) (string, error) {
	if id, _ := cmd.Flags().GetString("garrison"); id != "" {
		return id, nil
	}
	cfg, err := config.LoadConfig()
	if err == nil && cfg.GarrisonID != "" {
		return cfg.GarrisonID, nil
	}
	return "", fmt.Errorf("no garrison selected\nHint: use --garrison or run 'garrison use <id>'")
}

func defaultCharacter() string {
	cfg, err := config.LoadConfig()
	if err != nil {
		return ""
	}
	return cfg.CharacterID
}
