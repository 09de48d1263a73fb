package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/garrison/internal/db"
)

// DevCmd returns the dev command group for development utilities.
func DevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Development utilities",
	}

	cmd.AddCommand(devSeedCmd())
	return cmd
}

func devSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with development fixtures",
		Long:  "Insert a sample user, characters, and a garrison with buildings and units in progress.",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			if err := db.SeedFixtures(database); err != nil {
				return fmt.Errorf("failed to seed fixtures: %w", err)
			}

			fmt.Println("✓ Seeded development fixtures")
			fmt.Println("  Characters: CHAR-001 (Thrall), CHAR-002 (Jaina), CHAR-003 (Rexxar)")
			fmt.Println("  Garrison:   GAR-001 (Stonewatch) owned by CHAR-001")
			return nil
		},
	}
}
