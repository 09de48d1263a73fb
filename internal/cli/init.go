package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/garrison/internal/config"
	"github.com/example/garrison/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the garrison database",
		Long:  `Initialize the garrison database at ~/.garrison/garrison.db with the required schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing garrison database at %s\n", dbPath)

			if err := db.InitSchema(); err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}

			fmt.Println("✓ Database initialized successfully")

			if err := initConfig(); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}

			fmt.Println("✓ Config file created at ~/.garrison/config.json")
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  garrison dev seed")
			fmt.Println("  garrison create \"Stonewatch\" --character CHAR-001 --zone greenhollow")

			return nil
		},
	}
}

// initConfig writes an empty config unless one already exists.
func initConfig() error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(dir, "config.json")); err == nil {
		return nil
	}
	return config.SaveConfig(&config.Config{Version: "1.0"})
}
