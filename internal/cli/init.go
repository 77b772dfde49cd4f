package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/prodline/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the prodline database",
		Long:  `Initialize the prodline database at ~/.prodline/prodline.db with the required schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing prodline database at %s\n", dbPath)

			// Initialize schema
			if err := db.InitSchema(); err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}

			fmt.Println("✓ Database initialized successfully")

			if seed {
				database, err := db.GetDB()
				if err != nil {
					return fmt.Errorf("failed to open database: %w", err)
				}
				if err := db.SeedFixtures(database); err != nil {
					return fmt.Errorf("failed to seed fixtures: %w", err)
				}
				fmt.Println("✓ Sample part EICS145 configured")
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  prodline part apply -f procedure.yaml")
			fmt.Println("  prodline status")

			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "Configure a sample part after initializing")
	return cmd
}
