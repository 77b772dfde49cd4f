package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/prodline/internal/wire"
)

// USIDCmd returns the usid command
func USIDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usid",
		Short: "Issue unique serial identifiers",
	}

	cmd.AddCommand(usidNextCmd())
	return cmd
}

func usidNextCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "next [part-number]",
		Short: "Issue the next USID for a part",
		Long: `Issue the next USID for a part. One USID identifies one physical
unit; counters are scoped per part per day.

Examples:
  prodline usid next EICS145
  prodline usid next EICS145 --count 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be at least 1")
			}
			ctx := operatorContext()
			for i := 0; i < count; i++ {
				id, err := wire.USIDService().GenerateUSID(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Println(id)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "Number of USIDs to issue")
	return cmd
}
