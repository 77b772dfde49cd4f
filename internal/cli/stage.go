package cli

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/prodline/internal/ports/primary"
	"github.com/example/prodline/internal/wire"
)

// StageCmd returns the stage command
func StageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Drive records through the production stages",
		Long:  "Check stage gates, mark stages done and forward quantities between stages",
	}

	cmd.AddCommand(stageCheckCmd())
	cmd.AddCommand(stageDoneCmd())
	cmd.AddCommand(stageForwardCmd())
	return cmd
}

func stageCheckCmd() *cobra.Command {
	var completion bool

	cmd := &cobra.Command{
		Use:   "check [part-number] [record-id] [stage]",
		Short: "Check whether a record may enter a stage",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[1])
			}

			err = wire.PipelineService().CanEnter(operatorContext(), primary.StageRequest{
				PartNumber: args[0],
				Which:      whichFromFlag(completion),
				RecordID:   id,
				Stage:      args[2],
			})
			if err != nil {
				fmt.Printf("%s %v\n", color.New(color.FgRed).Sprint("✗"), err)
				return nil
			}

			fmt.Printf("%s Record %d may enter %s\n", color.New(color.FgGreen).Sprint("✓"), id, args[2])
			return nil
		},
	}

	cmd.Flags().BoolVar(&completion, "completion", false, "Check against the completion schema instead of in-process")
	return cmd
}

func stageDoneCmd() *cobra.Command {
	var completion bool

	cmd := &cobra.Command{
		Use:   "done [part-number] [record-id] [stage]",
		Short: "Mark a stage done on a record",
		Long: `Mark a stage done on a record. Entry is gated: every enabled earlier
stage must already be done. The acting operator is stamped alongside.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[1])
			}

			err = wire.PipelineService().MarkStageDone(operatorContext(), primary.StageRequest{
				PartNumber: args[0],
				Which:      whichFromFlag(completion),
				RecordID:   id,
				Stage:      args[2],
			})
			if err != nil {
				return err
			}

			fmt.Printf("✓ Stage %s done on record %d\n", args[2], id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&completion, "completion", false, "Operate on the completion schema instead of in-process")
	return cmd
}

func stageForwardCmd() *cobra.Command {
	var completion bool
	var from, to, fromField, toField string
	var amount int

	cmd := &cobra.Command{
		Use:   "forward [part-number] [record-id]",
		Short: "Forward a quantity from one stage to the next",
		Long: `Forward a quantity of units between two stages of a record.

The source field is decremented and the destination field incremented in
one write, so the total is conserved. The source stage is marked done.

Examples:
  prodline stage forward EICS145 1 --from kit --to smd --from-field quantity --to-field available_quantity --amount 40`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[1])
			}

			resp, err := wire.PipelineService().Forward(operatorContext(), primary.ForwardRequest{
				PartNumber:        args[0],
				Which:             whichFromFlag(completion),
				RecordID:          id,
				From:              from,
				FromQuantityField: fromField,
				To:                to,
				ToQuantityField:   toField,
				Amount:            amount,
			})
			if err != nil {
				return err
			}

			fmt.Printf("✓ Forwarded %d units %s → %s on record %d\n", amount, from, to, id)
			fmt.Printf("  %s: %d remaining\n", resp.FromField, resp.FromRemaining)
			fmt.Printf("  %s: %d available\n", resp.ToField, resp.ToAvailable)
			return nil
		},
	}

	cmd.Flags().BoolVar(&completion, "completion", false, "Operate on the completion schema instead of in-process")
	cmd.Flags().StringVar(&from, "from", "", "Source stage (required)")
	cmd.Flags().StringVar(&to, "to", "", "Destination stage (required)")
	cmd.Flags().StringVar(&fromField, "from-field", "", "Source quantity field (required)")
	cmd.Flags().StringVar(&toField, "to-field", "", "Destination quantity field (required)")
	cmd.Flags().IntVar(&amount, "amount", 0, "Units to forward (required)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("from-field")
	cmd.MarkFlagRequired("to-field")
	cmd.MarkFlagRequired("amount")
	return cmd
}
