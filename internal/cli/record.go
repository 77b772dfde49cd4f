package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/prodline/internal/ports/primary"
	"github.com/example/prodline/internal/wire"
)

// RecordCmd returns the record command
func RecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Manage production records",
		Long:  "Create, inspect and update records in the per-part tracking tables",
	}

	cmd.AddCommand(recordCreateCmd())
	cmd.AddCommand(recordShowCmd())
	cmd.AddCommand(recordUpdateCmd())
	cmd.AddCommand(recordFindCmd())
	return cmd
}

func recordCreateCmd() *cobra.Command {
	var completion bool
	var sets []string

	cmd := &cobra.Command{
		Use:   "create [part-number]",
		Short: "Create a record for a part",
		Long: `Create a record in a part's tracking table.

Field names are logical: unprefixed names resolve onto their owning
stage's column.

Examples:
  prodline record create EICS145 --set sale_order_no=SO-9001 --set kit_quantity=100
  prodline record create EICS145 --completion --set serial_number=SN-001`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseSetFlags(sets)
			if err != nil {
				return err
			}

			record, err := wire.RecordService().CreateRecord(operatorContext(), primary.CreateRecordRequest{
				PartNumber: args[0],
				Which:      whichFromFlag(completion),
				Values:     values,
			})
			if err != nil {
				return fmt.Errorf("failed to create record: %w", err)
			}

			fmt.Printf("✓ Created record %d for part %s\n", record.ID, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&completion, "completion", false, "Create in the completion table instead of in-process")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field value as name=value (repeatable)")
	return cmd
}

func recordShowCmd() *cobra.Command {
	var completion bool

	cmd := &cobra.Command{
		Use:   "show [part-number] [record-id]",
		Short: "Show a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[1])
			}

			record, err := wire.RecordService().GetRecord(operatorContext(), args[0], whichFromFlag(completion), id)
			if err != nil {
				return err
			}

			printRecord(record)
			return nil
		},
	}

	cmd.Flags().BoolVar(&completion, "completion", false, "Read from the completion table instead of in-process")
	return cmd
}

func recordUpdateCmd() *cobra.Command {
	var completion bool
	var sets []string

	cmd := &cobra.Command{
		Use:   "update [part-number] [record-id]",
		Short: "Update fields on a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[1])
			}
			values, err := parseSetFlags(sets)
			if err != nil {
				return err
			}
			if len(values) == 0 {
				return fmt.Errorf("nothing to update: pass at least one --set")
			}

			err = wire.RecordService().UpdateRecord(operatorContext(), primary.UpdateRecordRequest{
				PartNumber: args[0],
				Which:      whichFromFlag(completion),
				ID:         id,
				Values:     values,
			})
			if err != nil {
				return fmt.Errorf("failed to update record: %w", err)
			}

			fmt.Printf("✓ Updated record %d\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&completion, "completion", false, "Update in the completion table instead of in-process")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field value as name=value (repeatable)")
	return cmd
}

func recordFindCmd() *cobra.Command {
	var completion bool
	var field, value string

	cmd := &cobra.Command{
		Use:   "find [part-number]",
		Short: "Find records by field value",
		Long: `Find records whose field equals a value.

The field name is logical and tolerates prefix drift: "sale_order_no"
finds the kit_sale_order_no column.

Examples:
  prodline record find EICS145 --field sale_order_no --value SO-9001
  prodline record find EICS145 --completion --field usid --value 241220-EICS145-0001`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := wire.RecordService().FindBySecondaryKey(operatorContext(), primary.FindRecordsRequest{
				PartNumber: args[0],
				Which:      whichFromFlag(completion),
				Candidates: []string{field},
				Value:      value,
			})
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No records found")
				return nil
			}
			for i, record := range records {
				if i > 0 {
					fmt.Println()
				}
				printRecord(record)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&completion, "completion", false, "Search the completion table instead of in-process")
	cmd.Flags().StringVar(&field, "field", "", "Logical field name (required)")
	cmd.Flags().StringVar(&value, "value", "", "Value to match (required)")
	cmd.MarkFlagRequired("field")
	cmd.MarkFlagRequired("value")
	return cmd
}

func printRecord(record *primary.Record) {
	fmt.Printf("Record %d (created %s, updated %s)\n", record.ID, record.CreatedAt, record.UpdatedAt)

	names := make([]string, 0, len(record.Values))
	for name := range record.Values {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, name := range names {
		if record.Values[name] == "" {
			continue
		}
		fmt.Fprintf(w, "  %s\t%s\n", name, record.Values[name])
	}
	w.Flush()
}
