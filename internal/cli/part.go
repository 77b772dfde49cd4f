package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/prodline/internal/procfile"
	"github.com/example/prodline/internal/wire"
)

// PartCmd returns the part command
func PartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "part",
		Short: "Manage part procedures and their derived schemas",
		Long:  "Apply stage configurations for parts and inspect the schemas derived from them",
	}

	cmd.AddCommand(partApplyCmd())
	cmd.AddCommand(partListCmd())
	cmd.AddCommand(partShowCmd())
	return cmd
}

func partApplyCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a procedure file for a part",
		Long: `Apply a stage configuration from a YAML procedure file.

Deriving the schemas, persisting the configuration, aligning the backing
tables and publishing to the registry happen as one operation.

Examples:
  prodline part apply -f procedure.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := procfile.Load(file)
			if err != nil {
				return err
			}

			resp, err := wire.ProcedureService().SaveProcedure(operatorContext(), f.ToRequest())
			if err != nil {
				return fmt.Errorf("failed to apply procedure: %w", err)
			}

			fmt.Printf("✓ Procedure applied for part %s\n", f.PartNumber)
			fmt.Printf("  In-process table: %s (%d fields)\n", resp.InProcess.TableName, len(resp.InProcess.Fields))
			fmt.Printf("  Completion table: %s (%d fields)\n", resp.Completion.TableName, len(resp.Completion.Fields))
			for _, w := range resp.SyncWarnings {
				fmt.Printf("%s %s\n", color.New(color.FgYellow).Sprint("⚠"), w)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Procedure file to apply (required)")
	cmd.MarkFlagRequired("file")
	return cmd
}

func partListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured parts",
		RunE: func(cmd *cobra.Command, args []string) error {
			parts, err := wire.ProcedureService().ListParts(operatorContext())
			if err != nil {
				return err
			}
			if len(parts) == 0 {
				fmt.Println("No parts configured. Apply one with: prodline part apply -f procedure.yaml")
				return nil
			}
			for _, p := range parts {
				fmt.Println(p)
			}
			return nil
		},
	}
}

func partShowCmd() *cobra.Command {
	var completion bool

	cmd := &cobra.Command{
		Use:   "show [part-number]",
		Short: "Show the derived schema for a part",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := wire.ProcedureService().GetSchema(operatorContext(), args[0], whichFromFlag(completion))
			if err != nil {
				return err
			}
			if ps == nil {
				return fmt.Errorf("no procedure configured for part %s", args[0])
			}

			fmt.Printf("Part: %s\nTable: %s\n\n", ps.PartNumber, ps.TableName)
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FIELD\tKIND\tSTAGE\tLABEL")
			for _, f := range ps.Fields {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.QualifiedName, f.Kind, f.Section, f.Label)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&completion, "completion", false, "Show the completion schema instead of in-process")
	return cmd
}
