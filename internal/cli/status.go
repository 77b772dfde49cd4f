package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/prodline/internal/core/schema"
	"github.com/example/prodline/internal/core/stage"
	"github.com/example/prodline/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configured parts and their stage pipelines",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := operatorContext()
			parts, err := wire.ProcedureService().ListParts(ctx)
			if err != nil {
				return err
			}
			if len(parts) == 0 {
				fmt.Println("No parts configured. Apply one with: prodline part apply -f procedure.yaml")
				return nil
			}

			for _, part := range parts {
				inProcess, err := wire.ProcedureService().GetSchema(ctx, part, schema.InProcess)
				if err != nil {
					return err
				}
				completion, err := wire.ProcedureService().GetSchema(ctx, part, schema.Completion)
				if err != nil {
					return err
				}

				fmt.Printf("%s\n", color.New(color.Bold).Sprint(part))
				fmt.Printf("  pipeline: %s\n", pipelineLine(inProcess, completion))
				if inProcess != nil {
					fmt.Printf("  in-process: %s (%d fields)\n", inProcess.TableName, len(inProcess.Fields))
				}
				if completion != nil {
					fmt.Printf("  completion: %s (%d fields)\n", completion.TableName, len(completion.Fields))
				}
			}
			return nil
		},
	}
}

// pipelineLine renders the part's enabled stages in canonical order, with
// the in-process/completion boundary marked at production QC.
func pipelineLine(inProcess, completion *schema.PartSchema) string {
	line := ""
	boundary := false
	for _, name := range stage.Order {
		ps := inProcess
		if stage.PostQC(name) {
			ps = completion
		}
		if ps == nil {
			continue
		}
		if _, ok := ps.Field(stage.DoneField(name)); !ok {
			continue
		}
		if line != "" {
			if stage.PostQC(name) && !boundary {
				line += color.New(color.FgCyan).Sprint(" ‖ ")
				boundary = true
			} else {
				line += " → "
			}
		}
		line += name
	}
	if line == "" {
		return "(no stages enabled)"
	}
	return line
}
