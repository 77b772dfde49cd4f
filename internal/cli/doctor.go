package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/prodline/internal/core/schema"
	"github.com/example/prodline/internal/db"
	"github.com/example/prodline/internal/version"
	"github.com/example/prodline/internal/wire"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the prodline environment",
		Long: `Health check for the prodline installation.

Validates:
- Database file and schema version
- Stored procedure configurations (each must derive a valid schema pair)
- Backing tables for every configured part

Examples:
  prodline doctor          # Run full health check
  prodline doctor --quiet  # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := []CheckResult{
				checkDatabase(),
				checkConfigurations(),
				checkBackingTables(),
			}

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
				}
			}

			if !quiet {
				fmt.Printf("prodline doctor — %s\n\n", version.String())
				for _, r := range results {
					fmt.Printf("%s %s\n", r.Status, r.Name)
					if r.Status != "✓" && r.Details != "" {
						fmt.Printf("    %s\n", r.Details)
					}
				}
			}

			if hasErrors {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress output, exit code only")
	return cmd
}

func checkDatabase() CheckResult {
	path, err := db.GetDBPath()
	if err != nil {
		return CheckResult{Name: "Database path", Status: "✗", Details: err.Error()}
	}
	if _, err := os.Stat(path); err != nil {
		return CheckResult{Name: "Database file", Status: "✗", Details: fmt.Sprintf("%s missing; run: prodline init", path)}
	}
	if _, err := db.GetDB(); err != nil {
		return CheckResult{Name: "Database connection", Status: "✗", Details: err.Error()}
	}
	return CheckResult{Name: fmt.Sprintf("Database (%s)", path), Status: "✓"}
}

func checkConfigurations() CheckResult {
	ctx := operatorContext()
	parts, err := wire.ProcedureService().ListParts(ctx)
	if err != nil {
		return CheckResult{Name: "Procedure configurations", Status: "✗", Details: err.Error()}
	}
	if len(parts) == 0 {
		return CheckResult{Name: "Procedure configurations", Status: "⚠", Details: "no parts configured"}
	}

	for _, part := range parts {
		if _, err := wire.ProcedureService().GetSchema(ctx, part, schema.InProcess); err != nil {
			return CheckResult{
				Name:    "Procedure configurations",
				Status:  "✗",
				Details: fmt.Sprintf("part %s: %v", part, err),
			}
		}
	}
	return CheckResult{Name: fmt.Sprintf("Procedure configurations (%d parts)", len(parts)), Status: "✓"}
}

func checkBackingTables() CheckResult {
	database, err := db.GetDB()
	if err != nil {
		return CheckResult{Name: "Backing tables", Status: "✗", Details: err.Error()}
	}

	ctx := operatorContext()
	parts, err := wire.ProcedureService().ListParts(ctx)
	if err != nil {
		return CheckResult{Name: "Backing tables", Status: "✗", Details: err.Error()}
	}

	var missing []string
	for _, part := range parts {
		for _, which := range []schema.Which{schema.InProcess, schema.Completion} {
			ps, err := wire.ProcedureService().GetSchema(ctx, part, which)
			if err != nil || ps == nil {
				continue
			}
			var name string
			err = database.QueryRow(
				"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", ps.TableName,
			).Scan(&name)
			if err != nil {
				missing = append(missing, ps.TableName)
			}
		}
	}

	if len(missing) > 0 {
		return CheckResult{
			Name:    "Backing tables",
			Status:  "⚠",
			Details: fmt.Sprintf("missing: %v; re-apply the procedure to repair", missing),
		}
	}
	return CheckResult{Name: "Backing tables", Status: "✓"}
}
