package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/willfong/riskgen/internal/database"
)

var (
	schemaOutputFile string
	schemaApply      bool
)

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema [postgres|mariadb]",
	Short: "Print or apply the database schema",
	Long: `Print the base schema (lenders, borrowers, loans) for a dialect, or
apply it to the configured database together with the schema guard that
adds the risk columns and the financial_transactions table.

Every statement is IF NOT EXISTS, so applying twice is harmless.

Examples:
  riskgen schema                           # PostgreSQL DDL to stdout
  riskgen schema mariadb -o schema.sql     # MariaDB DDL to a file
  riskgen schema --apply --db "postgres://..."`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringVarP(&schemaOutputFile, "output", "o", "", "output file (default: stdout)")
	schemaCmd.Flags().BoolVar(&schemaApply, "apply", false, "apply the schema to the configured database")
}

func runSchema(cmd *cobra.Command, args []string) error {
	u := newUI()

	if schemaApply {
		store, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		spin := u.NewSpinner("Applying schema")
		spin.Start()
		if err := store.ApplyBaseSchema(cmd.Context()); err != nil {
			spin.Error(err.Error())
			return err
		}
		if err := store.EnsureSchema(cmd.Context()); err != nil {
			spin.Error(err.Error())
			return err
		}
		spin.Success("done")
		return nil
	}

	name := "postgres"
	if len(args) > 0 {
		name = args[0]
	}
	dialect, err := database.ParseDialect(name)
	if err != nil {
		return fmt.Errorf("unknown schema dialect %q (valid: postgres, mariadb)", name)
	}

	content, err := database.BaseSchema(dialect)
	if err != nil {
		return err
	}

	if schemaOutputFile == "" {
		fmt.Print(string(content))
		return nil
	}

	if dir := filepath.Dir(schemaOutputFile); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(schemaOutputFile, content, 0644); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}
	fmt.Fprintln(os.Stderr, u.Success("Schema written to: "+schemaOutputFile))
	return nil
}
