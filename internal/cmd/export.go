package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/willfong/riskgen/internal/export"
	"github.com/willfong/riskgen/internal/ui"
)

var (
	exportTenant   string
	exportOut      string
	exportCompress bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a tenant's borrowers, loans and transactions as CSV",
	Long: `Read a tenant's portfolios back from the database and write
borrowers.csv, loans.csv and financial_transactions.csv.

Example:
  riskgen export --tenant tenant-123 --out ./tenant-123
  riskgen export --tenant tenant-123 --out ./tenant-123 --compress`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportTenant, "tenant", "t", "", "tenant id to export")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "./export", "output directory")
	exportCmd.Flags().BoolVar(&exportCompress, "compress", false, "compress output with xz (creates .csv.xz files)")

	exportCmd.MarkFlagRequired("tenant")
}

func runExport(cmd *cobra.Command, args []string) error {
	u := newUI()

	if exportCompress {
		if err := export.CheckXZAvailable(); err != nil {
			return fmt.Errorf("xz compression requested but xz is not available: %w", err)
		}
	}

	store, closeStore, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	spin := u.NewSpinner("Reading " + exportTenant)
	spin.Start()
	portfolios, err := store.ListBorrowers(cmd.Context(), exportTenant)
	if err != nil {
		spin.Error(err.Error())
		return err
	}
	spin.Success(fmt.Sprintf("%d borrowers", len(portfolios)))

	result, err := export.Portfolios(portfolios, export.Options{Dir: exportOut, Compress: exportCompress})
	if err != nil {
		return err
	}

	items := make([]ui.KV, 0, len(result.Files)+1)
	for _, path := range sortedKeys(result.Files) {
		items = append(items, ui.KV{Key: path, Value: fmt.Sprintf("%d rows", result.Files[path])})
	}
	items = append(items, ui.KV{Key: "Status", Value: "Success"})
	u.Println(u.SummaryBox("Export Complete", items))
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
