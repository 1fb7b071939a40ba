package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/willfong/riskgen/internal/database"
	"github.com/willfong/riskgen/internal/export"
	"github.com/willfong/riskgen/internal/generator"
	"github.com/willfong/riskgen/internal/lock"
	"github.com/willfong/riskgen/internal/models"
	"github.com/willfong/riskgen/internal/ui"
)

var (
	tenantIDs []string
	dryRun    bool
	exportDir string
	compress  bool
)

// portfolioStore is a generation target that can also read its rows back
type portfolioStore interface {
	generator.Store
	ListBorrowers(ctx context.Context, tenantID string) ([]models.BorrowerPortfolio, error)
}

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a risk-tiered borrower cohort for one or more tenants",
	Long: `Generate a cohort of borrowers with loans and transaction history for
each tenant. Each tenant's cohort is written in a single database
transaction: either all of it lands or none of it does.

Distinct tenants run in parallel through a bounded worker pool.

With --dry-run the cohort is generated against an in-memory store instead of
the database; combine it with --export-dir to inspect the result as CSV.

Example:
  riskgen generate --tenant tenant-123
  riskgen generate --tenant a --tenant b --workers 2 --seed 42
  riskgen generate --tenant demo --dry-run --export-dir ./out --compress`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringArrayVarP(&tenantIDs, "tenant", "t", nil, "tenant id to generate for (repeatable)")
	generateCmd.Flags().Int64("seed", 0, "random seed for reproducibility (0 = random)")
	generateCmd.Flags().Int("workers", 0, "parallel tenants (0 = auto-detect CPUs)")
	generateCmd.Flags().Int("months", 12, "months of transaction history per borrower")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "generate into memory without touching the database")
	generateCmd.Flags().StringVar(&exportDir, "export-dir", "", "write each tenant's cohort as CSV under this directory")
	generateCmd.Flags().BoolVar(&compress, "compress", false, "compress exported CSV with xz (creates .csv.xz files)")

	viper.BindPFlag("generate.seed", generateCmd.Flags().Lookup("seed"))
	viper.BindPFlag("generate.workers", generateCmd.Flags().Lookup("workers"))
	viper.BindPFlag("generate.months", generateCmd.Flags().Lookup("months"))

	generateCmd.MarkFlagRequired("tenant")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	u := newUI()

	tenants := generator.UniqueTenants(tenantIDs)
	if len(tenants) == 0 {
		return fmt.Errorf("at least one non-empty --tenant is required")
	}

	if compress {
		if exportDir == "" {
			return fmt.Errorf("--compress requires --export-dir")
		}
		if err := export.CheckXZAvailable(); err != nil {
			return fmt.Errorf("xz compression requested but xz is not available (apt install xz-utils or brew install xz): %w", err)
		}
	}

	logger, err := cliLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	var store portfolioStore
	if dryRun {
		mem := database.NewMemoryStore()
		for _, id := range tenants {
			mem.AddTenant(models.Tenant{ID: id, Name: id})
		}
		store = mem
	} else {
		dbStore, closeStore, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()
		store = dbStore
	}

	locker, err := lock.New(cfg.Lock)
	if err != nil {
		return err
	}

	workerCount := generator.GetWorkerCount(cfg.Generate.Workers)
	if workerCount > len(tenants) {
		workerCount = len(tenants)
	}

	u.Println(u.Header("Risk Data Generator"))
	u.Println()
	u.Println(u.KeyValue("Tenants", fmt.Sprintf("%d", len(tenants))))
	u.Println(u.KeyValue("Months", fmt.Sprintf("%d", cfg.Generate.Months)))
	u.Println(u.KeyValue("Workers", fmt.Sprintf("%d", workerCount)))
	if cfg.Generate.Seed != 0 {
		u.Println(u.KeyValue("Seed", fmt.Sprintf("%d", cfg.Generate.Seed)))
	}
	if dryRun {
		u.Println(u.KeyValue("Target", "in-memory (dry run)"))
	} else {
		u.Println(u.KeyValue("Target", cfg.Database.Driver))
	}
	if exportDir != "" {
		u.Println(u.KeyValue("Export", exportDir))
	}
	u.Println()

	// A single tenant gets a stage bar, several share a board
	var progress generator.ProgressFunc
	var bar *ui.StageBar
	var board *ui.TenantBoard
	if len(tenants) == 1 {
		bar = u.NewStageBar(tenants[0])
		progress = func(_ string, stage generator.Stage, done, total int) {
			bar.Report(string(stage), done, total)
		}
	} else {
		board = u.NewTenantBoard(tenants)
		progress = func(tenantID string, stage generator.Stage, done, total int) {
			board.Report(tenantID, string(stage), done, total)
		}
	}

	orchestrator, err := generator.NewOrchestrator(store, generator.OrchestratorConfig{
		Months:           cfg.Generate.Months,
		Timeout:          cfg.Generate.Timeout,
		MaxUniqueRetries: cfg.Generate.MaxUniqueRetries,
		Seed:             cfg.Generate.Seed,
	}, generator.OrchestratorOptions{
		Logger:   logger,
		Locker:   locker,
		Progress: progress,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	results := orchestrator.GenerateForTenants(cmd.Context(), tenants, workerCount)

	var totals generator.GenerationResult
	totals.TierCounts = make(map[models.RiskTier]int)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			if bar != nil {
				bar.Fail(r.Err)
			} else {
				board.Fail(r.TenantID, r.Err)
			}
			continue
		}

		msg := fmt.Sprintf("%d borrowers, %d loans, %d transactions",
			r.Result.BorrowerCount, r.Result.LoanCount, r.Result.TransactionCount)
		if bar != nil {
			bar.Complete(msg)
		} else {
			board.Complete(r.TenantID, msg)
		}

		totals.BorrowerCount += r.Result.BorrowerCount
		totals.LoanCount += r.Result.LoanCount
		totals.TransactionCount += r.Result.TransactionCount
		for tier, n := range r.Result.TierCounts {
			totals.TierCounts[tier] += n
		}
	}

	if exportDir != "" {
		if err := exportTenants(cmd.Context(), u, store, results); err != nil {
			return err
		}
	}

	status := "Success"
	if failed > 0 {
		status = fmt.Sprintf("Failed (%d of %d tenants)", failed, len(tenants))
	}
	u.Println(u.SummaryBox("Generation Complete", []ui.KV{
		{Key: "Tenants", Value: fmt.Sprintf("%d", len(tenants)-failed)},
		{Key: "Borrowers", Value: fmt.Sprintf("%d", totals.BorrowerCount)},
		{Key: "Loans", Value: fmt.Sprintf("%d", totals.LoanCount)},
		{Key: "Transactions", Value: fmt.Sprintf("%d", totals.TransactionCount)},
		{Key: "Risk Mix", Value: u.TierMix(totals.TierCounts)},
		{Key: "Seed", Value: fmt.Sprintf("%d", orchestrator.Seed())},
		{Key: "Duration", Value: time.Since(start).Round(time.Millisecond).String()},
		{Key: "Status", Value: status},
	}))

	if failed > 0 {
		return fmt.Errorf("generation failed for %d tenant(s)", failed)
	}
	return nil
}

// exportTenants reads each successful tenant back and writes its CSV files
// under exportDir/<tenant>
func exportTenants(ctx context.Context, u *ui.UI, store portfolioStore, results []generator.TenantResult) error {
	for _, r := range results {
		if r.Err != nil {
			continue
		}

		spin := u.NewSpinner("Exporting " + r.TenantID)
		spin.Start()

		portfolios, err := store.ListBorrowers(ctx, r.TenantID)
		if err != nil {
			spin.Error(err.Error())
			return fmt.Errorf("failed to read back tenant %s: %w", r.TenantID, err)
		}
		out, err := export.Portfolios(portfolios, export.Options{
			Dir:      filepath.Join(exportDir, r.TenantID),
			Compress: compress,
		})
		if err != nil {
			spin.Error(err.Error())
			return err
		}
		spin.Success(fmt.Sprintf("%d files", len(out.Files)))
	}
	return nil
}
