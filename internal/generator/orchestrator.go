package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/willfong/riskgen/internal/config"
	"github.com/willfong/riskgen/internal/data"
	"github.com/willfong/riskgen/internal/database"
	"github.com/willfong/riskgen/internal/lock"
	"github.com/willfong/riskgen/internal/models"
	"github.com/willfong/riskgen/internal/utils"
)

// Store is the persistence surface a generation run needs. It is satisfied
// by *database.Store and *database.MemoryStore.
type Store interface {
	EnsureSchema(ctx context.Context) error
	RunInTx(ctx context.Context, fn func(database.Tx) error) error
}

// Stage names a phase of a run for progress reporting
type Stage string

const (
	StageBorrowers    Stage = "borrowers"
	StageLoans        Stage = "loans"
	StageTransactions Stage = "transactions"
)

// ProgressFunc receives per-borrower progress for a tenant's run
type ProgressFunc func(tenantID string, stage Stage, done, total int)

// Orchestrator runs one all-or-nothing generation per tenant: a cohort of
// borrowers, their loans and their transaction histories.
type Orchestrator struct {
	store   Store
	locker  lock.Locker
	rng     *utils.Random
	refData *data.ReferenceData
	config  OrchestratorConfig
	logger  *zap.Logger
	now     func() time.Time

	progress ProgressFunc
}

// OrchestratorConfig holds settings for the orchestrator
type OrchestratorConfig struct {
	CohortSize       int           // borrowers per run (default config.CohortSize)
	Months           int           // months of transaction history, 0 = none
	Timeout          time.Duration // upper bound on one run, 0 = none
	MaxUniqueRetries int           // candidate attempts per unique field
	Seed             int64         // 0 = random
}

// OrchestratorOptions holds optional collaborators for the orchestrator
type OrchestratorOptions struct {
	Logger   *zap.Logger
	Locker   lock.Locker
	Progress ProgressFunc
	// Now overrides the clock used for dates (tests)
	Now func() time.Time
}

// GenerationResult holds statistics from one tenant's committed run
type GenerationResult struct {
	TenantID         string
	BorrowerCount    int
	LoanCount        int
	TransactionCount int
	TierCounts       map[models.RiskTier]int
	Duration         time.Duration
}

// NewOrchestrator creates a new orchestrator over store
func NewOrchestrator(store Store, cfg OrchestratorConfig, opts OrchestratorOptions) (*Orchestrator, error) {
	refData, err := data.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}

	if cfg.CohortSize <= 0 {
		cfg.CohortSize = config.CohortSize
	}
	if cfg.Months < 0 {
		return nil, fmt.Errorf("months must be >= 0, got %d", cfg.Months)
	}
	if cfg.MaxUniqueRetries <= 0 {
		cfg.MaxUniqueRetries = config.MaxUniqueRetries
	}

	o := &Orchestrator{
		store:    store,
		locker:   opts.Locker,
		rng:      utils.NewRandom(cfg.Seed),
		refData:  refData,
		config:   cfg,
		logger:   opts.Logger,
		now:      opts.Now,
		progress: opts.Progress,
	}
	if o.locker == nil {
		o.locker = lock.NewMemory()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.now == nil {
		o.now = func() time.Time { return time.Now().UTC() }
	}
	return o, nil
}

// Seed returns the seed of the orchestrator's root RNG
func (o *Orchestrator) Seed() uint64 {
	return o.rng.Seed()
}

// GenerateForTenant runs one generation for tenantID. Either every borrower,
// loan and transaction of the run is committed or none is.
func (o *Orchestrator) GenerateForTenant(ctx context.Context, tenantID string) (*GenerationResult, error) {
	return o.generate(ctx, tenantID, o.rng.Fork())
}

// generate runs one tenant with its own RNG. The caller takes the fork so
// that the order of forks, not goroutine scheduling, decides each
// tenant's sequence.
func (o *Orchestrator) generate(ctx context.Context, tenantID string, rng *utils.Random) (*GenerationResult, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, fmt.Errorf("%w: tenant id is required", ErrInvalidInput)
	}

	release, err := o.locker.Acquire(ctx, tenantID)
	if errors.Is(err, lock.ErrLocked) {
		return nil, fmt.Errorf("%w: tenant %s", ErrGenerationInProgress, tenantID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	defer release()

	if o.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	logger := o.logger.With(zap.String("tenant_id", tenantID))
	logger.Info("starting generation",
		zap.Int("cohort_size", o.config.CohortSize),
		zap.Int("months", o.config.Months))

	if err := o.store.EnsureSchema(ctx); err != nil {
		logger.Error("schema guard failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	run := &tenantRun{
		o:        o,
		rng:      rng,
		tenantID: tenantID,
		now:      o.now(),
		logger:   logger,
	}

	var result *GenerationResult
	err = o.store.RunInTx(ctx, func(tx database.Tx) error {
		var err error
		result, err = run.execute(ctx, tx)
		return err
	})
	if err != nil {
		logger.Warn("generation rolled back", zap.Error(err))
		if errors.Is(err, ErrTenantNotFound) || errors.Is(err, ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	result.Duration = time.Since(startTime)
	logger.Info("generation committed",
		zap.Int("borrowers", result.BorrowerCount),
		zap.Int("loans", result.LoanCount),
		zap.Int("transactions", result.TransactionCount),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// tenantRun is the state of one unit of work. rng is never drawn from
// directly; each attempt restarts it so a retried unit of work regenerates
// the same cohort.
type tenantRun struct {
	o        *Orchestrator
	rng      *utils.Random
	tenantID string
	now      time.Time
	logger   *zap.Logger
}

func (r *tenantRun) execute(ctx context.Context, tx database.Tx) (*GenerationResult, error) {
	rng := r.rng.Restart()

	found, err := tx.TenantExists(ctx, r.tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to check tenant: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrTenantNotFound, r.tenantID)
	}

	result := &GenerationResult{
		TenantID:   r.tenantID,
		TierCounts: make(map[models.RiskTier]int),
	}

	tiers := PlanTiers(rng, r.o.config.CohortSize)
	for _, tier := range tiers {
		result.TierCounts[tier]++
	}
	r.logger.Info("planned cohort", zap.Any("tiers", result.TierCounts))

	// 1. Borrowers, one at a time so each sees the previous one's unique values
	borrowerGen := NewBorrowerGenerator(rng.Fork(), r.o.refData, BorrowerGeneratorConfig{
		BaseDate:         r.now,
		MaxUniqueRetries: r.o.config.MaxUniqueRetries,
	})
	borrowers := make([]*models.Borrower, 0, len(tiers))
	for i, tier := range tiers {
		b, err := borrowerGen.Generate(ctx, tx, r.tenantID, tier)
		if err != nil {
			return nil, fmt.Errorf("failed to generate borrower %d: %w", i+1, err)
		}
		if err := tx.InsertBorrower(ctx, b); err != nil {
			return nil, err
		}
		borrowers = append(borrowers, b)
		r.logger.Debug("created borrower",
			zap.String("borrower_id", b.ID),
			zap.String("risk_tier", string(tier)))
		r.report(StageBorrowers, i+1, len(tiers))
	}
	result.BorrowerCount = len(borrowers)

	// 2. Loans
	loanGen := NewLoanGenerator(rng.Fork(), r.now)
	for i, b := range borrowers {
		loans, err := loanGen.Generate(b)
		if err != nil {
			return nil, err
		}
		for j := range loans {
			if err := tx.InsertLoan(ctx, &loans[j]); err != nil {
				return nil, err
			}
			r.logger.Debug("created loan",
				zap.String("loan_id", loans[j].ID),
				zap.String("borrower_id", b.ID),
				zap.Stringer("principal", loans[j].Principal),
				zap.Float64("interest_rate", loans[j].InterestRate),
				zap.Int("tenure_months", loans[j].TenureMonths))
		}
		result.LoanCount += len(loans)
		r.report(StageLoans, i+1, len(borrowers))
	}

	// 3. Transaction histories
	sim := NewTransactionSimulator(rng.Fork(), r.now)
	for i, b := range borrowers {
		ledger, err := sim.Simulate(b.ID, b.RiskTier, r.o.config.Months)
		if err != nil {
			return nil, err
		}
		if err := tx.InsertTransactions(ctx, ledger.Transactions); err != nil {
			return nil, err
		}
		result.TransactionCount += len(ledger.Transactions)
		r.report(StageTransactions, i+1, len(borrowers))
	}

	return result, nil
}

func (r *tenantRun) report(stage Stage, done, total int) {
	if r.o.progress != nil {
		r.o.progress(r.tenantID, stage, done, total)
	}
}

// PlanTiers draws the tier mix of a cohort and shuffles it: at most one
// Very High (probability config.VeryHighRiskProbability), 1-2 High, 1-2
// Moderate and Low for the remainder.
func PlanTiers(rng utils.RandomSource, size int) []models.RiskTier {
	counts := []struct {
		tier models.RiskTier
		n    int
	}{
		{models.TierVeryHighRisk, 0},
		{models.TierHighRisk, rng.IntRange(config.HighRiskMin, config.HighRiskMax)},
		{models.TierModerateRisk, rng.IntRange(config.ModerateRiskMin, config.ModerateRiskMax)},
	}
	if rng.Probability(config.VeryHighRiskProbability) {
		counts[0].n = 1
	}

	tiers := make([]models.RiskTier, 0, size)
	for _, c := range counts {
		for i := 0; i < c.n && len(tiers) < size; i++ {
			tiers = append(tiers, c.tier)
		}
	}
	for len(tiers) < size {
		tiers = append(tiers, models.TierLowRisk)
	}

	rng.Shuffle(len(tiers), func(i, j int) {
		tiers[i], tiers[j] = tiers[j], tiers[i]
	})
	return tiers
}
