package generator

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/willfong/riskgen/internal/utils"
)

// TenantResult is the outcome of one tenant's run in a multi-tenant batch
type TenantResult struct {
	TenantID string
	Result   *GenerationResult
	Err      error
	Duration time.Duration
}

// GetWorkerCount returns the number of workers to use.
// If configured workers is 0, auto-detects using runtime.NumCPU().
func GetWorkerCount(configured int) int {
	if configured > 0 {
		return configured
	}
	cpus := runtime.NumCPU()
	if cpus < 1 {
		return 1
	}
	return cpus
}

// UniqueTenants drops empty and repeated ids, keeping first-seen order
func UniqueTenants(tenantIDs []string) []string {
	seen := make(map[string]bool, len(tenantIDs))
	out := make([]string, 0, len(tenantIDs))
	for _, id := range tenantIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// GenerateForTenants runs distinct tenants in parallel on a bounded pool of
// workers. Each tenant is its own unit of work; one tenant failing does not
// affect the others. Results come back in input order.
func (o *Orchestrator) GenerateForTenants(ctx context.Context, tenantIDs []string, workers int) []TenantResult {
	tenants := UniqueTenants(tenantIDs)
	results := make([]TenantResult, len(tenants))
	if len(tenants) == 0 {
		return results
	}

	workerCount := GetWorkerCount(workers)
	if workerCount > len(tenants) {
		workerCount = len(tenants)
	}

	// Fork in input order before any worker starts
	forks := make([]*utils.Random, len(tenants))
	for i := range tenants {
		forks[i] = o.rng.Fork()
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				start := time.Now()
				res, err := o.generate(ctx, tenants[i], forks[i])
				results[i] = TenantResult{
					TenantID: tenants[i],
					Result:   res,
					Err:      err,
					Duration: time.Since(start),
				}
			}
		}()
	}

	for i := range tenants {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
