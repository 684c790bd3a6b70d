// Package gather fans claim queries out to the configured search providers.
// It is the only concurrent region of the pipeline; everything downstream
// consumes plain in-memory data sequentially.
package gather

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ppiankov/parallax/internal/model"
	"github.com/ppiankov/parallax/internal/search"
)

// sleepFunc is the backoff sleep used between retries (injectable for tests)
var sleepFunc = time.Sleep

const maxAttempts = 2 // one retry on timeout/rate-limit

// Gatherer runs the two-arm evidence collection for one claim at a time.
// A single Gatherer is shared across claims; per-call state stays local.
type Gatherer struct {
	registry *search.Registry
	workers  int
	timeout  time.Duration
	max      int
}

// New creates a gatherer over the provider registry.
func New(registry *search.Registry, cfg *model.Config) *Gatherer {
	workers := cfg.Concurrency.GatherWorkers
	if workers <= 0 {
		workers = 4
	}
	return &Gatherer{
		registry: registry,
		workers:  workers,
		timeout:  cfg.Search.Timeout,
		max:      cfg.Search.MaxResults,
	}
}

// armCall is one (arm, query, provider) unit of work
type armCall struct {
	arm      model.Arm
	queryIdx int
	provIdx  int
	query    string
}

// Gather fans out each arm's queries across all providers concurrently and
// interleaves results round-robin across providers so no single provider
// dominates an arm. Provider failures degrade to zero candidates and are
// recorded in the health registry; they never abort sibling calls.
func (g *Gatherer) Gather(ctx context.Context, plan *model.SearchPlan) model.ArmEvidence {
	if g.registry.Empty() {
		return model.ArmEvidence{Status: model.GatherNoProviders}
	}

	providers := g.registry.Providers()

	var calls []armCall
	for qi, q := range plan.QueriesA {
		for pi := range providers {
			calls = append(calls, armCall{arm: model.ArmA, queryIdx: qi, provIdx: pi, query: q})
		}
	}
	for qi, q := range plan.QueriesB {
		for pi := range providers {
			calls = append(calls, armCall{arm: model.ArmB, queryIdx: qi, provIdx: pi, query: q})
		}
	}

	// results[arm][provIdx][queryIdx] keeps provider and query order stable
	// for the deterministic interleave below.
	results := map[model.Arm][][][]model.EvidenceCandidate{
		model.ArmA: makeGrid(len(providers), len(plan.QueriesA)),
		model.ArmB: makeGrid(len(providers), len(plan.QueriesB)),
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, g.workers)

	for _, call := range calls {
		wg.Add(1)
		go func(c armCall) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			provider := providers[c.provIdx]
			hits, err := g.searchWithRetry(ctx, provider, c.query)
			g.registry.Record(provider.Name(), len(hits), err)
			if err != nil {
				return
			}
			results[c.arm][c.provIdx][c.queryIdx] = search.Candidates(hits, provider.Name(), c.arm, c.query)
		}(call)
	}
	wg.Wait()

	evidence := model.ArmEvidence{
		A: interleave(results[model.ArmA]),
		B: interleave(results[model.ArmB]),
	}
	if evidence.Total() == 0 {
		evidence.Status = model.GatherEmpty
	} else {
		evidence.Status = model.GatherOK
	}
	return evidence
}

// searchWithRetry retries timeouts and rate limits at most once with backoff
func (g *Gatherer) searchWithRetry(ctx context.Context, provider search.Provider, query string) ([]search.Result, error) {
	var hits []search.Result
	var err error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		hits, err = provider.Search(callCtx, query, g.max)
		cancel()

		if err == nil || !isRetryable(err) {
			return hits, err
		}
		if attempt < maxAttempts-1 {
			sleepFunc(time.Duration(attempt+1) * time.Second)
		}
	}
	return hits, err
}

func isRetryable(err error) bool {
	return errors.Is(err, search.ErrTimeout) || errors.Is(err, search.ErrRateLimited)
}

func makeGrid(providers, queries int) [][][]model.EvidenceCandidate {
	grid := make([][][]model.EvidenceCandidate, providers)
	for i := range grid {
		grid[i] = make([][]model.EvidenceCandidate, queries)
	}
	return grid
}

// interleave merges per-provider result lists round-robin: first hit of each
// provider, then second, and so on, with providers visited in registration
// order and queries in plan order inside each provider.
func interleave(grid [][][]model.EvidenceCandidate) []model.EvidenceCandidate {
	perProvider := make([][]model.EvidenceCandidate, len(grid))
	total := 0
	for pi, byQuery := range grid {
		for _, hits := range byQuery {
			perProvider[pi] = append(perProvider[pi], hits...)
		}
		total += len(perProvider[pi])
	}

	out := make([]model.EvidenceCandidate, 0, total)
	for i := 0; len(out) < total; i++ {
		for pi := range perProvider {
			if i < len(perProvider[pi]) {
				out = append(out, perProvider[pi][i])
			}
		}
	}
	return out
}
