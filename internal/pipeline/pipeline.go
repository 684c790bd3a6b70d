// Package pipeline orchestrates the complete check: claim extraction,
// two-arm planning, concurrent evidence gathering, and the deterministic
// scoring stages. Only the gather step touches the network; everything after
// it is sequential and reproducible given identical evidence.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ppiankov/parallax/internal/analyze"
	"github.com/ppiankov/parallax/internal/cache"
	"github.com/ppiankov/parallax/internal/extract"
	"github.com/ppiankov/parallax/internal/gather"
	"github.com/ppiankov/parallax/internal/guard"
	"github.com/ppiankov/parallax/internal/llm"
	"github.com/ppiankov/parallax/internal/model"
	"github.com/ppiankov/parallax/internal/normalize"
	"github.com/ppiankov/parallax/internal/plan"
	"github.com/ppiankov/parallax/internal/rank"
	"github.com/ppiankov/parallax/internal/search"
	"github.com/ppiankov/parallax/internal/verdict"
	"github.com/ppiankov/parallax/internal/worker"
)

// Pipeline wires the components for a check run
type Pipeline struct {
	cfg *model.Config

	extractor   *extract.ClaimExtractor
	interpreter *extract.Interpreter
	planner     *plan.Planner
	registry    *search.Registry
	gatherer    *gather.Gatherer
	snapshotter *gather.Snapshotter
	normalizer  *normalize.Normalizer
	ranker      *rank.Ranker
	enricher    *analyze.Enricher
	stance      *analyze.StanceAnalyzer
	diversity   *guard.Diversity
	composer    *verdict.Composer
	assistant   llm.Assistant // nil when disabled
	renderer    *Renderer
}

// New builds a pipeline from the single explicit configuration. Providers
// are chosen by an exhaustive mode switch: offline registers only the
// deterministic stubs, live registers only real adapters. The two never mix.
func New(cfg *model.Config) (*Pipeline, error) {
	providers, err := buildProviders(cfg)
	if err != nil {
		return nil, err
	}
	registry := search.NewRegistry(providers)

	var assistant llm.Assistant
	if cfg.Assist.Provider != "" {
		assistant, err = llm.NewAssistant(llm.ConfigFromModel(cfg.Assist))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: assist layer disabled: %v\n", err)
			assistant = nil
		}
	}

	var refiner plan.QueryRefiner
	if assistant != nil {
		refiner = assistant
	}

	limiter := worker.NewLimiter(cfg.Search.RatePerHost, cfg.Search.RateBurst)
	now := time.Now().UTC()

	return &Pipeline{
		cfg:         cfg,
		extractor:   extract.NewClaimExtractor(),
		interpreter: extract.NewInterpreter(),
		planner:     plan.NewPlanner(refiner),
		registry:    registry,
		gatherer:    gather.New(registry, cfg),
		snapshotter: gather.NewSnapshotter(cfg, limiter),
		normalizer:  normalize.New(cfg),
		ranker:      rank.New(cfg, now),
		enricher:    analyze.NewEnricher(cfg, now),
		stance:      analyze.NewStanceAnalyzer(),
		diversity:   guard.NewDiversity(cfg),
		composer:    verdict.NewComposer(),
		assistant:   assistant,
		renderer:    NewRenderer(cfg.Output.IncludeFooter),
	}, nil
}

// buildProviders assembles the provider set for the configured mode.
// The switch is exhaustive on purpose: an unknown mode is an error, not a
// silent fallback into either path.
func buildProviders(cfg *model.Config) ([]search.Provider, error) {
	switch cfg.Mode {
	case model.ModeOffline:
		return []search.Provider{
			search.NewStubProvider("alpha"),
			search.NewStubProvider("beta"),
		}, nil

	case model.ModeLive:
		var providers []search.Provider
		if cfg.Search.BraveAPIKey != "" {
			providers = append(providers, search.NewBraveProvider(cfg.Search.BraveAPIKey, cfg.Search.Timeout, cfg.Search.UserAgent))
		}
		if cfg.Search.SerperAPIKey != "" {
			providers = append(providers, search.NewSerperProvider(cfg.Search.SerperAPIKey, cfg.Search.Timeout, cfg.Search.UserAgent))
		}
		if cfg.Search.Wikipedia {
			providers = append(providers, search.NewWikipediaProvider(cfg.Search.Timeout, cfg.Search.UserAgent))
		}
		return wrapWithCache(providers, cfg), nil

	default:
		return nil, fmt.Errorf("unknown mode: %q (supported: offline, live)", cfg.Mode)
	}
}

// wrapWithCache adds the shared response cache around live providers
func wrapWithCache(providers []search.Provider, cfg *model.Config) []search.Provider {
	if !cfg.Cache.Enabled {
		return providers
	}

	var store cache.Cache
	if cfg.Cache.Dir != "" {
		store = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	} else {
		store = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
	}

	wrapped := make([]search.Provider, len(providers))
	for i, p := range providers {
		wrapped[i] = search.NewCachedProvider(p, store, cfg.Cache.TTL)
	}
	return wrapped
}

// Registry exposes the provider health surface for the CLI.
func (p *Pipeline) Registry() *search.Registry {
	return p.registry
}

// Check runs the full pipeline over free text and returns the verdict.
// In live mode, zero configured providers is the one failure surfaced to
// the caller; it is distinct from "providers searched and found nothing".
func (p *Pipeline) Check(ctx context.Context, text string) (*model.Verdict, error) {
	if p.cfg.Mode == model.ModeLive && p.registry.Empty() {
		return nil, fmt.Errorf("check unavailable: %w", search.ErrNoProviders)
	}

	claims := p.interpreter.InterpretAll(p.extractor.Extract(text))
	if len(claims) == 0 {
		return &model.Verdict{
			Input:        text,
			CheckedAt:    time.Now().UTC(),
			OverallScore: 0,
			Label:        model.LabelUnverifiable,
		}, nil
	}

	results := make([]model.ClaimVerdict, len(claims))
	inFlight := p.cfg.Concurrency.ClaimsInFlight
	if inFlight <= 0 {
		inFlight = 1
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, inFlight)
	for i, claim := range claims {
		wg.Add(1)
		go func(idx int, c model.Claim) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = p.composer.Compose(verdict.Inputs{Claim: c, GatherStatus: model.GatherEmpty})
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = p.checkClaim(ctx, c)
		}(i, claim)
	}
	wg.Wait()

	out := p.composer.Aggregate(text, results)

	// Assist runs last and is best effort; it can never change the score.
	if p.assistant != nil {
		if note, err := p.assistant.Explain(ctx, out); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: assist explanation failed: %v\n", err)
		} else {
			out.Assist = note
		}
	}

	return out, nil
}

// checkClaim runs one claim through gather and the deterministic stages.
// The claim budget bounds the concurrent region only: evidence gathered
// before a timeout still flows through scoring — fail closed on emptiness,
// not on time.
func (p *Pipeline) checkClaim(ctx context.Context, claim model.Claim) model.ClaimVerdict {
	gatherCtx, cancel := context.WithTimeout(ctx, p.cfg.Concurrency.ClaimBudget)
	searchPlan := p.planner.Plan(gatherCtx, claim)
	evidence := p.gatherer.Gather(gatherCtx, &searchPlan)
	cancel()

	if evidence.Status != model.GatherOK {
		return p.composer.Compose(verdict.Inputs{Claim: claim, GatherStatus: evidence.Status})
	}

	armA := p.prepareArm(ctx, claim, evidence.A)
	armB := p.prepareArm(ctx, claim, evidence.B)

	reportA := p.diversity.Enforce(model.ArmA, armA)
	reportB := p.diversity.Enforce(model.ArmB, armB)

	keptA, keptB := reportA.Kept, reportB.Kept
	balance := guard.CountBalance(keptA, keptB)

	combined := make([]model.EvidenceItem, 0, len(keptA)+len(keptB))
	combined = append(combined, keptA...)
	combined = append(combined, keptB...)
	combined, credAvg := guard.ScoreCredibility(combined)

	consensus := guard.MeasureAgreement(keptA, keptB)
	consensus = guard.DetectContradiction(keptA, keptB, consensus)

	return p.composer.Compose(verdict.Inputs{
		Claim:        claim,
		GatherStatus: evidence.Status,
		Reports:      []model.GuardrailReport{reportA, reportB},
		Balance:      balance,
		CredAvg:      credAvg,
		Consensus:    consensus,
		Evidence:     combined,
	})
}

// prepareArm runs the sequential per-arm stages: normalize, rank, snapshot,
// numeric/temporal enrichment and stance classification.
func (p *Pipeline) prepareArm(ctx context.Context, claim model.Claim, candidates []model.EvidenceCandidate) []model.EvidenceItem {
	items := p.normalizer.Normalize(candidates)
	items = p.ranker.Rank(items)
	if p.cfg.Snapshot.Enabled {
		items = p.snapshotter.Snapshot(ctx, items)
	}
	items = p.enricher.Enrich(claim, items)
	return p.stance.Classify(items)
}

// RenderVerdict renders the verdict to the configured outputs.
func (p *Pipeline) RenderVerdict(v *model.Verdict, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(v, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(v, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(v)
	return nil
}
