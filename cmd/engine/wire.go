package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"enrich-engine/internal/batch"
	"enrich-engine/internal/config"
	"enrich-engine/internal/domain"
	"enrich-engine/internal/scrape"
	email_scrape "enrich-engine/internal/scrape/email"
	"enrich-engine/internal/scrape/fetch"
	"enrich-engine/internal/scrape/search"
	"enrich-engine/internal/scrape/types"
	"enrich-engine/internal/scrape/util"
)

const (
	defaultCfgPath = "config/config.yml"
	dbFile         = "enrich.db"
	lockFile       = "engine.lock"
)

// loadConfig bootstraps <data dir>/config.yml and applies the .env / ENRICH_*
// overlay. The data dir is the flag, then ENRICH_DATA_DIR, then ".".
func loadConfig(flagDir string) (config.Config, string, error) {
	dataDir := strings.TrimSpace(flagDir)
	if dataDir == "" {
		dataDir = strings.TrimSpace(os.Getenv("ENRICH_DATA_DIR"))
	}
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return config.Config{}, "", fmt.Errorf("data dir: %w", err)
	}

	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("config bootstrap failed: %w", err)
	}
	cfg, err := readConfig(userCfgPath, dataDir)
	if err != nil {
		return config.Config{}, "", err
	}
	return cfg, userCfgPath, nil
}

func readConfig(userCfgPath, dataDir string) (config.Config, error) {
	cfg, err := config.Load(userCfgPath)
	if err != nil {
		return cfg, fmt.Errorf("config load failed (%s): %w", userCfgPath, err)
	}
	if err := config.OverlayEnv(&cfg, filepath.Join(dataDir, ".env")); err != nil {
		return cfg, fmt.Errorf("env overlay: %w", err)
	}
	cfg.App.DataDir = dataDir

	cfg, vr := config.NormalizeAndValidate(cfg)
	for _, w := range vr.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	if !vr.OK() {
		return cfg, fmt.Errorf("invalid config (%s): %s", userCfgPath, strings.Join(vr.Errors, "; "))
	}
	return cfg, nil
}

// engine is everything built from one config snapshot.
type engine struct {
	limiter  *util.HostLimiter
	pipeline *scrape.Pipeline
	runner   *batch.Runner
}

// buildEngine wires fetcher, searchers, resolver, prober and pipeline. cache
// may be nil; it is ignored when caching is disabled.
func buildEngine(cfg config.Config, cache scrape.WebsiteCache, logger types.Logger) *engine {
	lim := util.NewHostLimiter(cfg.RateLimit.PerHostRPS, cfg.RateLimit.Burst)
	f := fetch.New(fetch.OptionsFromConfig(cfg, lim, logger))

	ropts := scrape.ResolverOptions{
		Primary:    search.NewDDGLite(cfg.Search.PrimaryURL, f),
		Filter:     scrape.NewCandidateFilter(cfg.Search.ExcludedDomains),
		QueryDelay: cfg.QueryDelay(),
		Logger:     logger,
	}
	if cfg.Search.FallbackURL != "" {
		ropts.Fallback = search.NewGoogle(cfg.Search.FallbackURL, f)
	}
	if cfg.Cache.Enabled && cache != nil {
		ropts.Cache = cache
		ropts.CacheTTL = cfg.CacheTTL()
	}
	resolver := scrape.NewWebsiteResolver(ropts)

	scanner := &scrape.PageScanner{
		Fetcher:   f,
		Extractor: email_scrape.NewExtractor(),
		Filter: email_scrape.NewFilter(email_scrape.FilterOptions{
			Strict:   cfg.Enrich.StrictDomainAffinity,
			TieBreak: cfg.Enrich.TieBreak,
		}),
	}
	prober := scrape.NewContactPageProber(scanner, scrape.ProberOptions{
		Paths:      cfg.Enrich.ContactPaths,
		ProbeDelay: cfg.ProbeDelay(),
	})
	pipeline := scrape.NewPipeline(resolver, scanner, prober, logger)

	return &engine{
		limiter:  lim,
		pipeline: pipeline,
		runner: &batch.Runner{
			Enricher:     pipeline,
			Workers:      cfg.Enrich.Workers,
			CompanyDelay: cfg.CompanyDelay(),
			Logger:       logger,
		},
	}
}

// liveEnricher forwards to the pipeline of the current config.
type liveEnricher struct {
	p atomic.Pointer[scrape.Pipeline]
}

func (l *liveEnricher) Enrich(ctx context.Context, company string) domain.EnrichmentResult {
	return l.p.Load().Enrich(ctx, company)
}
