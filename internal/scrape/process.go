package scrape

import (
	"context"
	"fmt"
	"strings"

	"enrich-engine/internal/domain"
	email_scrape "enrich-engine/internal/scrape/email"
	"enrich-engine/internal/scrape/types"
	"enrich-engine/internal/scrape/util"
)

// PageScanner is fetch, extract, filter for one URL.
type PageScanner struct {
	Fetcher   types.PageFetcher
	Extractor *email_scrape.Extractor
	Filter    *email_scrape.Filter
}

// Scan returns the chosen address on url. A fetch failure is returned as
// an error; a page with no accepted address is ok=false with a nil error.
func (s *PageScanner) Scan(ctx context.Context, url string) (string, bool, error) {
	body, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return "", false, err
	}
	found := s.Extractor.ExtractAll(body)
	email, ok := s.Filter.First(found, url)
	return email, ok, nil
}

// Pipeline enriches one company at a time. It is safe for concurrent use
// as long as its collaborators are.
type Pipeline struct {
	resolver types.Resolver
	scanner  *PageScanner
	prober   types.Prober
	log      types.Logger
}

func NewPipeline(resolver types.Resolver, scanner *PageScanner, prober types.Prober, logger types.Logger) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		scanner:  scanner,
		prober:   prober,
		log:      types.OrDefault(logger),
	}
}

// Enrich never fails: errors and panics become an "Error: ..." result.
func (p *Pipeline) Enrich(ctx context.Context, company string) (res domain.EnrichmentResult) {
	name, ok := util.CleanCompanyName(company)
	if !ok {
		return domain.EnrichmentResult{FoundEmail: domain.NotFound}
	}

	defer func() {
		if rec := recover(); rec != nil {
			p.log.Printf("[enrich] panic company=%q err=%v", name, rec)
			res = domain.NotFoundResult(name, domain.ErrorSource(fmt.Errorf("%v", rec)))
		}
	}()

	res, err := p.enrich(ctx, name)
	if err != nil {
		p.log.Printf("[enrich] failed company=%q err=%v", name, err)
		return domain.NotFoundResult(name, domain.ErrorSource(err))
	}
	return res
}

func (p *Pipeline) enrich(ctx context.Context, name string) (domain.EnrichmentResult, error) {
	p.log.Printf("[enrich] searching company=%q", name)

	site, err := p.resolver.Resolve(ctx, name)
	if err != nil {
		return domain.EnrichmentResult{}, err
	}
	if site == nil || strings.TrimSpace(site.URL) == "" {
		p.log.Printf("[enrich] no website company=%q", name)
		return domain.NotFoundResult(name, domain.NoWebsiteFound), nil
	}
	p.log.Printf("[enrich] website company=%q url=%s strategy=%s", name, site.URL, site.Strategy)

	email, ok, err := p.scanner.Scan(ctx, site.URL)
	if err != nil && ctx.Err() != nil {
		return domain.EnrichmentResult{}, ctx.Err()
	}
	if ok {
		return domain.FoundResult(name, email, domain.MainPageSource(site.URL)), nil
	}

	if p.prober != nil {
		if email, source, ok := p.prober.Probe(ctx, site.URL); ok {
			return domain.FoundResult(name, email, source), nil
		}
		if ctx.Err() != nil {
			return domain.EnrichmentResult{}, ctx.Err()
		}
	}

	return domain.NotFoundResult(name, domain.NoEmailsSource(site.URL)), nil
}
