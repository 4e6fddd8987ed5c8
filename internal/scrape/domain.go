package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"enrich-engine/internal/domain"
	"enrich-engine/internal/scrape/types"
	"enrich-engine/internal/scrape/util"
)

// QueryTemplates are tried in order against the primary search engine.
var QueryTemplates = []string{
	`"%s" website`,
	`%s official site`,
	`%s company website`,
	`%s`,
}

const fallbackTemplate = `%s official website`

// WebsiteCache stores previous resolutions keyed by cleaned company name.
type WebsiteCache interface {
	GetCompanyWebsite(ctx context.Context, company string, maxAge time.Duration) (website, strategy string, err error)
	UpsertCompanyWebsite(ctx context.Context, company, website, strategy string) error
}

type ResolverOptions struct {
	Primary  types.Searcher
	Fallback types.Searcher // optional
	Filter   CandidateFilter

	QueryDelay time.Duration
	Pace       types.Pacer

	Cache    WebsiteCache // optional
	CacheTTL time.Duration

	Logger types.Logger
}

// WebsiteResolver finds a company's website by scraping search results.
// The first valid link in strategy order wins; there is no ranking.
type WebsiteResolver struct {
	opts ResolverOptions
	log  types.Logger
}

func NewWebsiteResolver(opts ResolverOptions) *WebsiteResolver {
	if opts.Pace == nil {
		opts.Pace = types.Sleep
	}
	if opts.Filter.Excluded == nil {
		opts.Filter = NewCandidateFilter(nil)
	}
	return &WebsiteResolver{opts: opts, log: types.OrDefault(opts.Logger)}
}

// ResolveCompany cleans a raw company name and resolves it.
func (r *WebsiteResolver) ResolveCompany(ctx context.Context, company string) (*domain.WebsiteCandidate, error) {
	name, ok := util.CleanCompanyName(company)
	if !ok {
		return nil, nil
	}
	return r.Resolve(ctx, name)
}

// Resolve takes an already cleaned name. A nil candidate with nil error
// means no strategy produced a website.
func (r *WebsiteResolver) Resolve(ctx context.Context, name string) (*domain.WebsiteCandidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	if c := r.fromCache(ctx, name); c != nil {
		return c, nil
	}

	c, err := r.searchPrimary(ctx, name)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c, err = r.searchFallback(ctx, name)
		if err != nil {
			return nil, err
		}
	}
	if c == nil {
		return nil, nil
	}

	r.remember(ctx, name, c)
	return c, nil
}

func (r *WebsiteResolver) searchPrimary(ctx context.Context, name string) (*domain.WebsiteCandidate, error) {
	if r.opts.Primary == nil {
		return nil, nil
	}
	for i, tmpl := range QueryTemplates {
		if i > 0 {
			if err := r.opts.Pace(ctx, r.opts.QueryDelay); err != nil {
				return nil, err
			}
		}

		q := fmt.Sprintf(tmpl, name)
		links, err := r.opts.Primary.Search(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.log.Printf("[resolve] search failed engine=%s query=%q err=%v", r.opts.Primary.Name(), q, err)
			continue
		}
		if link, ok := r.opts.Filter.First(links); ok {
			return &domain.WebsiteCandidate{
				URL:      normalizeWebsite(link),
				Strategy: domain.StrategyPrimary,
				Query:    q,
			}, nil
		}
	}
	return nil, nil
}

func (r *WebsiteResolver) searchFallback(ctx context.Context, name string) (*domain.WebsiteCandidate, error) {
	if r.opts.Fallback == nil {
		return nil, nil
	}
	if err := r.opts.Pace(ctx, r.opts.QueryDelay); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(fallbackTemplate, name)
	links, err := r.opts.Fallback.Search(ctx, q)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.log.Printf("[resolve] fallback failed engine=%s query=%q err=%v", r.opts.Fallback.Name(), q, err)
		return nil, nil
	}
	link, ok := r.opts.Filter.First(links)
	if !ok {
		return nil, nil
	}
	return &domain.WebsiteCandidate{
		URL:      normalizeWebsite(link),
		Strategy: domain.StrategyFallback,
		Query:    q,
	}, nil
}

func (r *WebsiteResolver) fromCache(ctx context.Context, name string) *domain.WebsiteCandidate {
	if r.opts.Cache == nil {
		return nil
	}
	website, _, err := r.opts.Cache.GetCompanyWebsite(ctx, cacheKey(name), r.opts.CacheTTL)
	if err != nil {
		r.log.Printf("[resolve] cache read failed company=%q err=%v", name, err)
		return nil
	}
	if website == "" {
		return nil
	}
	return &domain.WebsiteCandidate{URL: website, Strategy: domain.StrategyCache}
}

func (r *WebsiteResolver) remember(ctx context.Context, name string, c *domain.WebsiteCandidate) {
	if r.opts.Cache == nil {
		return
	}
	if err := r.opts.Cache.UpsertCompanyWebsite(ctx, cacheKey(name), c.URL, c.Strategy); err != nil {
		r.log.Printf("[resolve] cache write failed company=%q err=%v", name, err)
	}
}

func cacheKey(name string) string {
	return strings.ToLower(util.CleanText(name))
}
