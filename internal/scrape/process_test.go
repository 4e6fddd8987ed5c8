package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"enrich-engine/internal/domain"
	email_scrape "enrich-engine/internal/scrape/email"
	"enrich-engine/internal/scrape/fetch"
	"enrich-engine/internal/scrape/search"
	"enrich-engine/internal/scrape/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticResolver struct {
	site *domain.WebsiteCandidate
	err  error
	got  []string
}

func (s *staticResolver) Resolve(_ context.Context, name string) (*domain.WebsiteCandidate, error) {
	s.got = append(s.got, name)
	return s.site, s.err
}

type panickyResolver struct{}

func (panickyResolver) Resolve(context.Context, string) (*domain.WebsiteCandidate, error) {
	panic("selector exploded")
}

func newTestPipeline(res types.Resolver, f *fakeFetcher) *Pipeline {
	scanner := newScanner(f)
	prober := NewContactPageProber(scanner, ProberOptions{Pace: types.NoWait})
	return NewPipeline(res, scanner, prober, discard)
}

func TestEnrichMainPage(t *testing.T) {
	res := &staticResolver{site: &domain.WebsiteCandidate{URL: "https://acme.com", Strategy: domain.StrategyPrimary}}
	f := &fakeFetcher{pages: map[string]string{
		"https://acme.com": "<p>info@acme.com</p><p>noreply@acme.com</p>",
	}}

	got := newTestPipeline(res, f).Enrich(context.Background(), "Acme Inc")
	assert.Equal(t, domain.EnrichmentResult{
		FoundEmail:           "info@acme.com",
		EmailSource:          "Main page: https://acme.com",
		ProcessedCompanyName: "Acme",
	}, got)
	assert.Equal(t, []string{"Acme"}, res.got)
}

func TestEnrichContactFallback(t *testing.T) {
	res := &staticResolver{site: &domain.WebsiteCandidate{URL: "https://acme.com"}}
	f := &fakeFetcher{pages: map[string]string{
		"https://acme.com":         "<p>nothing here but noreply@acme.com</p>",
		"https://acme.com/contact": "<p>sales@acme.com</p>",
		"https://acme.com/about":   "<p>ceo@acme.com</p>",
	}}

	got := newTestPipeline(res, f).Enrich(context.Background(), "Acme Inc")
	assert.Equal(t, "sales@acme.com", got.FoundEmail)
	assert.Equal(t, "Contact page: https://acme.com/contact", got.EmailSource)
	assert.Equal(t, []string{"https://acme.com", "https://acme.com/contact"}, f.hits)
}

func TestEnrichNoWebsite(t *testing.T) {
	got := newTestPipeline(&staticResolver{}, &fakeFetcher{}).Enrich(context.Background(), "Ghost LLC")
	assert.Equal(t, domain.EnrichmentResult{
		FoundEmail:           "Not found",
		EmailSource:          "No website found",
		ProcessedCompanyName: "Ghost",
	}, got)
}

func TestEnrichNoEmails(t *testing.T) {
	res := &staticResolver{site: &domain.WebsiteCandidate{URL: "https://acme.com/"}}
	f := &fakeFetcher{pages: map[string]string{"https://acme.com/": "<p>hello</p>"}}

	got := newTestPipeline(res, f).Enrich(context.Background(), "Acme")
	assert.Equal(t, "Not found", got.FoundEmail)
	assert.Equal(t, "No emails found on https://acme.com/", got.EmailSource)
	// homepage plus every contact path, each failure swallowed
	assert.Len(t, f.hits, 1+len(DefaultContactPaths))
	assert.Equal(t, "https://acme.com/contact", f.hits[1])
}

func TestEnrichEmptyName(t *testing.T) {
	res := &staticResolver{}
	got := newTestPipeline(res, &fakeFetcher{}).Enrich(context.Background(), "  ")
	assert.Equal(t, domain.EnrichmentResult{FoundEmail: "Not found"}, got)
	assert.Empty(t, res.got)
}

func TestEnrichResolverErrorBecomesResult(t *testing.T) {
	res := &staticResolver{err: fmt.Errorf("search: %w", context.DeadlineExceeded)}
	got := newTestPipeline(res, &fakeFetcher{}).Enrich(context.Background(), "Acme")
	assert.Equal(t, "Not found", got.FoundEmail)
	assert.Equal(t, "Error: search: context deadline exceeded", got.EmailSource)
}

func TestEnrichRecoversPanic(t *testing.T) {
	got := newTestPipeline(panickyResolver{}, &fakeFetcher{}).Enrich(context.Background(), "Acme")
	assert.Equal(t, domain.NotFoundResult("Acme", "Error: selector exploded"), got)
}

func TestContactProberPacesBetweenAttempts(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://acme.com/team": "<p>team@acme.com</p>",
	}}
	p := &pauses{}
	prober := NewContactPageProber(newScanner(f), ProberOptions{
		Paths:      []string{"/contact", "/about", "/team", "/help"},
		ProbeDelay: 500 * time.Millisecond,
		Pace:       p.pace,
	})

	email, source, ok := prober.Probe(context.Background(), "https://acme.com/")
	require.True(t, ok)
	assert.Equal(t, "team@acme.com", email)
	assert.Equal(t, "Contact page: https://acme.com/team", source)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 500 * time.Millisecond}, p.d)
}

func TestContactProberStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &fakeFetcher{}
	prober := NewContactPageProber(newScanner(f), ProberOptions{Pace: types.Sleep})

	_, _, ok := prober.Probe(ctx, "https://acme.com")
	assert.False(t, ok)
	assert.Len(t, f.hits, 1)
}

// End to end over real HTTP: fake search page, fake company site.
func TestPipelineOverHTTP(t *testing.T) {
	site := http.NewServeMux()
	site.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><body>Welcome. <a href="mailto:noreply@example.com">x</a></body></html>`)
	})
	site.HandleFunc("/contact-us", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><a href="mailto:hello@acme.test">Email us</a></body></html>`)
	})
	siteSrv := httptest.NewServer(site)
	defer siteSrv.Close()

	ddg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if !strings.Contains(q, "official site") {
			fmt.Fprint(w, `<html><body>No results.</body></html>`)
			return
		}
		fmt.Fprintf(w, `<html><body><a href="https://duckduckgo.com/about">About</a><a href="%s/">Acme</a></body></html>`, siteSrv.URL)
	}))
	defer ddg.Close()

	f := fetch.New(fetch.Options{Timeout: 2 * time.Second, Logger: discard})
	resolver := NewWebsiteResolver(ResolverOptions{
		Primary: search.NewDDGLite(ddg.URL+"/lite/", f),
		// the local site is a bare IP, only the search host needs excluding
		Filter: CandidateFilter{Excluded: []string{"duckduckgo.com"}},
		Pace:   types.NoWait,
		Logger: discard,
	})
	scanner := &PageScanner{
		Fetcher:   f,
		Extractor: email_scrape.NewExtractor(),
		Filter:    email_scrape.NewFilter(email_scrape.FilterOptions{}),
	}
	prober := NewContactPageProber(scanner, ProberOptions{Pace: types.NoWait})
	p := NewPipeline(resolver, scanner, prober, discard)

	got := p.Enrich(context.Background(), "Acme Corp")
	assert.Equal(t, "hello@acme.test", got.FoundEmail)
	assert.Equal(t, "Contact page: "+siteSrv.URL+"/contact-us", got.EmailSource)
	assert.Equal(t, "Acme", got.ProcessedCompanyName)
}
