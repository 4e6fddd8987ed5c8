package scrape

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	email_scrape "enrich-engine/internal/scrape/email"
)

var discard = log.New(io.Discard, "", 0)

type fakeSearcher struct {
	name    string
	results map[string][]string
	errs    map[string]error

	mu      sync.Mutex
	queries []string
}

func (f *fakeSearcher) Name() string { return f.name }

func (f *fakeSearcher) Search(_ context.Context, q string) ([]string, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if err := f.errs[q]; err != nil {
		return nil, err
	}
	return f.results[q], nil
}

var errNotFound = errors.New("404")

// fakeFetcher serves fixed bodies; unknown URLs fail like a 404.
type fakeFetcher struct {
	pages map[string]string

	mu   sync.Mutex
	hits []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	f.hits = append(f.hits, url)
	f.mu.Unlock()
	body, ok := f.pages[url]
	if !ok {
		return "", errNotFound
	}
	return body, nil
}

func (f *fakeFetcher) Get(ctx context.Context, url string) (string, int, error) {
	body, err := f.Fetch(ctx, url)
	if err != nil {
		return "", 404, nil
	}
	return body, 200, nil
}

type fakeCache struct {
	m      map[string]string
	writes int
}

func (c *fakeCache) GetCompanyWebsite(_ context.Context, company string, _ time.Duration) (string, string, error) {
	w := c.m[company]
	if w == "" {
		return "", "", nil
	}
	return w, "primary", nil
}

func (c *fakeCache) UpsertCompanyWebsite(_ context.Context, company, website, _ string) error {
	if c.m == nil {
		c.m = map[string]string{}
	}
	c.m[company] = website
	c.writes++
	return nil
}

type pauses struct {
	mu sync.Mutex
	d  []time.Duration
}

func (p *pauses) pace(ctx context.Context, d time.Duration) error {
	p.mu.Lock()
	p.d = append(p.d, d)
	p.mu.Unlock()
	return ctx.Err()
}

func newScanner(f *fakeFetcher) *PageScanner {
	return &PageScanner{
		Fetcher:   f,
		Extractor: email_scrape.NewExtractor(),
		Filter:    email_scrape.NewFilter(email_scrape.FilterOptions{}),
	}
}
