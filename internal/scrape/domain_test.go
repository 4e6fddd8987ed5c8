package scrape

import (
	"context"
	"errors"
	"testing"
	"time"

	"enrich-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateFilter(t *testing.T) {
	f := NewCandidateFilter(nil)

	tests := []struct {
		link string
		want bool
	}{
		{"https://acme.com", true},
		{"http://www.acme.co.uk/about", true},
		{"/lite/?q=acme", false},
		{"ftp://acme.com", false},
		{"https://www.facebook.com/acme", false},
		{"https://en.wikipedia.org/wiki/Acme", false},
		{"https://duckduckgo.com/?q=acme", false},
		{"https://localhost/", false},
		{"https://a.b/", false},
		{"https://a.bc/", true},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Accept(tt.link))
		})
	}
}

func TestResolverShortCircuits(t *testing.T) {
	primary := &fakeSearcher{
		name: "primary",
		results: map[string][]string{
			`"Acme" website`:     nil,
			`Acme official site`: {"/lite/next", "https://acme.com", "https://othersite.com"},
		},
	}
	p := &pauses{}
	r := NewWebsiteResolver(ResolverOptions{
		Primary:    primary,
		Fallback:   &fakeSearcher{name: "fallback"},
		QueryDelay: time.Second,
		Pace:       p.pace,
		Logger:     discard,
	})

	c, err := r.Resolve(context.Background(), "Acme")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "https://acme.com", c.URL)
	assert.Equal(t, domain.StrategyPrimary, c.Strategy)
	assert.Equal(t, "Acme official site", c.Query)
	assert.Equal(t, []string{`"Acme" website`, `Acme official site`}, primary.queries)
	// one pause between the failed first attempt and the second
	assert.Equal(t, []time.Duration{time.Second}, p.d)
}

func TestResolverSkipsExcludedAndInvalid(t *testing.T) {
	primary := &fakeSearcher{
		name: "primary",
		results: map[string][]string{
			`"Acme" website`: {
				"https://www.linkedin.com/company/acme",
				"https://m.facebook.com/acme",
				"javascript:void(0)",
				"https://www.acme.io/",
			},
		},
	}
	r := NewWebsiteResolver(ResolverOptions{Primary: primary, Pace: (&pauses{}).pace, Logger: discard})

	c, err := r.Resolve(context.Background(), "Acme")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "https://www.acme.io/", c.URL)
}

func TestResolverFallsBackOnce(t *testing.T) {
	primary := &fakeSearcher{
		name: "primary",
		errs: map[string]error{`"Acme" website`: errors.New("status 403")},
	}
	fallback := &fakeSearcher{
		name: "fallback",
		results: map[string][]string{
			"Acme official website": {"https://en.wikipedia.org/wiki/Acme", "https://acme.com/"},
		},
	}
	p := &pauses{}
	r := NewWebsiteResolver(ResolverOptions{Primary: primary, Fallback: fallback, Pace: p.pace, Logger: discard})

	c, err := r.Resolve(context.Background(), "Acme")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "https://acme.com/", c.URL)
	assert.Equal(t, domain.StrategyFallback, c.Strategy)
	assert.Len(t, primary.queries, len(QueryTemplates))
	assert.Equal(t, []string{"Acme official website"}, fallback.queries)
	assert.Len(t, p.d, len(QueryTemplates))
}

func TestResolverNothingFound(t *testing.T) {
	r := NewWebsiteResolver(ResolverOptions{
		Primary:  &fakeSearcher{name: "primary"},
		Fallback: &fakeSearcher{name: "fallback"},
		Pace:     (&pauses{}).pace,
		Logger:   discard,
	})

	c, err := r.Resolve(context.Background(), "Nobody")
	assert.NoError(t, err)
	assert.Nil(t, c)

	c, err = r.Resolve(context.Background(), "   ")
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestResolverCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewWebsiteResolver(ResolverOptions{
		Primary: &fakeSearcher{name: "primary"},
		Logger:  discard,
	})
	_, err := r.Resolve(ctx, "Acme")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveCompanyCleansName(t *testing.T) {
	primary := &fakeSearcher{
		name:    "primary",
		results: map[string][]string{`"Acme" website`: {"https://acme.com"}},
	}
	r := NewWebsiteResolver(ResolverOptions{Primary: primary, Pace: (&pauses{}).pace, Logger: discard})

	c, err := r.ResolveCompany(context.Background(), "Acme Inc")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "https://acme.com", c.URL)

	c, err = r.ResolveCompany(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestResolverUsesCache(t *testing.T) {
	primary := &fakeSearcher{
		name:    "primary",
		results: map[string][]string{`"Acme" website`: {"https://acme.com"}},
	}
	cache := &fakeCache{}
	r := NewWebsiteResolver(ResolverOptions{Primary: primary, Cache: cache, Pace: (&pauses{}).pace, Logger: discard})

	c, err := r.Resolve(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyPrimary, c.Strategy)
	assert.Equal(t, 1, cache.writes)

	c, err = r.Resolve(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyCache, c.Strategy)
	assert.Equal(t, "https://acme.com", c.URL)
	assert.Len(t, primary.queries, 1)
}

func TestResolverCanonicalizesWebsite(t *testing.T) {
	primary := &fakeSearcher{
		name: "primary",
		results: map[string][]string{
			`"Acme" website`: {"https://WWW.Acme.com/en?utm_source=ddg&b=2&a=1#top"},
		},
	}
	r := NewWebsiteResolver(ResolverOptions{Primary: primary, Pace: (&pauses{}).pace, Logger: discard})

	c, err := r.Resolve(context.Background(), "Acme")
	require.NoError(t, err)
	require.NotNil(t, c)
	// host lowercased, tracking params and fragment dropped, query sorted, path kept
	assert.Equal(t, "https://www.acme.com/en?a=1&b=2", c.URL)
}
