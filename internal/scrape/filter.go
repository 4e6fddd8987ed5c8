package scrape

import (
	"strings"

	"enrich-engine/internal/scrape/util"
)

// DefaultExcludedDomains are search engines and large platforms whose pages
// are never a company's own website.
var DefaultExcludedDomains = []string{
	"duckduckgo.com",
	"google.com",
	"bing.com",
	"yahoo.com",
	"facebook.com",
	"twitter.com",
	"x.com",
	"linkedin.com",
	"instagram.com",
	"youtube.com",
	"wikipedia.org",
}

// CandidateFilter decides whether a search result link looks like a real website.
type CandidateFilter struct {
	Excluded []string
}

func NewCandidateFilter(excluded []string) CandidateFilter {
	if excluded == nil {
		excluded = DefaultExcludedDomains
	}
	return CandidateFilter{Excluded: excluded}
}

// Accept requires an http(s) link whose host is not excluded, contains a
// dot and is longer than three characters.
func (c CandidateFilter) Accept(link string) bool {
	if !strings.HasPrefix(link, "http") {
		return false
	}
	host := util.Hostname(link)
	if host == "" {
		return false
	}
	if util.IsBlockedDomain(host, c.Excluded) {
		return false
	}
	return strings.Contains(host, ".") && len(host) > 3
}

// First returns the first accepted link.
func (c CandidateFilter) First(links []string) (string, bool) {
	for _, l := range links {
		if c.Accept(l) {
			return l, true
		}
	}
	return "", false
}
