package scrape

import (
	"strings"

	"enrich-engine/internal/scrape/util"
)

// normalizeWebsite trims a resolved link for use as a page label and a base
// for contact paths. Tracking params and fragments are dropped; the path is
// kept because some companies live under a subpath.
func normalizeWebsite(link string) string {
	c := util.CanonicalizeURL(link)
	if c == "" {
		return strings.TrimSpace(link)
	}
	return c
}
