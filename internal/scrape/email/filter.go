package email_scrape

import (
	"sort"
	"strings"

	"enrich-engine/internal/scrape/util"

	"golang.org/x/net/publicsuffix"
)

// DefaultBlocklist marks placeholder and unattended mailboxes.
var DefaultBlocklist = []string{
	"example.com",
	"test.com",
	"placeholder",
	"yoursite",
	"yourdomain",
	"sampleemail",
	"noreply",
	"no-reply",
	"donotreply",
	"do-not-reply",
	"admin@admin",
	"test@test",
	"user@user",
	"email@email",
	"support@example",
	"info@example",
	"contact@example",
}

const (
	TieBreakFirstSeen = "first_seen"
	TieBreakLexical   = "lexical"
)

type FilterOptions struct {
	// Strict requires the address and the page to share a registrable
	// domain (eTLD+1) instead of accepting any multi-label domain.
	Strict   bool
	TieBreak string
	// Blocklist defaults to DefaultBlocklist when nil.
	Blocklist []string
}

type Filter struct {
	strict    bool
	lexical   bool
	blocklist []string
}

func NewFilter(opts FilterOptions) *Filter {
	bl := opts.Blocklist
	if bl == nil {
		bl = DefaultBlocklist
	}
	lower := make([]string, 0, len(bl))
	for _, b := range bl {
		if b = strings.ToLower(strings.TrimSpace(b)); b != "" {
			lower = append(lower, b)
		}
	}
	return &Filter{
		strict:    opts.Strict,
		lexical:   opts.TieBreak == TieBreakLexical,
		blocklist: lower,
	}
}

// Filter keeps the addresses that pass both the blocklist and the domain
// affinity check against sourceURL. The first element is the pick.
func (f *Filter) Filter(addresses []string, sourceURL string) []string {
	host := util.SegmentHost(sourceURL)

	var out []string
	for _, addr := range addresses {
		low := strings.ToLower(addr)
		if f.blocked(low) {
			continue
		}
		if !f.affine(domainOf(low), host) {
			continue
		}
		out = append(out, addr)
	}
	if f.lexical {
		sort.Strings(out)
	}
	return out
}

// First returns the chosen address, if any.
func (f *Filter) First(addresses []string, sourceURL string) (string, bool) {
	kept := f.Filter(addresses, sourceURL)
	if len(kept) == 0 {
		return "", false
	}
	return kept[0], true
}

func (f *Filter) blocked(lowerAddr string) bool {
	for _, b := range f.blocklist {
		if strings.Contains(lowerAddr, b) {
			return true
		}
	}
	return false
}

func (f *Filter) affine(emailDomain, host string) bool {
	if emailDomain == "" {
		return false
	}
	if host != "" && (strings.Contains(host, emailDomain) || strings.Contains(emailDomain, host)) {
		return true
	}
	if f.strict {
		return sameSite(emailDomain, host)
	}
	return len(strings.Split(emailDomain, ".")) >= 2
}

func sameSite(emailDomain, host string) bool {
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	a, err := publicsuffix.EffectiveTLDPlusOne(emailDomain)
	if err != nil {
		return false
	}
	b, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return false
	}
	return a == b
}
