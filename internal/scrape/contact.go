package scrape

import (
	"context"
	"time"

	"enrich-engine/internal/domain"
	"enrich-engine/internal/scrape/types"
	"enrich-engine/internal/scrape/util"
)

// DefaultContactPaths are probed in order when a homepage yields nothing.
var DefaultContactPaths = []string{
	"/contact", "/contact-us", "/contactus", "/contact_us",
	"/about", "/about-us", "/aboutus", "/about_us",
	"/team", "/staff", "/people",
	"/info", "/information",
	"/support", "/help",
}

type ProberOptions struct {
	Paths      []string
	ProbeDelay time.Duration
	Pace       types.Pacer
}

// ContactPageProber walks conventional sub-pages of a site until one of
// them yields an accepted address.
type ContactPageProber struct {
	scanner *PageScanner
	paths   []string
	delay   time.Duration
	pace    types.Pacer
}

func NewContactPageProber(scanner *PageScanner, opts ProberOptions) *ContactPageProber {
	if opts.Paths == nil {
		opts.Paths = DefaultContactPaths
	}
	if opts.Pace == nil {
		opts.Pace = types.Sleep
	}
	return &ContactPageProber{
		scanner: scanner,
		paths:   opts.Paths,
		delay:   opts.ProbeDelay,
		pace:    opts.Pace,
	}
}

// Probe returns the first accepted address and its "Contact page: <url>"
// label. Per-page failures are skipped.
func (p *ContactPageProber) Probe(ctx context.Context, website string) (string, string, bool) {
	for i, path := range p.paths {
		if i > 0 {
			if err := p.pace(ctx, p.delay); err != nil {
				return "", "", false
			}
		}

		u := util.JoinPath(website, path)
		email, ok, err := p.scanner.Scan(ctx, u)
		if err != nil {
			continue
		}
		if ok {
			return email, domain.ContactPageSource(u), true
		}
	}
	return "", "", false
}
