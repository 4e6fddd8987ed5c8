package types

import (
	"context"
	"log"
	"time"

	"enrich-engine/internal/domain"
)

// Logger is satisfied by *log.Logger.
type Logger interface {
	Printf(format string, args ...any)
}

// OrDefault returns l, or the standard logger when l is nil.
func OrDefault(l Logger) Logger {
	if l == nil {
		return log.Default()
	}
	return l
}

// PageFetcher downloads a page body. Fetch fails on any non-2xx status.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	Get(ctx context.Context, url string) (body string, status int, err error)
}

// Searcher runs one query against one search backend and returns result
// links in page order.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string) ([]string, error)
}

// Resolver maps a cleaned company name to a website. A nil candidate with
// a nil error means nothing was found.
type Resolver interface {
	Resolve(ctx context.Context, name string) (*domain.WebsiteCandidate, error)
}

// Prober looks for an email on conventional sub-pages of a website.
type Prober interface {
	Probe(ctx context.Context, website string) (email, source string, ok bool)
}

// Enricher turns one company name into one result.
type Enricher interface {
	Enrich(ctx context.Context, name string) domain.EnrichmentResult
}

// Pacer sleeps for d unless ctx ends first.
type Pacer func(ctx context.Context, d time.Duration) error

func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoWait is a Pacer that never sleeps.
func NoWait(ctx context.Context, _ time.Duration) error { return ctx.Err() }

type BatchStatus struct {
	ID            string  `json:"id"`
	Filename      string  `json:"filename"`
	CompanyColumn string  `json:"company_column"`
	State         string  `json:"state"` // queued | running | done | failed | canceled
	Total         int     `json:"total"`
	Processed     int     `json:"processed"`
	EmailsFound   int     `json:"emails_found"`
	SuccessRate   float64 `json:"success_rate"`
	StartedAt     string  `json:"started_at"`
	FinishedAt    string  `json:"finished_at,omitempty"`
	LastError     string  `json:"last_error,omitempty"`
}
