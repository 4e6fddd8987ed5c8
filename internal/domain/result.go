package domain

import "strings"

const (
	NotFound       = "Not found"
	NoWebsiteFound = "No website found"
)

// Strategy names recorded on a WebsiteCandidate.
const (
	StrategyPrimary  = "primary"
	StrategyFallback = "fallback"
	StrategyCache    = "cache"
)

// WebsiteCandidate is a URL believed to be a company's site, with the
// strategy and query that produced it.
type WebsiteCandidate struct {
	URL      string
	Strategy string
	Query    string
}

// EnrichmentResult is created once per company and never updated.
type EnrichmentResult struct {
	FoundEmail           string `json:"found_email"`
	EmailSource          string `json:"email_source"`
	ProcessedCompanyName string `json:"processed_company_name"`
}

func (r EnrichmentResult) Found() bool {
	return r.FoundEmail != "" && r.FoundEmail != NotFound
}

func NotFoundResult(name, source string) EnrichmentResult {
	return EnrichmentResult{
		FoundEmail:           NotFound,
		EmailSource:          source,
		ProcessedCompanyName: name,
	}
}

func FoundResult(name, email, source string) EnrichmentResult {
	return EnrichmentResult{
		FoundEmail:           strings.TrimSpace(email),
		EmailSource:          source,
		ProcessedCompanyName: name,
	}
}

func MainPageSource(url string) string    { return "Main page: " + url }
func ContactPageSource(url string) string { return "Contact page: " + url }
func NoEmailsSource(url string) string    { return "No emails found on " + url }
func ErrorSource(err error) string        { return "Error: " + err.Error() }
