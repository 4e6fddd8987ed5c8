package email_scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var reEmail = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// Extractor finds email addresses in raw page markup. It holds no state
// and is safe for concurrent use.
type Extractor struct{}

func NewExtractor() *Extractor { return &Extractor{} }

// Extract returns every address matched in body, deduplicated by exact
// string, in first-seen order.
func (Extractor) Extract(body string) []string {
	return dedupe(reEmail.FindAllString(body, -1))
}

// ExtractMailto returns the targets of mailto: links in body. Addresses
// are only kept if they also match the email pattern.
func (Extractor) ExtractMailto(body string) []string {
	if !strings.Contains(strings.ToLower(body), "mailto:") {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var out []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if len(href) < 7 || !strings.EqualFold(href[:7], "mailto:") {
			return
		}
		v := href[7:]
		if i := strings.Index(v, "?"); i >= 0 {
			v = v[:i]
		}
		// mailto:a@x.com,b@x.com
		for _, part := range strings.Split(v, ",") {
			if m := reEmail.FindString(strings.TrimSpace(part)); m != "" {
				out = append(out, m)
			}
		}
	})
	return dedupe(out)
}

// ExtractAll is Extract followed by any mailto targets not already found.
func (e Extractor) ExtractAll(body string) []string {
	return dedupe(append(e.Extract(body), e.ExtractMailto(body)...))
}
