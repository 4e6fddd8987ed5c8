package search

import (
	"context"
	"fmt"
	"strings"

	"enrich-engine/internal/scrape/types"
	"enrich-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

const DefaultGoogleURL = "https://www.google.com/search"

// Google scrapes the full results page and returns only destinations that
// are wrapped in "/url?q=<dest>" redirect links.
type Google struct {
	Endpoint string
	Fetcher  types.PageFetcher
}

func NewGoogle(endpoint string, f types.PageFetcher) *Google {
	if endpoint == "" {
		endpoint = DefaultGoogleURL
	}
	return &Google{Endpoint: endpoint, Fetcher: f}
}

func (g *Google) Name() string { return "google" }

func (g *Google) Search(ctx context.Context, query string) ([]string, error) {
	u := withQuery(g.Endpoint, "q", query)

	body, status, err := g.Fetcher.Get(ctx, u)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("google: status %d", status)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, nil
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, "/url?q=") {
			return
		}
		dest := util.DecodeGoogleRedirect(href)
		if dest == href || !strings.HasPrefix(dest, "http") {
			return
		}
		links = append(links, dest)
	})
	return links, nil
}
