package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"enrich-engine/internal/scrape/types"
	"enrich-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

const DefaultDDGLiteURL = "https://lite.duckduckgo.com/lite/"

// DDGLite scrapes the JavaScript-free DuckDuckGo results page. Every anchor
// on the page is returned; callers decide which ones look like a website.
type DDGLite struct {
	Endpoint string
	Fetcher  types.PageFetcher
}

func NewDDGLite(endpoint string, f types.PageFetcher) *DDGLite {
	if endpoint == "" {
		endpoint = DefaultDDGLiteURL
	}
	return &DDGLite{Endpoint: endpoint, Fetcher: f}
}

func (d *DDGLite) Name() string { return "ddg-lite" }

func (d *DDGLite) Search(ctx context.Context, query string) ([]string, error) {
	u := withQuery(d.Endpoint, "q", query)

	body, status, err := d.Fetcher.Get(ctx, u)
	if err != nil {
		return nil, err
	}
	if status != 200 {
		return nil, fmt.Errorf("ddg-lite: status %d", status)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, nil
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if strings.TrimSpace(href) == "" {
			return
		}
		links = append(links, util.DecodeDDGRedirect(href))
	})
	return links, nil
}

func withQuery(endpoint, key, value string) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + key + "=" + url.QueryEscape(value)
}
