package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"

	"enrich-engine/internal/config"
	"enrich-engine/internal/scrape/types"
	"enrich-engine/internal/scrape/util"

	"golang.org/x/net/html/charset"
	"golang.org/x/net/publicsuffix"
)

// ErrNonOK is wrapped by Fetch for any response outside 2xx.
var ErrNonOK = errors.New("non-2xx status")

const maxRedirects = 10

type Options struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
	Limiter      *util.HostLimiter
	Logger       types.Logger
	// Client replaces the built-in client (tests).
	Client *http.Client
}

func OptionsFromConfig(cfg config.Config, lim *util.HostLimiter, logger types.Logger) Options {
	return Options{
		UserAgent:    cfg.HTTP.UserAgent,
		Timeout:      cfg.FetchTimeout(),
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		Limiter:      lim,
		Logger:       logger,
	}
}

// Fetcher is the browser-like PageFetcher shared by search and page scans.
type Fetcher struct {
	client  *http.Client
	ua      string
	timeout time.Duration
	max     int64
	lim     *util.HostLimiter
	log     types.Logger
}

func New(opts Options) *Fetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = config.DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 5 << 20
	}
	client := opts.Client
	if client == nil {
		client = newClient()
	}
	return &Fetcher{
		client:  client,
		ua:      opts.UserAgent,
		timeout: opts.Timeout,
		max:     opts.MaxBodyBytes,
		lim:     opts.Limiter,
		log:     types.OrDefault(opts.Logger),
	}
}

func newClient() *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	c := &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("too many redirects (>%d)", maxRedirects)
			}
			return nil
		},
	}

	// some sites set a consent cookie on the first hop and redirect back
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err == nil {
		c.Jar = jar
	}
	return c
}

// Fetch returns the decoded body of url, or an error for network failures,
// timeouts and non-2xx responses. Failures are logged; there are no retries.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	body, status, err := f.Get(ctx, url)
	if err != nil {
		f.log.Printf("[fetch] failed url=%s err=%v", url, err)
		return "", err
	}
	if status < 200 || status > 299 {
		err = fmt.Errorf("%w: %d", ErrNonOK, status)
		f.log.Printf("[fetch] failed url=%s err=%v", url, err)
		return "", err
	}
	return body, nil
}

// Get performs one GET and returns the body regardless of status.
func (f *Fetcher) Get(ctx context.Context, url string) (string, int, error) {
	if err := f.lim.WaitURL(ctx, url); err != nil {
		return "", 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, err
	}
	setBrowserHeaders(req, f.ua)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	var r io.Reader = io.LimitReader(resp.Body, f.max)
	if dec, err := charset.NewReader(r, resp.Header.Get("Content-Type")); err == nil {
		r = dec
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return string(b), resp.StatusCode, nil
}

func setBrowserHeaders(req *http.Request, ua string) {
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
}
