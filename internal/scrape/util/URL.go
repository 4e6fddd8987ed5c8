package util

import (
	"net/url"
	"sort"
	"strings"
)

// CanonicalizeURL lowercases scheme/host, drops the fragment and common
// tracking params, and sorts the remaining query.
func CanonicalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") ||
			lk == "gclid" || lk == "fbclid" || lk == "msclkid" ||
			lk == "mc_cid" || lk == "mc_eid" ||
			lk == "mkt_tok" {
			q.Del(k)
		}
	}

	// deterministic query
	for k := range q {
		vals := q[k]
		sort.Strings(vals)
		q[k] = vals
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// SegmentHost returns the third "/"-delimited segment of raw, lowercased.
// For "https://acme.io/contact" that is "acme.io". Port and userinfo are
// kept as-is, which matches how the segment is compared against addresses.
func SegmentHost(raw string) string {
	parts := strings.Split(raw, "/")
	if len(parts) < 3 {
		return ""
	}
	return strings.ToLower(parts[2])
}

// Hostname parses raw and returns its lowercased hostname without port.
func Hostname(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// IsBlockedDomain reports whether host is, or is a subdomain of, any entry in blocked.
func IsBlockedDomain(host string, blocked []string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, b := range blocked {
		b = strings.ToLower(strings.TrimSpace(b))
		if b == "" {
			continue
		}
		if host == b || strings.HasSuffix(host, "."+b) {
			return true
		}
	}
	return false
}

// SiteRoot strips query, fragment and trailing slashes so paths can be appended.
func SiteRoot(website string) string {
	s := strings.TrimSpace(website)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, "/")
}

// JoinPath appends path (with or without a leading slash) to the site root.
func JoinPath(website, path string) string {
	return SiteRoot(website) + "/" + strings.TrimLeft(path, "/")
}

// DecodeDDGRedirect unwraps DuckDuckGo "/l/?uddg=<dest>" links. Any other
// href is returned as is. Protocol-relative links get an https scheme.
func DecodeDDGRedirect(href string) string {
	href = withScheme(href)
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if uddg := u.Query().Get("uddg"); uddg != "" {
		return uddg
	}
	return href
}

// DecodeGoogleRedirect unwraps Google "/url?q=<dest>" (or url=) links.
func DecodeGoogleRedirect(href string) string {
	href = withScheme(href)
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if strings.HasSuffix(u.Path, "/url") || u.Path == "url" {
		q := u.Query()
		if dest := q.Get("q"); dest != "" {
			return dest
		}
		if dest := q.Get("url"); dest != "" {
			return dest
		}
	}
	return href
}

func withScheme(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	return href
}
