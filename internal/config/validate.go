package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus any problems found.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string, lower bool) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			if lower {
				x = key
			}
			ys = append(ys, x)
		}
		return ys
	}

	out.Search.ExcludedDomains = trimList(out.Search.ExcludedDomains, true)
	out.Enrich.ContactPaths = trimList(out.Enrich.ContactPaths, false)
	for i, p := range out.Enrich.ContactPaths {
		if !strings.HasPrefix(p, "/") {
			out.Enrich.ContactPaths[i] = "/" + p
		}
	}
	out.Enrich.TieBreak = strings.ToLower(strings.TrimSpace(out.Enrich.TieBreak))
	if out.Enrich.TieBreak == "" {
		out.Enrich.TieBreak = "first_seen"
	}
	out.HTTP.UserAgent = strings.TrimSpace(out.HTTP.UserAgent)

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.HTTP.UserAgent == "" {
		res.addErr("http.user_agent is required")
	}
	if out.HTTP.TimeoutSeconds <= 0 {
		res.addErr("http.timeout_seconds must be > 0")
	} else if out.HTTP.TimeoutSeconds > 120 {
		res.addWarn("http.timeout_seconds is very high (%d); a single dead site will stall a worker.", out.HTTP.TimeoutSeconds)
	}
	if out.HTTP.MaxBodyBytes <= 0 {
		res.addErr("http.max_body_bytes must be > 0")
	}

	if out.RateLimit.PerHostRPS <= 0 {
		res.addErr("rate_limit.per_host_rps must be > 0")
	} else if out.RateLimit.PerHostRPS > 5 {
		res.addWarn("rate_limit.per_host_rps is high (%.1f) and search engines may block you.", out.RateLimit.PerHostRPS)
	}
	if out.RateLimit.Burst <= 0 {
		res.addErr("rate_limit.burst must be > 0")
	}

	if out.Pacing.QueryDelayMS < 0 || out.Pacing.ProbeDelayMS < 0 || out.Pacing.CompanyDelayMS < 0 {
		res.addErr("pacing delays must be >= 0")
	}
	if out.Pacing.QueryDelayMS < 500 {
		res.addWarn("pacing.query_delay_ms is low (%d) and may trigger search engine throttling.", out.Pacing.QueryDelayMS)
	}

	for _, raw := range []struct{ key, val string }{
		{"search.primary_url", out.Search.PrimaryURL},
		{"search.fallback_url", out.Search.FallbackURL},
	} {
		if raw.val == "" {
			if raw.key == "search.primary_url" {
				res.addErr("%s is required", raw.key)
			}
			continue
		}
		u, err := url.Parse(raw.val)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			res.addErr("%s must be an absolute http(s) URL", raw.key)
		}
	}

	if out.Enrich.Workers <= 0 {
		res.addErr("enrich.workers must be > 0")
	} else if out.Enrich.Workers > 16 {
		res.addWarn("enrich.workers is %d; per-host limits still apply so extra workers mostly wait.", out.Enrich.Workers)
	}
	if out.Enrich.MaxCompanies < 0 {
		res.addErr("enrich.max_companies must be >= 0 (0 = unlimited)")
	}
	if len(out.Enrich.ContactPaths) == 0 {
		res.addWarn("enrich.contact_paths is empty; only main pages will be scanned.")
	}
	switch out.Enrich.TieBreak {
	case "first_seen", "lexical":
	default:
		res.addErr("enrich.tie_break must be first_seen or lexical")
	}

	if out.Cache.Enabled && out.Cache.TTLHours <= 0 {
		res.addErr("cache.ttl_hours must be > 0 when cache is enabled")
	}
	if out.Batches.RetentionHours <= 0 {
		res.addErr("batches.retention_hours must be > 0")
	}

	return out, res
}
