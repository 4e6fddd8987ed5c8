// engine/internal/config/config.go
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	HTTP struct {
		UserAgent      string `yaml:"user_agent" json:"user_agent"`
		TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
		MaxBodyBytes   int64  `yaml:"max_body_bytes" json:"max_body_bytes"`
	} `yaml:"http" json:"http"`

	RateLimit struct {
		PerHostRPS float64 `yaml:"per_host_rps" json:"per_host_rps"`
		Burst      int     `yaml:"burst" json:"burst"`
	} `yaml:"rate_limit" json:"rate_limit"`

	Pacing struct {
		QueryDelayMS   int `yaml:"query_delay_ms" json:"query_delay_ms"`
		ProbeDelayMS   int `yaml:"probe_delay_ms" json:"probe_delay_ms"`
		CompanyDelayMS int `yaml:"company_delay_ms" json:"company_delay_ms"`
	} `yaml:"pacing" json:"pacing"`

	Search struct {
		PrimaryURL      string   `yaml:"primary_url" json:"primary_url"`
		FallbackURL     string   `yaml:"fallback_url" json:"fallback_url"`
		ExcludedDomains []string `yaml:"excluded_domains" json:"excluded_domains"`
	} `yaml:"search" json:"search"`

	Enrich struct {
		Workers              int      `yaml:"workers" json:"workers"`
		MaxCompanies         int      `yaml:"max_companies" json:"max_companies"`
		ContactPaths         []string `yaml:"contact_paths" json:"contact_paths"`
		StrictDomainAffinity bool     `yaml:"strict_domain_affinity" json:"strict_domain_affinity"`
		TieBreak             string   `yaml:"tie_break" json:"tie_break"` // first_seen | lexical
	} `yaml:"enrich" json:"enrich"`

	Cache struct {
		Enabled  bool `yaml:"enabled" json:"enabled"`
		TTLHours int  `yaml:"ttl_hours" json:"ttl_hours"`
	} `yaml:"cache" json:"cache"`

	Batches struct {
		RetentionHours int `yaml:"retention_hours" json:"retention_hours"`
	} `yaml:"batches" json:"batches"`
}

// Default mirrors config/config.yml.
func Default() Config {
	var cfg Config
	cfg.App.Port = 38471
	cfg.App.DataDir = "."

	cfg.HTTP.UserAgent = DefaultUserAgent
	cfg.HTTP.TimeoutSeconds = 10
	cfg.HTTP.MaxBodyBytes = 5 << 20

	cfg.RateLimit.PerHostRPS = 1.0
	cfg.RateLimit.Burst = 2

	cfg.Pacing.QueryDelayMS = 1000
	cfg.Pacing.ProbeDelayMS = 500
	cfg.Pacing.CompanyDelayMS = 2000

	cfg.Search.PrimaryURL = "https://lite.duckduckgo.com/lite/"
	cfg.Search.FallbackURL = "https://www.google.com/search"
	cfg.Search.ExcludedDomains = []string{
		"duckduckgo.com",
		"google.com",
		"bing.com",
		"yahoo.com",
		"facebook.com",
		"twitter.com",
		"x.com",
		"linkedin.com",
		"instagram.com",
		"youtube.com",
		"wikipedia.org",
	}

	cfg.Enrich.Workers = 4
	cfg.Enrich.ContactPaths = []string{
		"/contact", "/contact-us", "/contactus", "/contact_us",
		"/about", "/about-us", "/aboutus", "/about_us",
		"/team", "/staff", "/people",
		"/info", "/information",
		"/support", "/help",
	}
	cfg.Enrich.TieBreak = "first_seen"

	cfg.Cache.Enabled = false
	cfg.Cache.TTLHours = 24 * 30

	cfg.Batches.RetentionHours = 24
	return cfg
}

// Load reads a YAML file on top of Default, so missing keys keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

func (c Config) QueryDelay() time.Duration {
	return time.Duration(c.Pacing.QueryDelayMS) * time.Millisecond
}

func (c Config) ProbeDelay() time.Duration {
	return time.Duration(c.Pacing.ProbeDelayMS) * time.Millisecond
}

func (c Config) CompanyDelay() time.Duration {
	return time.Duration(c.Pacing.CompanyDelayMS) * time.Millisecond
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

func (c Config) BatchRetention() time.Duration {
	return time.Duration(c.Batches.RetentionHours) * time.Hour
}
