// config/overlay.go
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// OverlayEnv reads an optional .env file and applies ENRICH_* variables on
// top of cfg. Real environment variables win over the .env file.
func OverlayEnv(cfg *Config, dotenvPath string) error {
	dot := map[string]string{}
	if dotenvPath != "" {
		m, err := godotenv.Read(dotenvPath)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		if m != nil {
			dot = m
		}
	}
	env := func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(dot[key])
	}
	envInt := func(key string) (int, bool) {
		v := env(key)
		if v == "" {
			return 0, false
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	}

	if v := env("ENRICH_DATA_DIR"); v != "" {
		cfg.App.DataDir = v
	}
	if n, ok := envInt("ENRICH_PORT"); ok {
		cfg.App.Port = n
	}
	if n, ok := envInt("ENRICH_WORKERS"); ok {
		cfg.Enrich.Workers = n
	}
	if v := env("ENRICH_USER_AGENT"); v != "" {
		cfg.HTTP.UserAgent = v
	}
	if n, ok := envInt("ENRICH_TIMEOUT_SECONDS"); ok {
		cfg.HTTP.TimeoutSeconds = n
	}
	if n, ok := envInt("ENRICH_MAX_COMPANIES"); ok {
		cfg.Enrich.MaxCompanies = n
	}
	return nil
}
