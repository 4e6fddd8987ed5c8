package httpapi

import (
	"sync/atomic"

	"enrich-engine/internal/batch"
	"enrich-engine/internal/config"
	"enrich-engine/internal/events"
	"enrich-engine/internal/scrape/types"
	"enrich-engine/internal/store"
)

type Deps struct {
	Store *store.DB

	Hub *events.Hub

	Batches *batch.Manager

	// Enricher returns the pipeline built from the current config.
	Enricher func() types.Enricher

	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
	// OnConfig is called after a successful PUT /config with the reloaded config.
	OnConfig func(config.Config)

	Logger types.Logger
}

func (d Deps) config() config.Config {
	if d.CfgVal == nil {
		return config.Default()
	}
	if cfg, ok := d.CfgVal.Load().(config.Config); ok {
		return cfg
	}
	return config.Default()
}
