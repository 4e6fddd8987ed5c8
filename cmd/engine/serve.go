package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"enrich-engine/internal/batch"
	"enrich-engine/internal/config"
	"enrich-engine/internal/events"
	"enrich-engine/internal/httpapi"
	"enrich-engine/internal/scheduler"
	"enrich-engine/internal/scrape/types"
	"enrich-engine/internal/store"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serves upload, download, batch status, single-company lookup, config and
SSE progress endpoints. Only one engine may serve a data dir at a time.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default 127.0.0.1:<app.port>)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, userCfgPath, err := loadConfig(dataDirFlag)
	if err != nil {
		return err
	}
	dataDir := cfg.App.DataDir

	lock := flock.New(filepath.Join(dataDir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", lock.Path(), err)
	}
	if !locked {
		return fmt.Errorf("another engine is already serving %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	db, err := store.OpenAndMigrate(filepath.Join(dataDir, dbFile))
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.Default()
	hub := events.NewHub()

	var cfgVal atomic.Value // stores config.Config
	cfgVal.Store(cfg)

	eng := buildEngine(cfg, db, logger)
	live := &liveEnricher{}
	live.p.Store(eng.pipeline)
	mgr := batch.NewManager(eng.runner, db, hub, logger)

	deps := httpapi.Deps{
		Store:       db,
		Hub:         hub,
		Batches:     mgr,
		Enricher:    func() types.Enricher { return live },
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     func() (config.Config, error) { return readConfig(userCfgPath, dataDir) },
		OnConfig: func(next config.Config) {
			e := buildEngine(next, db, logger)
			live.p.Store(e.pipeline)
			mgr.SetRunner(e.runner)
			log.Printf("[config] reloaded workers=%d rps=%.2f", next.Enrich.Workers, next.RateLimit.PerHostRPS)
		},
		Logger: logger,
	}

	go scheduler.Every(ctx, time.Hour, "cleanup", maintenance(db, mgr, &cfgVal, logger), logger)

	addr := serveAddr
	if addr == "" {
		addr = fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Printf("engine listening on http://%s (data=%s)", ln.Addr(), dataDir)

	srv := &http.Server{
		Handler:           httpapi.Handler(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Printf("[serve] shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[serve] shutdown: %v", err)
	}
	if err := db.Checkpoint(shutdownCtx); err != nil {
		log.Printf("[serve] checkpoint: %v", err)
	}
	return nil
}

// maintenance drops expired batch outputs and cache rows. Retention and
// TTL are read from the live config on every run.
func maintenance(db *store.DB, mgr *batch.Manager, cfgVal *atomic.Value, logger types.Logger) scheduler.Task {
	log := types.OrDefault(logger)
	return scheduler.Chain(
		func(ctx context.Context) error {
			retention := cfgVal.Load().(config.Config).BatchRetention()
			n, err := store.CleanupOldBatches(ctx, db.Pool, retention)
			if err != nil {
				return err
			}
			forgotten := mgr.Forget(retention)
			if n > 0 || forgotten > 0 {
				log.Printf("[cleanup] batches deleted=%d forgotten=%d", n, forgotten)
			}
			return nil
		},
		func(ctx context.Context) error {
			ttl := cfgVal.Load().(config.Config).CacheTTL()
			n, err := store.CleanupExpiredWebsites(ctx, db.Pool, ttl)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Printf("[cleanup] cached websites expired=%d", n)
			}
			return nil
		},
	)
}
