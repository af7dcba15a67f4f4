// Package main provides the entry point for kvs-server.
//
// kvs-server is the store's TCP front end: it accepts client
// connections speaking the line-oriented key/value protocol and
// dispatches each request to an embedded storage engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/yndnr/kvs/internal/infra/buildinfo"
	"github.com/yndnr/kvs/internal/infra/confloader"
	"github.com/yndnr/kvs/internal/infra/shutdown"
	"github.com/yndnr/kvs/internal/kvserver"
	"github.com/yndnr/kvs/internal/kvserver/admin"
	"github.com/yndnr/kvs/internal/kvserver/config"
	"github.com/yndnr/kvs/internal/pool"
	"github.com/yndnr/kvs/internal/storage"
	"github.com/yndnr/kvs/internal/storage/badgerstore"
	"github.com/yndnr/kvs/internal/storage/kvsstore"
	"github.com/yndnr/kvs/internal/telemetry/logger"
	"github.com/yndnr/kvs/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		addr        = flag.String("addr", "", "Command protocol listen address (overrides config)")
		engineFlag  = flag.String("engine", "", "Storage backend: kvs or sled (overrides config)")
		dataDir     = flag.String("data-dir", "", "Storage data directory (overrides config)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile, *addr, *engineFlag, *dataDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	engine, err := storage.ResolveEngine(cfg.Storage.DataDir, cfg.Storage.Engine)
	if err != nil {
		return fmt.Errorf("resolve engine: %w", err)
	}

	log.Info("starting kvs-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"engine", engine,
		"addr", cfg.Server.Addr,
	)

	metrics := metric.NewRegistry()

	store, statsFunc, err := openStore(cfg, engine, log, metrics)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if statsFunc != nil {
		if err := metrics.RegisterCollector(metric.NewCollector(statsFunc)); err != nil {
			log.Warn("failed to register engine stats collector", "error", err)
		}
	}

	workerPool, err := newPool(cfg.Pool, log)
	if err != nil {
		store.Close()
		return fmt.Errorf("init pool: %w", err)
	}

	srv, err := kvserver.New(kvserver.Config{
		Addr:    cfg.Server.Addr,
		Store:   store,
		Pool:    workerPool,
		Logger:  log,
		Metrics: metrics,
	})
	if err != nil {
		workerPool.Close()
		store.Close()
		return fmt.Errorf("init server: %w", err)
	}

	adminSrv := admin.New(admin.Config{
		Addr:    cfg.Admin.Addr,
		Metrics: metrics,
		Logger:  log,
	})

	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("closing storage engine")
		return store.Close()
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("draining worker pool")
		return workerPool.Close()
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down admin server")
		return adminSrv.Shutdown(ctx)
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down command server")
		return srv.Close()
	})

	go func() {
		log.Info("admin listening", "addr", cfg.Admin.Addr)
		if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("admin server error", "error", err)
		}
	}()

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Error("command server error", "error", err)
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file, environment, and the
// flags that this command exposes directly, validating the result.
func loadConfig(configFile, addr, engine, dataDir string) (*config.Config, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if addr != "" {
		cfg.Server.Addr = addr
	}
	if engine != "" {
		cfg.Storage.Engine = engine
	}
	if dataDir != "" {
		cfg.Storage.DataDir = dataDir
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// openStore opens the storage backend pinned to engine and, for the
// kvs backend, returns a metric.EngineStatsFunc the caller can wire
// into a Collector. Badger manages its own internal metrics, so the
// returned func is nil for that backend.
func openStore(cfg *config.Config, engine string, log logger.Logger, metrics *metric.Registry) (storage.Handle, metric.EngineStatsFunc, error) {
	switch engine {
	case storage.Kvs:
		store, err := kvsstore.Open(kvsstore.Config{
			Dir:                 cfg.Storage.DataDir,
			CompactionThreshold: cfg.Storage.CompactionThreshold,
			Logger:              log,
			Metrics:             kvserver.NewEngineMetricsAdapter(metrics),
		})
		if err != nil {
			return nil, nil, err
		}
		statsFunc := func() metric.EngineStats {
			keys, stale, bytes := store.Stats()
			return metric.EngineStats{KeysTotal: keys, StaleBytes: stale, StorageBytes: bytes}
		}
		return store, statsFunc, nil

	case storage.Badger:
		store, err := badgerstore.Open(badgerstore.Config{
			Dir:            cfg.Storage.DataDir,
			Logger:         log,
			GCInterval:     300,
			GCDiscardRatio: 0.5,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown engine %q", engine)
	}
}

// newPool builds the worker pool selected by cfg.Kind.
func newPool(cfg config.PoolSection, log logger.Logger) (pool.Pool, error) {
	switch cfg.Kind {
	case "shared":
		return pool.NewSharedQueue(cfg.Size, cfg.QueueDepth, log), nil
	case "conc":
		return pool.NewConcPool(cfg.Size, log), nil
	case "naive":
		return pool.NewNaive(), nil
	default:
		return nil, fmt.Errorf("unknown pool kind %q", cfg.Kind)
	}
}
