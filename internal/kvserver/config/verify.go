// Package config defines the store server's configuration structure.
package config

import (
	"errors"
	"os"
)

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyAdmin(&cfg.Admin); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifyPool(&cfg.Pool); err != nil {
		return err
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if cfg.Addr == "" {
		return errors.New("server.addr is required")
	}
	return nil
}

func verifyAdmin(cfg *AdminSection) error {
	if cfg.Addr == "" {
		return errors.New("admin.addr is required")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if cfg.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}

	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return errors.New("cannot create data directory: " + err.Error())
	}

	switch cfg.Engine {
	case "", "kvs", "sled":
	default:
		return errors.New("storage.engine must be one of \"kvs\", \"sled\", or empty")
	}

	if cfg.CompactionThreshold < 0 {
		return errors.New("storage.compaction_threshold must not be negative")
	}

	return nil
}

func verifyPool(cfg *PoolSection) error {
	switch cfg.Kind {
	case "shared", "conc", "naive":
	default:
		return errors.New("pool.kind must be one of \"shared\", \"conc\", \"naive\"")
	}

	if cfg.Kind != "naive" && cfg.Size < 1 {
		return errors.New("pool.size must be at least 1")
	}

	if cfg.Kind == "shared" && cfg.QueueDepth < 1 {
		return errors.New("pool.queue_depth must be at least 1")
	}

	return nil
}
