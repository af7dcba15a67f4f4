// Package kvsstore adapts the log-structured kvengine.Engine to the
// storage.Handle contract.
package kvsstore

import (
	"errors"
	"fmt"

	"github.com/yndnr/kvs/internal/kvengine"
	"github.com/yndnr/kvs/internal/storage"
	"github.com/yndnr/kvs/internal/telemetry/logger"
)

// Config configures a Store.
type Config struct {
	Dir                 string
	CompactionThreshold int64
	Logger              logger.Logger
	Metrics             kvengine.Metrics
}

// Store wraps an *kvengine.Engine.
type Store struct {
	engine *kvengine.Engine
}

// Open starts or recovers the engine rooted at cfg.Dir.
func Open(cfg Config) (*Store, error) {
	e, err := kvengine.Open(kvengine.Config{
		Dir:                 cfg.Dir,
		CompactionThreshold: cfg.CompactionThreshold,
		Logger:              cfg.Logger,
		Metrics:             cfg.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("kvsstore: open: %w", err)
	}
	return &Store{engine: e}, nil
}

func (s *Store) Get(key string) (string, bool, error) {
	return s.engine.Get(key)
}

func (s *Store) Set(key, value string) error {
	return s.engine.Set(key, value)
}

func (s *Store) Remove(key string) error {
	err := s.engine.Remove(key)
	if errors.Is(err, kvengine.ErrKeyNotFound) {
		return storage.ErrKeyNotFound
	}
	return err
}

func (s *Store) Close() error {
	return s.engine.Close()
}

// Stats returns a point-in-time snapshot of the engine's key count,
// stale-byte pressure, and on-disk footprint, for the metrics
// collector to sample on scrape.
func (s *Store) Stats() (keysTotal int64, staleBytes int64, storageBytes int64) {
	return int64(s.engine.Len()), s.engine.StaleBytes(), s.engine.StorageBytes()
}

var _ storage.Handle = (*Store)(nil)
