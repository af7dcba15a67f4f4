// Package badgerstore adapts github.com/dgraph-io/badger/v3 to the
// storage.Handle contract, as an alternate embedded-engine backend.
package badgerstore

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/hashicorp/go-hclog"

	"github.com/yndnr/kvs/internal/storage"
	"github.com/yndnr/kvs/internal/telemetry/logger"
)

// Config configures a Store.
type Config struct {
	Dir    string
	Logger logger.Logger

	// GCInterval and GCDiscardRatio are accepted but not used: Open
	// starts no value-log GC, so this Store never reclaims Badger
	// value-log files.
	GCInterval float64 // seconds

	GCDiscardRatio float64
}

// Store wraps a *badger.DB.
type Store struct {
	db *badger.DB
}

// Open opens or creates the Badger database rooted at cfg.Dir.
func Open(cfg Config) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("badgerstore: dir is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.Logger = &hclogAdapter{base: logger.AsHCLog(cfg.Logger.With("component", "badger"))}
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(key string) (string, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return "", false, fmt.Errorf("badgerstore: get: %w", err)
	}
	if value == nil {
		return "", false, nil
	}
	return string(value), true, nil
}

func (s *Store) Set(key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("badgerstore: set: %w", err)
	}
	return nil
}

func (s *Store) Remove(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrKeyNotFound
			}
			return err
		}
		return txn.Delete([]byte(key))
	})
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return storage.ErrKeyNotFound
		}
		return fmt.Errorf("badgerstore: remove: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

var _ storage.Handle = (*Store)(nil)

// hclogAdapter satisfies badger.Logger's printf-style interface by
// formatting onto an hclog.Logger, so Badger's internal diagnostics flow
// through the same logging backend as the rest of the process instead of
// badger's own default logger.
type hclogAdapter struct {
	base hclog.Logger
}

func (l *hclogAdapter) Errorf(f string, args ...interface{})   { l.base.Error(fmt.Sprintf(f, args...)) }
func (l *hclogAdapter) Warningf(f string, args ...interface{}) { l.base.Warn(fmt.Sprintf(f, args...)) }
func (l *hclogAdapter) Infof(f string, args ...interface{})    { l.base.Info(fmt.Sprintf(f, args...)) }
func (l *hclogAdapter) Debugf(f string, args ...interface{})   { l.base.Debug(fmt.Sprintf(f, args...)) }
