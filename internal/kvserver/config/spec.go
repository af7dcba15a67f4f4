// Package config defines the store server's configuration structure.
package config

// Config is the root configuration for kvs-server.
type Config struct {
	Server  ServerSection  `koanf:"server"`
	Admin   AdminSection   `koanf:"admin"`
	Storage StorageSection `koanf:"storage"`
	Pool    PoolSection    `koanf:"pool"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures the command protocol listener.
type ServerSection struct {
	Addr string `koanf:"addr"`
}

// AdminSection configures the health/metrics HTTP listener.
type AdminSection struct {
	Addr string `koanf:"addr"`
}

// StorageSection configures the storage backend.
type StorageSection struct {
	// DataDir is the directory the backend persists into.
	DataDir string `koanf:"data_dir"`

	// Engine selects the backend: "kvs" for the log-structured engine,
	// "sled" for Badger. Empty defers to whatever is already pinned in
	// DataDir's engine sentinel file, or "kvs" for a fresh directory.
	Engine string `koanf:"engine"`

	// CompactionThreshold is the stale-byte count at which the kvs
	// engine triggers compaction. Ignored by the Badger backend.
	CompactionThreshold int64 `koanf:"compaction_threshold"`
}

// PoolSection configures the connection worker pool.
type PoolSection struct {
	// Size is the number of workers (SharedQueue, ConcPool) or ignored
	// entirely (Naive, which spawns one goroutine per task).
	Size int `koanf:"size"`

	// Kind selects the pool implementation: "shared", "conc", or
	// "naive".
	Kind string `koanf:"kind"`

	// QueueDepth bounds the backlog for the "shared" pool kind.
	QueueDepth int `koanf:"queue_depth"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
