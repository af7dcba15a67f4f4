// Package config defines the store server's configuration structure.
package config

// Default configuration values.
const (
	DefaultServerAddr = "127.0.0.1:4000"
	DefaultAdminAddr  = "127.0.0.1:4001"

	DefaultDataDir             = "/var/lib/kvs-server/data"
	DefaultEngine              = "kvs"
	DefaultCompactionThreshold = int64(1 << 20) // 1 MiB of stale bytes

	DefaultPoolSize       = 32
	DefaultPoolKind       = "shared"
	DefaultPoolQueueDepth = 256

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *Config {
	return &Config{
		Server: ServerSection{
			Addr: DefaultServerAddr,
		},
		Admin: AdminSection{
			Addr: DefaultAdminAddr,
		},
		Storage: StorageSection{
			DataDir:             DefaultDataDir,
			Engine:              DefaultEngine,
			CompactionThreshold: DefaultCompactionThreshold,
		},
		Pool: PoolSection{
			Size:       DefaultPoolSize,
			Kind:       DefaultPoolKind,
			QueueDepth: DefaultPoolQueueDepth,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
