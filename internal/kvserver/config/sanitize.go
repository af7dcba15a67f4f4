// Package config defines the store server's configuration structure.
package config

// Sanitize returns a copy of the config safe to write to the logs.
//
// The store carries no credentials of its own (see Non-goals around
// authentication and transport encryption), so today this is a plain
// copy. It exists so that a future field requiring redaction — a TLS
// key path, a remote backend token — has one place to mask it.
// kvs-server does not log its loaded config, so nothing outside the
// tests calls it.
func Sanitize(cfg *Config) *Config {
	sanitized := *cfg
	return &sanitized
}
