// Package config defines the store server's configuration structure and
// validation.
//
//   - spec.go: Config struct definition
//   - default.go: default configuration values
//   - verify.go: business validation (data dir, pool size, thresholds)
//   - sanitize.go: log sanitization
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: files, environment variables, and flags.
package config
