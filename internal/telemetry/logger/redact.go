// Package logger provides structured logging for the store process.
package logger

import (
	"log/slog"
	"strings"
)

// sensitiveKeyPatterns names log attribute keys whose non-empty string
// values are fully redacted. This store has no authentication surface of its
// own (see storage.Handle and the admin package), but the list still
// guards the admin HTTP listener and config loader against an
// operator accidentally logging a credential lifted from the
// environment or a future TLS/auth field.
//
// Deliberately excludes "key" and "value": those are the store's own
// request fields (internal/kvproto.Request.Key/Value, kvengine's Get/
// Set/Remove parameters) and must never be masked.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"credential",
	"bearer",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive fully redacts any non-empty string attribute whose
// key name matches a sensitive pattern, whatever its content. Attributes
// of other kinds (numbers, bools, ...) pass through unmasked; groups are
// searched recursively.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		if a.Value.String() != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	}

	// Handle nested groups recursively
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
