// Package admin provides the store's admin HTTP surface: a liveness
// check and a Prometheus metrics endpoint, served on a separate
// address from the TCP key/value protocol port.
//
// This is a trimmed descendant of an HTTP API that once carried
// session, API-key, and cluster-admin routes; only the parts with a
// key/value analog survive, and everything below is unauthenticated,
// matching this store's lack of an auth surface.
package admin
