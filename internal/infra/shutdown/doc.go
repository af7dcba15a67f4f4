// Package shutdown provides graceful shutdown for the store process.
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - A shutdown timeout, passed to every hook as its context deadline
//   - Cleanup callback registration
//   - Shutdown coordination
//
// Usage:
//
//	h := shutdown.NewHandler(30 * time.Second)
//	h.OnShutdown(func(ctx context.Context) error { return srv.Close() })
//	err := h.Wait() // blocks until a signal, then runs hooks last-registered first
package shutdown
