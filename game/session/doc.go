// Package session provides in-memory session management for the sliding
// puzzle server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Expiry of idle sessions
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive. Callers may also pick their own ID.
//
// Concurrency:
//
// The manager guards its map with a read/write mutex. The engines inside
// sessions are not synchronized here; the service layer serializes access.
//
// Usage:
//
//	manager := session.NewManager()
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//	go manager.RunCleanup(ctx, session.DefaultCleanupInterval, session.DefaultMaxAge)
//
// Sessions are never written to disk; restarting the process drops them.
package session
