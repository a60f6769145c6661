// Package session provides in-memory session management for the drone simulator.
//
// A session is one drone owned by one client: its own engine.Simulator plus
// creation and last-access times. Sessions are never shared or merged, and
// nothing is persisted; a restart starts from an empty manager.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters from crypto/rand. Lookups are
// case-insensitive.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", "classroom", engine.DefaultLayout())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	go manager.RunCleanup(ctx, time.Minute, 2*time.Hour)
package session
