// Package session owns the token-addressed capture session state.
//
// Invariants:
// - A session holds at most MaxUpdates telemetry updates, oldest evicted first.
// - Expiry is lazy: checked on access against the store clock, never swept.
// - Every mutation snapshots the whole store to disk via atomic rename.
// - Tokens are the sole handle to a session and are never reused after removal.
//
// Usage:
//
//	store, _ := session.NewStore(session.StoreOptions{StateFile: "/tmp/livelink/state.json"})
//	tok, expires, _ := store.Create()
//	_ = store.Append(tok, session.Update{Location: &session.Location{}})
//	status, _ := store.Status(tok)
//	_ = status
//	_ = expires
package session
