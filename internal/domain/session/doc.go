// Package session persists and restores workspace snapshots.
//
// A session captures every cluster on the shell, the focused cluster,
// and each story's panel, so a saved workspace comes back with the
// exact same tiling.
//
// Sessions are stored as gzip-compressed JSON files, one per session,
// written to a temp file and renamed into place so concurrent readers
// never see a partial snapshot.
//
// Example Usage:
//
//	manager := session.NewManager(clusterMgr, cfg.Session.Dir, logger)
//	sess, err := manager.Save("My Workspace", "before the demo")
//	_, err = manager.Restore(sess.ID)
package session
