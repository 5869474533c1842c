// Package fsstore implements the store contract on the local filesystem.
//
// A store is a directory under the configured storage root, named by the
// store identifier. Each live record is exactly one file inside it, named
// key + "." + extension where the extension is derived from the record's
// content type (codec package). Reading a record back infers its content
// type from that extension.
//
// The engine keeps the one-file-per-key invariant on every write: storing a
// key under a new content type removes the stale file carrying the old
// extension before the new file is written. Deletion is the removal of the
// file; an absent file means no value.
//
// Filesystem errors propagate as IO errors without retries. Concurrent
// writers to the same key within one process race at the filesystem level,
// last write wins.
package fsstore
