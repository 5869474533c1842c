// Package store defines the key-value record store contract shared by the
// local filesystem engine and the remote record service engine.
//
// The package focuses on:
//   - A unified interface (Store) for record operations across both backends
//   - Shared argument validation so both engines enforce identical rules
//
// Key Components:
//
//   - Store Interface: The core abstraction defining operations for
//     interacting with a record store: SetValue, GetValue, ForEachKey, Drop
//     and PublicURL. All implementations share this common interface,
//     allowing application code to persist and retrieve named artifacts
//     without branching on the execution environment.
//
//   - Record Model: A record is one key's stored value together with its
//     content type and derived byte size. A record with no stored value
//     does not exist: deletion is absence, not a tombstone, and GetValue
//     reports absence as a nil record rather than an error.
//
//   - Visitor Enumeration: ForEachKey delivers keys in lexicographic order
//     with a zero-based index and per-record size, optionally resuming
//     strictly after an exclusive start key. Both engines honor the same
//     index contract, so callers can switch backends without re-reading
//     pagination semantics.
//
// Implementations:
//
//	The module includes two implementations of the Store interface:
//
//	- Filesystem Store (fsstore): Mirrors a store as a directory with one
//	  file per live record, the filename embedding a content-type-derived
//	  extension. Suitable for local development runs.
//	  Available in the "github.com/kvmirror/kvmirror/lib/store/fsstore" package.
//
//	- Remote Store (remstore): Delegates to the hosted record service over
//	  its HTTP API, normalizing content-type charsets on write and
//	  paginating key listings on enumeration. Used in hosted execution.
//	  Available in the "github.com/kvmirror/kvmirror/lib/store/remstore" package.
//
// The resolver package decides which engine backs a given identifier and
// memoizes instances for the lifetime of the process.
package store
