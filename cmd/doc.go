// Package cmd implements the command-line interface for the kvmirror
// record store. It provides a hierarchical command structure for reading,
// writing and managing stores against either backend.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for record operations (get, set, delete, keys, drop, etc.)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See kvmirror -help for a list of all commands.
package cmd
