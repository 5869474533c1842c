// Package remstore implements the store contract against the remote record
// service.
//
// Writes normalize the content type before transmission: a default utf-8
// charset clause is appended unless the caller already declared one, so
// exactly one charset clause is ever on the wire. Reads decode with the
// content type the service reports.
//
// Key enumeration follows the service's pagination protocol, one page at a
// time in service-provided order, carrying a single zero-based index across
// all pages. Service errors propagate unchanged; the retry policy lives in
// the service client.
package remstore
