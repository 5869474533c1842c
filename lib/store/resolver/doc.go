// Package resolver decides which engine backs a store identifier and owns
// the process-wide cache of open stores.
//
// The decision rule is environment-driven: when a local storage directory
// is configured and the caller did not force cloud usage, identifiers
// resolve to filesystem stores; otherwise they resolve to remote stores,
// which requires an authentication token. Missing cloud configuration is a
// fatal configuration error, never a retryable one.
//
// Engine instances are memoized by identifier, so repeated and concurrent
// opens of one store converge on a single instance. The resolver also
// carries the thin convenience operations (GetValue, SetValue, GetInput)
// that operate on the default store.
package resolver
