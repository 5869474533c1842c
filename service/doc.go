// Package service implements the HTTP client for the remote record service.
//
// The client covers exactly the operations the remote store engine needs:
// putting, getting and deleting single records, dropping whole stores, and
// paginating key listings. Authentication is a bearer token attached to
// every request.
//
// Retry policy lives here and nowhere else: network-level failures are
// retried up to the configured attempt count, while HTTP error statuses are
// surfaced immediately as service errors. The store engines above this
// package never retry.
package service
