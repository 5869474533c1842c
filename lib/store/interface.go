package store

import (
	"context"

	"github.com/kvmirror/kvmirror/lib/codec"
	"github.com/kvmirror/kvmirror/lib/errors"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Store is the generic interface for an identified key-value record store.
// Two engines implement it: the filesystem mirror (fsstore) and the remote
// record service engine (remstore). Callers obtain an engine through the
// resolver and never branch on the backend themselves.
type Store interface {
	// ID returns the immutable identifier of the store.
	ID() string
	// SetValue inserts or updates the record for a key. A nil value deletes
	// the record; deleting an absent record is not an error. A nil value
	// combined with a content type option is rejected as contradictory.
	SetValue(ctx context.Context, key string, value any, opts *SetOptions) error
	// GetValue returns the record for a key, or (nil, nil) when no value
	// is stored under it.
	GetValue(ctx context.Context, key string) (*Record, error)
	// ForEachKey invokes visitor sequentially for every key in the store in
	// lexicographic order, optionally starting strictly after
	// opts.ExclusiveStartKey. The visitor receives a zero-based index that
	// counts the visited subsequence. A visitor error stops the enumeration
	// and is returned unchanged.
	ForEachKey(ctx context.Context, visitor Visitor, opts *IterateOptions) error
	// Drop irreversibly removes the store with all its records. Dropping an
	// already-dropped store is a no-op.
	Drop(ctx context.Context) error
	// PublicURL returns the URL of a record's location. Purely
	// informational, no I/O.
	PublicURL(key string) (string, error)
}

// SetOptions carries the optional arguments of SetValue.
type SetOptions struct {
	// ContentType declares how the value is encoded. Empty means JSON.
	ContentType string
}

// IterateOptions carries the optional arguments of ForEachKey.
type IterateOptions struct {
	// ExclusiveStartKey resumes the enumeration strictly after this key.
	ExclusiveStartKey string
}

// KeyInfo is the per-record metadata passed to a Visitor.
type KeyInfo struct {
	// Size is the byte length of the record's stored representation.
	Size int64
}

// Visitor is the callback of ForEachKey.
type Visitor func(key string, index int, info KeyInfo) error

// Record is one key's stored value.
type Record struct {
	Key         string
	Value       any
	ContentType string
	// Size is the byte length of the stored representation, derived.
	Size int64
}

// --------------------------------------------------------------------------
// Shared Argument Validation
// --------------------------------------------------------------------------

// ValidateSet checks the SetValue argument rules shared by all engines:
// the key must be valid and a deletion (nil value) must not carry a
// content type override.
func ValidateSet(key string, value any, opts *SetOptions) error {
	if err := codec.ValidateKey(key); err != nil {
		return err
	}
	if value == nil && opts != nil && opts.ContentType != "" {
		return errors.New(errors.CodeParameter,
			"a content type must not be set when deleting a value (nil value)")
	}
	return nil
}

// ContentTypeOf extracts the content type from options, tolerating nil.
func ContentTypeOf(opts *SetOptions) string {
	if opts == nil {
		return ""
	}
	return opts.ContentType
}

// StartKeyOf extracts the exclusive start key from options, tolerating nil.
func StartKeyOf(opts *IterateOptions) string {
	if opts == nil {
		return ""
	}
	return opts.ExclusiveStartKey
}
