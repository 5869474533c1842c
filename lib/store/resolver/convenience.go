package resolver

import (
	"context"

	"github.com/kvmirror/kvmirror/lib/codec"
	"github.com/kvmirror/kvmirror/lib/store"
)

// Thin argument-validating wrappers over the default store. They exist so a
// job can read and write artifacts without opening a store explicitly.

// GetValue reads a record from the default store.
func (r *Resolver) GetValue(ctx context.Context, key string) (*store.Record, error) {
	if err := codec.ValidateKey(key); err != nil {
		return nil, err
	}
	s, err := r.Open("", nil)
	if err != nil {
		return nil, err
	}
	return s.GetValue(ctx, key)
}

// SetValue writes (or, with a nil value, deletes) a record in the default
// store.
func (r *Resolver) SetValue(ctx context.Context, key string, value any, opts *store.SetOptions) error {
	if err := store.ValidateSet(key, value, opts); err != nil {
		return err
	}
	s, err := r.Open("", nil)
	if err != nil {
		return err
	}
	return s.SetValue(ctx, key, value, opts)
}

// GetInput reads the job input record from the default store. The input key
// defaults to INPUT and can be overridden via the environment.
func (r *Resolver) GetInput(ctx context.Context) (*store.Record, error) {
	key := r.cfg.InputKey
	if key == "" {
		key = "INPUT"
	}
	return r.GetValue(ctx, key)
}
