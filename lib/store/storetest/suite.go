package storetest

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/kvmirror/kvmirror/lib/codec"
	"github.com/kvmirror/kvmirror/lib/errors"
	"github.com/kvmirror/kvmirror/lib/store"
)

// Factory creates a fresh, empty store for one subtest.
type Factory func(t *testing.T) store.Store

// RunStoreTests runs the contract test suite every store engine must pass.
func RunStoreTests(t *testing.T, name string, factory Factory) {
	t.Run(name, func(t *testing.T) {
		t.Run("SetGetJSON", func(t *testing.T) {
			testSetGetJSON(t, factory(t))
		})

		t.Run("SetGetText", func(t *testing.T) {
			testSetGetText(t, factory(t))
		})

		t.Run("SetGetBinary", func(t *testing.T) {
			testSetGetBinary(t, factory(t))
		})

		t.Run("GetMissing", func(t *testing.T) {
			testGetMissing(t, factory(t))
		})

		t.Run("DeleteViaNil", func(t *testing.T) {
			testDeleteViaNil(t, factory(t))
		})

		t.Run("DeleteMissingIsNoop", func(t *testing.T) {
			testDeleteMissingIsNoop(t, factory(t))
		})

		t.Run("NilValueWithContentType", func(t *testing.T) {
			testNilValueWithContentType(t, factory(t))
		})

		t.Run("InvalidKeys", func(t *testing.T) {
			testInvalidKeys(t, factory(t))
		})

		t.Run("OverwriteChangesContentType", func(t *testing.T) {
			testOverwriteChangesContentType(t, factory(t))
		})

		t.Run("ForEachKey", func(t *testing.T) {
			testForEachKey(t, factory(t))
		})

		t.Run("ForEachKeyExclusiveStart", func(t *testing.T) {
			testForEachKeyExclusiveStart(t, factory(t))
		})

		t.Run("ForEachKeyVisitorError", func(t *testing.T) {
			testForEachKeyVisitorError(t, factory(t))
		})

		t.Run("DropTwice", func(t *testing.T) {
			testDropTwice(t, factory(t))
		})

		t.Run("PublicURL", func(t *testing.T) {
			testPublicURL(t, factory(t))
		})
	})
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGetJSON(t *testing.T, s store.Store) {
	ctx := context.Background()
	value := map[string]any{
		"name":  "extraction-run",
		"pages": float64(12),
		"tags":  []any{"a", "b"},
	}

	if err := s.SetValue(ctx, "result", value, nil); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	record, err := s.GetValue(ctx, "result")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if record == nil {
		t.Fatal("Expected a record after SetValue")
	}
	if !reflect.DeepEqual(record.Value, value) {
		t.Errorf("Expected value %v, got %v", value, record.Value)
	}
	if !codec.IsJSON(record.ContentType) {
		t.Errorf("Expected a JSON content type, got %q", record.ContentType)
	}
	if record.Size <= 0 {
		t.Errorf("Expected a positive size, got %d", record.Size)
	}
}

func testSetGetText(t *testing.T, s store.Store) {
	ctx := context.Background()

	if err := s.SetValue(ctx, "notes", "hello world", &store.SetOptions{ContentType: "text/plain"}); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	record, err := s.GetValue(ctx, "notes")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if record == nil {
		t.Fatal("Expected a record after SetValue")
	}
	raw, ok := record.Value.([]byte)
	if !ok {
		t.Fatalf("Expected raw bytes for a text record, got %T", record.Value)
	}
	if string(raw) != "hello world" {
		t.Errorf("Expected %q, got %q", "hello world", raw)
	}
	if !strings.HasPrefix(record.ContentType, "text/plain") {
		t.Errorf("Expected a text/plain content type, got %q", record.ContentType)
	}
	if record.Size != int64(len("hello world")) {
		t.Errorf("Expected size %d, got %d", len("hello world"), record.Size)
	}
}

func testSetGetBinary(t *testing.T, s store.Store) {
	ctx := context.Background()
	payload := []byte{0x00, 0x01, 0xfe, 0xff}

	if err := s.SetValue(ctx, "blob", payload, &store.SetOptions{ContentType: "application/octet-stream"}); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	record, err := s.GetValue(ctx, "blob")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if record == nil {
		t.Fatal("Expected a record after SetValue")
	}
	raw, ok := record.Value.([]byte)
	if !ok {
		t.Fatalf("Expected raw bytes for a binary record, got %T", record.Value)
	}
	if !bytes.Equal(raw, payload) {
		t.Errorf("Expected payload %v, got %v", payload, raw)
	}
}

func testGetMissing(t *testing.T, s store.Store) {
	record, err := s.GetValue(context.Background(), "never-written")
	if err != nil {
		t.Fatalf("GetValue of a missing key must not fail: %v", err)
	}
	if record != nil {
		t.Errorf("Expected no record, got %+v", record)
	}
}

func testDeleteViaNil(t *testing.T, s store.Store) {
	ctx := context.Background()

	if err := s.SetValue(ctx, "doomed", "x", &store.SetOptions{ContentType: "text/plain"}); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if err := s.SetValue(ctx, "doomed", nil, nil); err != nil {
		t.Fatalf("Deleting via nil value failed: %v", err)
	}

	record, err := s.GetValue(ctx, "doomed")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if record != nil {
		t.Errorf("Expected key to be deleted, got %+v", record)
	}
}

func testDeleteMissingIsNoop(t *testing.T, s store.Store) {
	if err := s.SetValue(context.Background(), "absent", nil, nil); err != nil {
		t.Errorf("Deleting an absent key must be a no-op, got: %v", err)
	}
}

func testNilValueWithContentType(t *testing.T, s store.Store) {
	err := s.SetValue(context.Background(), "key", nil, &store.SetOptions{ContentType: "text/plain"})
	if err == nil {
		t.Fatal("Expected an error for nil value combined with a content type")
	}
	if !errors.IsParameter(err) {
		t.Errorf("Expected a parameter error, got: %v", err)
	}
}

func testInvalidKeys(t *testing.T, s store.Store) {
	ctx := context.Background()
	invalid := []string{
		"",
		"with:colon",
		"with/slash",
		"with|pipe",
		strings.Repeat("a", codec.MaxKeyLength+1),
	}
	for _, key := range invalid {
		if err := s.SetValue(ctx, key, "v", &store.SetOptions{ContentType: "text/plain"}); !errors.IsParameter(err) {
			t.Errorf("SetValue(%q) should fail with a parameter error, got: %v", key, err)
		}
		if _, err := s.GetValue(ctx, key); !errors.IsParameter(err) {
			t.Errorf("GetValue(%q) should fail with a parameter error, got: %v", key, err)
		}
	}
}

func testOverwriteChangesContentType(t *testing.T, s store.Store) {
	ctx := context.Background()

	if err := s.SetValue(ctx, "shape", "plain", &store.SetOptions{ContentType: "text/plain"}); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if err := s.SetValue(ctx, "shape", map[string]any{"a": float64(1)}, nil); err != nil {
		t.Fatalf("Overwriting with JSON failed: %v", err)
	}

	record, err := s.GetValue(ctx, "shape")
	if err != nil {
		t.Fatalf("GetValue failed: %v", err)
	}
	if record == nil {
		t.Fatal("Expected a record")
	}
	if !codec.IsJSON(record.ContentType) {
		t.Errorf("Expected the JSON content type to win, got %q", record.ContentType)
	}
	if !reflect.DeepEqual(record.Value, map[string]any{"a": float64(1)}) {
		t.Errorf("Expected the JSON value to win, got %v", record.Value)
	}

	// Exactly one visit for the key, under the new representation.
	visits := 0
	err = s.ForEachKey(ctx, func(key string, index int, info store.KeyInfo) error {
		if key == "shape" {
			visits++
		}
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("ForEachKey failed: %v", err)
	}
	if visits != 1 {
		t.Errorf("Expected exactly one entry for the key, got %d", visits)
	}
}

func testForEachKey(t *testing.T, s store.Store) {
	ctx := context.Background()

	// Written out of order, visited sorted.
	for _, key := range []string{"cherry", "apple", "banana"} {
		if err := s.SetValue(ctx, key, "xy", &store.SetOptions{ContentType: "text/plain"}); err != nil {
			t.Fatalf("SetValue(%q) failed: %v", key, err)
		}
	}

	var keys []string
	var indices []int
	err := s.ForEachKey(ctx, func(key string, index int, info store.KeyInfo) error {
		keys = append(keys, key)
		indices = append(indices, index)
		if info.Size != 2 {
			t.Errorf("Expected size 2 for key %q, got %d", key, info.Size)
		}
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("ForEachKey failed: %v", err)
	}

	wantKeys := []string{"apple", "banana", "cherry"}
	if !reflect.DeepEqual(keys, wantKeys) {
		t.Errorf("Expected keys %v, got %v", wantKeys, keys)
	}
	if !reflect.DeepEqual(indices, []int{0, 1, 2}) {
		t.Errorf("Expected indices [0 1 2], got %v", indices)
	}
}

func testForEachKeyExclusiveStart(t *testing.T, s store.Store) {
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("key%d", i)
		if err := s.SetValue(ctx, key, "ab", &store.SetOptions{ContentType: "text/plain"}); err != nil {
			t.Fatalf("SetValue(%q) failed: %v", key, err)
		}
	}

	var keys []string
	var indices []int
	err := s.ForEachKey(ctx, func(key string, index int, info store.KeyInfo) error {
		keys = append(keys, key)
		indices = append(indices, index)
		if info.Size != 2 {
			t.Errorf("Expected size 2 for key %q, got %d", key, info.Size)
		}
		return nil
	}, &store.IterateOptions{ExclusiveStartKey: "key3"})
	if err != nil {
		t.Fatalf("ForEachKey failed: %v", err)
	}

	wantKeys := []string{"key4", "key5", "key6", "key7", "key8", "key9"}
	if !reflect.DeepEqual(keys, wantKeys) {
		t.Errorf("Expected keys %v, got %v", wantKeys, keys)
	}
	wantIndices := []int{0, 1, 2, 3, 4, 5}
	if !reflect.DeepEqual(indices, wantIndices) {
		t.Errorf("Expected indices %v, got %v", wantIndices, indices)
	}
}

func testForEachKeyVisitorError(t *testing.T, s store.Store) {
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := s.SetValue(ctx, key, "x", &store.SetOptions{ContentType: "text/plain"}); err != nil {
			t.Fatalf("SetValue(%q) failed: %v", key, err)
		}
	}

	stop := fmt.Errorf("stop here")
	visited := 0
	err := s.ForEachKey(ctx, func(key string, index int, info store.KeyInfo) error {
		visited++
		if key == "b" {
			return stop
		}
		return nil
	}, nil)
	if err != stop {
		t.Errorf("Expected the visitor error to propagate unchanged, got: %v", err)
	}
	if visited != 2 {
		t.Errorf("Expected enumeration to stop after 2 visits, got %d", visited)
	}
}

func testDropTwice(t *testing.T, s store.Store) {
	ctx := context.Background()

	if err := s.SetValue(ctx, "k", "v", &store.SetOptions{ContentType: "text/plain"}); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if err := s.Drop(ctx); err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	if err := s.Drop(ctx); err != nil {
		t.Errorf("Second Drop must not fail, got: %v", err)
	}
}

func testPublicURL(t *testing.T, s store.Store) {
	u, err := s.PublicURL("some-key")
	if err != nil {
		t.Fatalf("PublicURL failed: %v", err)
	}
	if !strings.Contains(u, "some-key") {
		t.Errorf("Expected the URL to contain the key, got %q", u)
	}
	if !strings.Contains(u, "://") {
		t.Errorf("Expected an absolute URL, got %q", u)
	}

	if _, err := s.PublicURL("bad:key"); !errors.IsParameter(err) {
		t.Errorf("Expected a parameter error for an invalid key, got: %v", err)
	}
}
