package fsstore_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvmirror/kvmirror/lib/errors"
	"github.com/kvmirror/kvmirror/lib/store"
	"github.com/kvmirror/kvmirror/lib/store/fsstore"
	"github.com/kvmirror/kvmirror/lib/store/storetest"
)

func TestStoreContract(t *testing.T) {
	storetest.RunStoreTests(t, "FSStore", func(t *testing.T) store.Store {
		s, err := fsstore.New("test-store", t.TempDir(), nil)
		if err != nil {
			t.Fatalf("creating store failed: %v", err)
		}
		return s
	})
}

func TestNewValidation(t *testing.T) {
	_, err := fsstore.New("", t.TempDir(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsParameter(err))

	_, err = fsstore.New("id", "", nil)
	require.Error(t, err)
	assert.True(t, errors.IsParameter(err))
}

func TestNewCreatesDirectory(t *testing.T) {
	root := t.TempDir()
	_, err := fsstore.New("my-store", root, nil)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(root, "my-store"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFilenamesCarryContentTypeExtension(t *testing.T) {
	root := t.TempDir()
	s, err := fsstore.New("st", root, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.SetValue(ctx, "report", map[string]any{"ok": true}, nil))
	require.NoError(t, s.SetValue(ctx, "notes", "text", &store.SetOptions{ContentType: "text/plain"}))
	require.NoError(t, s.SetValue(ctx, "blob", []byte{1}, &store.SetOptions{ContentType: "application/x-custom"}))

	names := dirNames(t, filepath.Join(root, "st"))
	assert.ElementsMatch(t, []string{"report.json", "notes.txt", "blob.bin"}, names)
}

func TestOverwriteRemovesStaleExtension(t *testing.T) {
	root := t.TempDir()
	s, err := fsstore.New("st", root, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.SetValue(ctx, "page", "<html/>", &store.SetOptions{ContentType: "text/html"}))
	require.NoError(t, s.SetValue(ctx, "page", map[string]any{"a": 1}, nil))

	names := dirNames(t, filepath.Join(root, "st"))
	assert.Equal(t, []string{"page.json"}, names)
}

func TestDeleteRemovesFileAcrossExtensions(t *testing.T) {
	root := t.TempDir()
	s, err := fsstore.New("st", root, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.SetValue(ctx, "tmp", "x", &store.SetOptions{ContentType: "text/plain"}))
	require.NoError(t, s.SetValue(ctx, "tmp", nil, nil))

	assert.Empty(t, dirNames(t, filepath.Join(root, "st")))
}

func TestContentTypeInferredFromExtension(t *testing.T) {
	root := t.TempDir()
	s, err := fsstore.New("st", root, nil)
	require.NoError(t, err)
	ctx := context.Background()

	// The charset parameter is not recoverable from the filename; the bare
	// media type is.
	require.NoError(t, s.SetValue(ctx, "notes", "abc", &store.SetOptions{ContentType: "text/plain; charset=utf-8"}))

	record, err := s.GetValue(ctx, "notes")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "text/plain", record.ContentType)
}

func TestGetValueFindsAnyExtension(t *testing.T) {
	root := t.TempDir()
	s, err := fsstore.New("st", root, nil)
	require.NoError(t, err)

	// A file written by an older run with an extension outside the table.
	require.NoError(t, os.WriteFile(filepath.Join(root, "st", "track.mp3"), []byte("audio"), 0o644))

	record, err := s.GetValue(context.Background(), "track")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, []byte("audio"), record.Value)
	assert.Equal(t, "application/octet-stream", record.ContentType)
}

func TestDropRemovesDirectory(t *testing.T) {
	root := t.TempDir()
	s, err := fsstore.New("st", root, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.SetValue(ctx, "k", "v", &store.SetOptions{ContentType: "text/plain"}))
	require.NoError(t, s.Drop(ctx))

	_, err = os.Stat(filepath.Join(root, "st"))
	assert.True(t, os.IsNotExist(err))
}

func TestPublicURLIsFileURI(t *testing.T) {
	root := t.TempDir()
	s, err := fsstore.New("st", root, nil)
	require.NoError(t, err)

	u, err := s.PublicURL("result")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "file://"))
	assert.Contains(t, u, "/st/result")
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
