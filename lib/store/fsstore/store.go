package fsstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/VictoriaMetrics/metrics"
	"go.uber.org/zap"

	"github.com/kvmirror/kvmirror/lib/codec"
	"github.com/kvmirror/kvmirror/lib/errors"
	"github.com/kvmirror/kvmirror/lib/store"
)

type storeImpl struct {
	id     string
	dir    string
	logger *zap.Logger
}

// New creates a filesystem store rooted at <rootDir>/<id>, creating the
// directory if it does not exist yet.
func New(id, rootDir string, logger *zap.Logger) (store.Store, error) {
	if id == "" {
		return nil, errors.New(errors.CodeParameter, "store id must not be empty")
	}
	if rootDir == "" {
		return nil, errors.New(errors.CodeParameter, "local storage directory must not be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dir := filepath.Join(rootDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.CodeIO, "creating store directory failed", err)
	}

	return &storeImpl{id: id, dir: dir, logger: logger}, nil
}

func opCounter(op string) *metrics.Counter {
	return metrics.GetOrCreateCounter(
		fmt.Sprintf(`kvmirror_store_operations_total{backend="fs",op=%q}`, op))
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) ID() string {
	return s.id
}

func (s *storeImpl) SetValue(_ context.Context, key string, value any, opts *store.SetOptions) error {
	if err := store.ValidateSet(key, value, opts); err != nil {
		return err
	}
	if value == nil {
		return s.deleteValue(key)
	}

	payload, contentType, err := codec.Encode(value, store.ContentTypeOf(opts))
	if err != nil {
		return err
	}
	filename, err := codec.Filename(key, contentType)
	if err != nil {
		return err
	}

	// At most one file per key: a previous write with a different content
	// type leaves a stale file under another extension.
	if err := s.removeMatching(key, filename); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(s.dir, filename), payload, 0o644); err != nil {
		return errors.Wrap(errors.CodeIO, "writing record file failed", err)
	}

	opCounter("set").Inc()
	s.logger.Debug("record written",
		zap.String("store", s.id),
		zap.String("key", key),
		zap.Int("size", len(payload)))
	return nil
}

func (s *storeImpl) GetValue(_ context.Context, key string) (*store.Record, error) {
	if err := codec.ValidateKey(key); err != nil {
		return nil, err
	}

	filename, err := s.findFile(key)
	if err != nil {
		return nil, err
	}
	if filename == "" {
		return nil, nil
	}

	payload, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		return nil, errors.Wrap(errors.CodeIO, "reading record file failed", err)
	}

	contentType := codec.ContentTypeFromFilename(filename)
	value, err := codec.Decode(payload, contentType)
	if err != nil {
		return nil, err
	}

	opCounter("get").Inc()
	return &store.Record{
		Key:         key,
		Value:       value,
		ContentType: contentType,
		Size:        int64(len(payload)),
	}, nil
}

func (s *storeImpl) ForEachKey(ctx context.Context, visitor store.Visitor, opts *store.IterateOptions) error {
	if visitor == nil {
		return errors.New(errors.CodeParameter, "visitor must not be nil")
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.CodeIO, "listing store directory failed", err)
	}

	type item struct {
		key  string
		size int64
	}
	items := make([]item, 0, len(entries))
	startKey := store.StartKeyOf(opts)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key := codec.KeyFromFilename(entry.Name())
		if startKey != "" && key <= startKey {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return errors.Wrap(errors.CodeIO, "reading record file info failed", err)
		}
		items = append(items, item{key: key, size: info.Size()})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].key < items[j].key })

	for i, it := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := visitor(it.key, i, store.KeyInfo{Size: it.size}); err != nil {
			return err
		}
	}

	opCounter("list").Inc()
	return nil
}

func (s *storeImpl) Drop(_ context.Context) error {
	if err := os.RemoveAll(s.dir); err != nil {
		return errors.Wrap(errors.CodeIO, "removing store directory failed", err)
	}
	opCounter("drop").Inc()
	s.logger.Info("store dropped", zap.String("store", s.id))
	return nil
}

func (s *storeImpl) PublicURL(key string) (string, error) {
	if err := codec.ValidateKey(key); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(s.dir)
	if err != nil {
		return "", errors.Wrap(errors.CodeIO, "resolving store directory failed", err)
	}
	// No I/O is allowed here, so the extension of the record's actual file
	// is unknown; the URL assumes the JSON default.
	return "file://" + filepath.ToSlash(abs) + "/" + key + "." + codec.Extension(""), nil
}

// --------------------------------------------------------------------------
// Internal Helpers
// --------------------------------------------------------------------------

// findFile locates the (at most one) file belonging to a key, regardless of
// which extension it was written with. Returns "" when no file exists.
func (s *storeImpl) findFile(key string) (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(errors.CodeIO, "listing store directory failed", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && codec.MatchesKey(key, entry.Name()) {
			return entry.Name(), nil
		}
	}
	return "", nil
}

// removeMatching removes every file belonging to key except keep ("" keeps
// nothing). Absent files are fine.
func (s *storeImpl) removeMatching(key, keep string) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.CodeIO, "listing store directory failed", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == keep || !codec.MatchesKey(key, name) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(errors.CodeIO, "removing record file failed", err)
		}
	}
	return nil
}

// deleteValue implements the nil-value deletion path of SetValue.
func (s *storeImpl) deleteValue(key string) error {
	if err := s.removeMatching(key, ""); err != nil {
		return err
	}
	opCounter("delete").Inc()
	return nil
}
