package remstore

import (
	"context"
	"fmt"

	"github.com/VictoriaMetrics/metrics"
	"go.uber.org/zap"

	"github.com/kvmirror/kvmirror/lib/codec"
	"github.com/kvmirror/kvmirror/lib/errors"
	"github.com/kvmirror/kvmirror/lib/store"
	"github.com/kvmirror/kvmirror/service"
)

type storeImpl struct {
	id     string
	client *service.Client
	logger *zap.Logger
}

// New creates a remote store backed by the record service client. The id is
// the identifier assigned by the service.
func New(id string, client *service.Client, logger *zap.Logger) (store.Store, error) {
	if id == "" {
		return nil, errors.New(errors.CodeParameter, "store id must not be empty")
	}
	if client == nil {
		return nil, errors.New(errors.CodeParameter, "service client must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &storeImpl{id: id, client: client, logger: logger}, nil
}

func opCounter(op string) *metrics.Counter {
	return metrics.GetOrCreateCounter(
		fmt.Sprintf(`kvmirror_store_operations_total{backend="remote",op=%q}`, op))
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) ID() string {
	return s.id
}

func (s *storeImpl) SetValue(ctx context.Context, key string, value any, opts *store.SetOptions) error {
	if err := store.ValidateSet(key, value, opts); err != nil {
		return err
	}
	if value == nil {
		if err := s.client.DeleteRecord(ctx, s.id, key); err != nil {
			return err
		}
		opCounter("delete").Inc()
		return nil
	}

	payload, contentType, err := codec.Encode(value, store.ContentTypeOf(opts))
	if err != nil {
		return err
	}

	// The service expects an explicit charset. Callers that already
	// specified one keep theirs.
	contentType = codec.NormalizeCharset(contentType)

	if err := s.client.PutRecord(ctx, s.id, key, payload, contentType); err != nil {
		return err
	}

	opCounter("set").Inc()
	s.logger.Debug("record transmitted",
		zap.String("store", s.id),
		zap.String("key", key),
		zap.String("contentType", contentType),
		zap.Int("size", len(payload)))
	return nil
}

func (s *storeImpl) GetValue(ctx context.Context, key string) (*store.Record, error) {
	if err := codec.ValidateKey(key); err != nil {
		return nil, err
	}

	data, found, err := s.client.GetRecord(ctx, s.id, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	value, err := codec.Decode(data.Body, data.ContentType)
	if err != nil {
		return nil, err
	}

	opCounter("get").Inc()
	return &store.Record{
		Key:         key,
		Value:       value,
		ContentType: data.ContentType,
		Size:        int64(len(data.Body)),
	}, nil
}

func (s *storeImpl) ForEachKey(ctx context.Context, visitor store.Visitor, opts *store.IterateOptions) error {
	if visitor == nil {
		return errors.New(errors.CodeParameter, "visitor must not be nil")
	}

	// Pages are fetched strictly sequentially: the next page is requested
	// only after every item of the current one was delivered, and the index
	// keeps increasing across pages.
	index := 0
	startKey := store.StartKeyOf(opts)
	for {
		page, err := s.client.ListKeys(ctx, s.id, startKey)
		if err != nil {
			return err
		}
		for _, item := range page.Items {
			if err := visitor(item.Key, index, store.KeyInfo{Size: item.Size}); err != nil {
				return err
			}
			index++
		}
		if !page.IsTruncated || page.NextExclusiveStartKey == "" {
			break
		}
		startKey = page.NextExclusiveStartKey
	}

	opCounter("list").Inc()
	return nil
}

func (s *storeImpl) Drop(ctx context.Context) error {
	if err := s.client.DeleteStore(ctx, s.id); err != nil {
		return err
	}
	opCounter("drop").Inc()
	s.logger.Info("store dropped", zap.String("store", s.id))
	return nil
}

func (s *storeImpl) PublicURL(key string) (string, error) {
	if err := codec.ValidateKey(key); err != nil {
		return "", err
	}
	return s.client.RecordURL(s.id, key), nil
}
