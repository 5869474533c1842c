package resolver

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"

	"github.com/kvmirror/kvmirror/lib/config"
	"github.com/kvmirror/kvmirror/lib/errors"
	"github.com/kvmirror/kvmirror/lib/store"
	"github.com/kvmirror/kvmirror/lib/store/fsstore"
	"github.com/kvmirror/kvmirror/lib/store/remstore"
	"github.com/kvmirror/kvmirror/service"
)

// DefaultLocalStoreID names the store used in local mode when neither the
// caller nor the environment supplies an identifier.
const DefaultLocalStoreID = "default"

// OpenOptions carries the optional arguments of Open.
type OpenOptions struct {
	// ForceCloud selects the remote engine even when a local storage
	// directory is configured.
	ForceCloud bool
}

// Resolver decides which engine backs a store identifier and memoizes the
// engine instances for the lifetime of the process. It is the only shared
// mutable state of the module and is safe for concurrent use.
type Resolver struct {
	cfg    config.Config
	logger *zap.Logger
	stores *xsync.MapOf[string, store.Store]

	clientOnce sync.Once
	client     *service.Client
	clientErr  error
}

// New creates a resolver for the given configuration.
func New(cfg config.Config, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		cfg:    cfg,
		logger: logger,
		stores: xsync.NewMapOf[string, store.Store](),
	}
}

// Open returns the store for the given identifier, constructing the right
// engine on first use. An empty id resolves the process-wide default store.
// Repeated calls with the same identifier return the same instance;
// concurrent calls converge on one cached engine.
func (r *Resolver) Open(id string, opts *OpenOptions) (store.Store, error) {
	forceCloud := opts != nil && opts.ForceCloud
	local := r.cfg.LocalStorageDir != "" && !forceCloud

	if id == "" {
		id = r.cfg.DefaultStoreID
	}
	if id == "" {
		if !local {
			return nil, errors.Newf(errors.CodeConfiguration,
				"no store id given and %s is not set", config.EnvVar(config.KeyDefaultStoreID))
		}
		id = DefaultLocalStoreID
	}

	if s, ok := r.stores.Load(id); ok {
		return s, nil
	}

	var s store.Store
	var err error
	if local {
		s, err = fsstore.New(id, r.cfg.LocalStorageDir, r.logger.Named("fsstore"))
	} else {
		var client *service.Client
		client, err = r.serviceClient()
		if err == nil {
			s, err = remstore.New(id, client, r.logger.Named("remstore"))
		}
	}
	if err != nil {
		return nil, err
	}

	// Two racing opens may both construct; LoadOrStore makes them converge
	// on the instance that won.
	actual, loaded := r.stores.LoadOrStore(id, s)
	if !loaded {
		r.logger.Debug("store opened",
			zap.String("store", id),
			zap.Bool("local", local))
	}
	return actual, nil
}

// serviceClient lazily constructs the shared record service client. Cloud
// mode without an authentication token is a fatal configuration error.
func (r *Resolver) serviceClient() (*service.Client, error) {
	if r.cfg.Token == "" {
		return nil, errors.Newf(errors.CodeConfiguration,
			"cloud storage requires an authentication token: %s is not set", config.EnvVar(config.KeyToken))
	}
	r.clientOnce.Do(func() {
		r.client, r.clientErr = service.NewClient(service.Config{
			BaseURL:       r.cfg.APIBaseURL,
			Token:         r.cfg.Token,
			TimeoutSecond: r.cfg.TimeoutSecond,
			RetryCount:    r.cfg.RetryCount,
		}, r.logger.Named("service"))
	})
	return r.client, r.clientErr
}
