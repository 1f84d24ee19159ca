package gomt

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader obtains pipelines from a Factory and keeps them for the lifetime of
// the process, keyed by model identifier. Entries are never evicted or
// refreshed. Failed loads are not cached.
type Loader struct {
	factory        Factory
	device         int
	reloadEachCall bool
	loadTimeout    time.Duration
	logger         *slog.Logger

	mu        sync.RWMutex
	pipelines map[string]Pipeline
	group     singleflight.Group
	loads     atomic.Int64
}

// DefaultLoadTimeout bounds a shared model load.
const DefaultLoadTimeout = 5 * time.Minute

// LoaderOption is a functional option for configuring the Loader.
type LoaderOption func(*Loader)

// WithDevice sets the compute device selector passed to the factory.
func WithDevice(device int) LoaderOption {
	return func(l *Loader) {
		l.device = device
	}
}

// WithReloadEachCall disables pipeline caching: every Get loads the model
// again. This is slow and only useful to compare against the cached path.
func WithReloadEachCall() LoaderOption {
	return func(l *Loader) {
		l.reloadEachCall = true
	}
}

// WithLoadTimeout bounds how long a shared load may run (0 = no bound).
func WithLoadTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.loadTimeout = d
	}
}

// WithLoaderLogger sets the logger used for load events.
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader backed by factory.
func NewLoader(factory Factory, opts ...LoaderOption) *Loader {
	l := &Loader{
		factory:     factory,
		device:      DeviceCPU,
		loadTimeout: DefaultLoadTimeout,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		pipelines:   make(map[string]Pipeline),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Get returns the pipeline for model, loading it on first use. Concurrent
// first requests for the same model share a single load. The shared load
// is not tied to any one caller's cancellation; a caller whose ctx ends
// stops waiting and the load carries on for the others.
func (l *Loader) Get(ctx context.Context, model string) (Pipeline, error) {
	if l.reloadEachCall {
		return l.load(ctx, model)
	}

	if p, ok := l.cached(model); ok {
		return p, nil
	}

	ch := l.group.DoChan(model, func() (interface{}, error) {
		if p, ok := l.cached(model); ok {
			return p, nil
		}

		loadCtx := context.WithoutCancel(ctx)
		if l.loadTimeout > 0 {
			var cancel context.CancelFunc
			loadCtx, cancel = context.WithTimeout(loadCtx, l.loadTimeout)
			defer cancel()
		}

		p, err := l.load(loadCtx, model)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.pipelines[model] = p
		l.mu.Unlock()
		return p, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Pipeline), nil
	}
}

// Warm loads every listed model up front. It stops at the first failure.
func (l *Loader) Warm(ctx context.Context, models ...string) error {
	for _, model := range models {
		if _, err := l.Get(ctx, model); err != nil {
			return err
		}
	}
	return nil
}

// ReloadsEachCall reports whether the loader was built with WithReloadEachCall.
func (l *Loader) ReloadsEachCall() bool {
	return l.reloadEachCall
}

// Loaded reports whether a pipeline for model is cached.
func (l *Loader) Loaded(model string) bool {
	_, ok := l.cached(model)
	return ok
}

// Len returns the number of cached pipelines.
func (l *Loader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.pipelines)
}

// Loads returns how many times the factory has been asked to load a model.
func (l *Loader) Loads() int64 {
	return l.loads.Load()
}

func (l *Loader) cached(model string) (Pipeline, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.pipelines[model]
	return p, ok
}

// load asks the factory for a new pipeline (no caching).
func (l *Loader) load(ctx context.Context, model string) (Pipeline, error) {
	l.loads.Add(1)
	start := time.Now()

	p, err := l.factory.Load(ctx, LoadRequest{
		Task:   TaskTranslation,
		Model:  model,
		Device: l.device,
	})
	if err == nil && p == nil {
		err = errors.New("factory returned no pipeline")
	}
	if err != nil {
		l.logger.Warn("model load failed", "model", model, "error", err)

		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return nil, err
		}
		return nil, &LoadError{Model: model, Cause: err}
	}

	l.logger.Info("model loaded", "model", model, "device", l.device, "elapsed", time.Since(start).Round(time.Millisecond))
	return p, nil
}
