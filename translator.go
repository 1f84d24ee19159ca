package gomt

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Translator is the main translation engine. It resolves a language pair to
// a model, obtains the model's pipeline from its Loader and runs the text
// through it. It is safe for concurrent use.
type Translator struct {
	pairs      *PairTable
	factory    Factory
	loader     *Loader
	loaderOpts []LoaderOption
	cache      TranslationCache
	retry      *RetryConfig
	limiter    *RateLimiter
	processors map[string]ContentProcessor
	logger     *slog.Logger
}

// TranslationCache is the interface for translation result caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// ContentProcessor is the interface for structured content processing.
type ContentProcessor interface {
	Extract(content string) (interface{}, []TextNode, error)
	Apply(parsed interface{}, nodes []TextNode, translations map[string]string) (string, error)
	ContentType() string
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithPairTable sets the language-pair table (default: DefaultPairTable).
func WithPairTable(pairs *PairTable) TranslatorOption {
	return func(t *Translator) {
		t.pairs = pairs
	}
}

// WithLoader uses an existing Loader instead of creating one from the factory.
func WithLoader(loader *Loader) TranslatorOption {
	return func(t *Translator) {
		t.loader = loader
	}
}

// WithLoaderOptions sets options for the Loader created by NewTranslator.
func WithLoaderOptions(opts ...LoaderOption) TranslatorOption {
	return func(t *Translator) {
		t.loaderOpts = append(t.loaderOpts, opts...)
	}
}

// WithCache sets the translation result cache.
func WithCache(cache TranslationCache) TranslatorOption {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithRetry retries retryable pipeline failures with exponential backoff.
func WithRetry(cfg RetryConfig) TranslatorOption {
	return func(t *Translator) {
		t.retry = &cfg
	}
}

// WithRateLimit limits pipeline calls across all models.
func WithRateLimit(cfg RateLimitConfig) TranslatorOption {
	return func(t *Translator) {
		t.limiter = NewRateLimiter(cfg)
	}
}

// WithProcessor registers a content processor.
func WithProcessor(processor ContentProcessor) TranslatorOption {
	return func(t *Translator) {
		t.processors[processor.ContentType()] = processor
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) TranslatorOption {
	return func(t *Translator) {
		t.logger = logger
	}
}

// NewTranslator creates a new Translator that loads pipelines from factory.
func NewTranslator(factory Factory, opts ...TranslatorOption) *Translator {
	t := &Translator{
		factory:    factory,
		processors: make(map[string]ContentProcessor),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.pairs == nil {
		t.pairs = DefaultPairTable()
	}
	if t.loader == nil {
		loaderOpts := append([]LoaderOption{WithLoaderLogger(t.logger)}, t.loaderOpts...)
		t.loader = NewLoader(factory, loaderOpts...)
	}

	return t
}

// Translate runs one request through the resolve, load and translate steps.
// It never panics on backend failures; every outcome is reported in Result.
func (t *Translator) Translate(ctx context.Context, req Request) Result {
	res, model, ok := t.prepare(req)
	if !ok {
		return res
	}

	var cacheKey string
	if c := t.resultCache(); c != nil {
		cacheKey = CacheKey(HashText(req.Text), model)
		if cached, found := c.Get(cacheKey); found {
			t.logger.Debug("translation cache hit", "model", model)
			res.Status = StatusDone
			res.Text = cached
			res.Cached = true
			return res
		}
	}

	p, err := t.pipeline(ctx, model)
	if err != nil {
		return t.fail(res, err)
	}

	text, err := t.run(ctx, p, model, req.Text)
	if err != nil {
		return t.fail(res, err)
	}

	t.store(cacheKey, text)

	res.Status = StatusDone
	res.Text = text
	return res
}

// TranslateContent translates structured content (e.g. "html") using the
// registered processor for contentType. Each distinct text node is
// translated once and written back into the content.
func (t *Translator) TranslateContent(ctx context.Context, req Request, contentType string) ContentResult {
	res, model, ok := t.prepare(req)
	if !ok {
		return ContentResult{Result: res}
	}

	processor, found := t.processors[contentType]
	if !found {
		return ContentResult{Result: t.fail(res, &ProcessorError{
			Message:     "no processor registered for content type",
			ContentType: contentType,
		})}
	}

	parsed, nodes, err := processor.Extract(req.Text)
	if err != nil {
		return ContentResult{Result: t.fail(res, err)}
	}

	out := ContentResult{Result: res, TotalNodes: len(nodes)}
	if len(nodes) == 0 {
		out.Status = StatusDone
		out.Content = req.Text
		return out
	}

	translations := make(map[string]string, len(nodes))
	var p Pipeline
	for _, node := range nodes {
		if _, done := translations[node.Hash]; done {
			continue
		}

		cacheKey := CacheKey(node.Hash, model)
		if c := t.resultCache(); c != nil {
			if cached, hit := c.Get(cacheKey); hit {
				translations[node.Hash] = cached
				out.CachedCount++
				continue
			}
		}

		if p == nil {
			p, err = t.pipeline(ctx, model)
			if err != nil {
				out.Result = t.fail(res, err)
				return out
			}
		}

		text, err := t.run(ctx, p, model, node.Text)
		if err != nil {
			out.Result = t.fail(res, err)
			return out
		}

		translations[node.Hash] = text
		out.TranslatedCount++
		t.store(cacheKey, text)
	}

	content, err := processor.Apply(parsed, nodes, translations)
	if err != nil {
		out.Result = t.fail(res, err)
		return out
	}

	out.Status = StatusDone
	out.Content = content
	out.Text = content
	out.Cached = out.TranslatedCount == 0
	return out
}

// TranslateHTML is a convenience method for translating HTML content.
func (t *Translator) TranslateHTML(ctx context.Context, req Request) ContentResult {
	return t.TranslateContent(ctx, req, "html")
}

// Pairs returns the language-pair table.
func (t *Translator) Pairs() *PairTable {
	return t.pairs
}

// Loader returns the pipeline loader.
func (t *Translator) Loader() *Loader {
	return t.loader
}

// prepare checks the input and resolves the model. It returns ok=false with
// a final Result when the request cannot proceed to translation.
func (t *Translator) prepare(req Request) (Result, string, bool) {
	res := Result{Source: req.Source, Target: req.Target}

	if strings.TrimSpace(req.Text) == "" {
		res.Status = StatusEmptyInput
		res.Err = ErrEmptyInput
		return res, "", false
	}

	model, ok := t.pairs.Resolve(req.Source, req.Target)
	if !ok {
		t.logger.Info("unsupported language pair", "source", req.Source, "target", req.Target)
		res.Status = StatusUnsupported
		res.Err = &UnsupportedPairError{Source: req.Source, Target: req.Target}
		return res, "", false
	}

	res.Model = model
	return res, model, true
}

// pipeline obtains the model's pipeline and applies the configured wrappers.
func (t *Translator) pipeline(ctx context.Context, model string) (Pipeline, error) {
	p, err := t.loader.Get(ctx, model)
	if err != nil {
		return nil, err
	}
	if t.limiter != nil {
		p = NewRateLimitedPipeline(p, t.limiter)
	}
	if t.retry != nil {
		cfg := *t.retry
		if cfg.OnRetry == nil {
			cfg.OnRetry = func(retry int, err error, delay time.Duration) {
				t.logger.Info("retrying translation", "model", model, "retry", retry, "delay", delay, "error", err)
			}
		}
		p = NewRetryablePipeline(p, cfg)
	}
	return p, nil
}

// run invokes the pipeline and extracts the first record's text.
func (t *Translator) run(ctx context.Context, p Pipeline, model, text string) (string, error) {
	outputs, err := p.Translate(ctx, text)
	if err != nil {
		return "", classify(err)
	}
	if len(outputs) == 0 {
		return "", &EmptyOutputError{Model: model}
	}
	return outputs[0].TranslationText, nil
}

// resultCache returns the result cache, or nil when there is none or the
// loader reloads on every call (a cached result would skip the reload).
func (t *Translator) resultCache() TranslationCache {
	if t.cache == nil || t.loader.ReloadsEachCall() {
		return nil
	}
	return t.cache
}

// store writes a result to the cache. A failed write only costs a later
// cache miss, so it is logged and otherwise ignored.
func (t *Translator) store(key, text string) {
	c := t.resultCache()
	if c == nil {
		return
	}
	if err := c.Set(key, text); err != nil {
		t.logger.Warn("cache write failed", "error", err)
	}
}

func (t *Translator) fail(res Result, err error) Result {
	t.logger.Warn("translation failed", "model", res.Model, "source", res.Source, "target", res.Target, "error", err)
	res.Status = StatusFailed
	res.Err = err
	return res
}

// classify wraps untyped pipeline errors as non-retryable provider errors.
func classify(err error) error {
	var providerErr *ProviderError
	var loadErr *LoadError
	switch {
	case errors.As(err, &providerErr), errors.As(err, &loadErr):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return &ProviderError{Message: "translation failed", Cause: err}
	}
}
