// Command gomt translates text between languages with opus-mt models and
// can serve the translator as a web page.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/ZaguanLabs/gomt"
	"github.com/ZaguanLabs/gomt/cache"
	"github.com/ZaguanLabs/gomt/config"
	"github.com/ZaguanLabs/gomt/processor"
	"github.com/ZaguanLabs/gomt/provider"
	"github.com/ZaguanLabs/gomt/web"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("gomt", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Flags
	source := fs.String("source", "English", "Source language")
	target := fs.String("target", "German", "Target language")
	providerName := fs.String("provider", cfg.Provider, "Backend: huggingface, openai or mock")
	cacheBackend := fs.String("cache", cfg.Cache, "Result cache: memory, redis, sqlite or none")
	cacheTTL := fs.Int("cache-ttl", cfg.CacheTTL, "Cache TTL in seconds (0 = never expire)")
	pairsFile := fs.String("pairs", cfg.PairsFile, "YAML language-pair table (default: built-in)")
	serve := fs.Bool("serve", false, "Serve the web translator instead of translating once")
	addr := fs.String("addr", cfg.ListenAddr, "Listen address for --serve")
	preload := fs.Bool("preload", cfg.Preload, "Load every mapped model before translating or serving")
	htmlMode := fs.Bool("html", false, "Treat input as HTML and translate its text nodes")
	output := fs.String("output", "", "Output file (default: stdout)")
	outputShort := fs.String("o", "", "Output file (short for --output)")
	importCache := fs.String("import-cache", "", "Load cache entries from a JSON export before translating")
	exportCache := fs.String("export-cache", "", "Write cache entries to a JSON file after translating")
	list := fs.Bool("list", false, "List supported language pairs and exit")
	dryRun := fs.Bool("dry-run", false, "Show the model that would be used without loading it")
	jsonOutput := fs.Bool("json", false, "Output result as JSON")
	showVersion := fs.Bool("version", false, "Show version")
	quiet := fs.Bool("quiet", false, "Suppress progress output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		info := gomt.Build()
		fmt.Fprintf(stdout, "%s %s\n", gomt.Name, gomt.FullVersion())
		if info.Commit != "" {
			fmt.Fprintf(stdout, "  commit:  %s\n", info.Commit)
		}
		if info.BuildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", info.BuildDate)
		}
		return nil
	}

	if *outputShort != "" && *output == "" {
		*output = *outputShort
	}

	pairs := gomt.DefaultPairTable()
	if *pairsFile != "" {
		pairs, err = gomt.LoadPairTable(*pairsFile)
		if err != nil {
			return err
		}
	}

	if *list {
		return listPairs(stdout, pairs, *jsonOutput)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if !*quiet {
		logger = cfg.NewLogger(stderr)
	}

	// Dry runs resolve only; no backend is contacted
	if *dryRun {
		return runDryRun(stdout, pairs, *source, *target, *jsonOutput)
	}

	factory, err := newFactory(*providerName, cfg)
	if err != nil {
		return err
	}

	opts := []gomt.TranslatorOption{
		gomt.WithPairTable(pairs),
		gomt.WithProcessor(processor.NewHTMLProcessor()),
		gomt.WithLogger(logger),
		gomt.WithLoaderOptions(gomt.WithDevice(cfg.Device)),
	}
	if *providerName != config.ProviderMock {
		opts = append(opts, gomt.WithRetry(gomt.DefaultRetryConfig()))
	}

	resultCache, closeCache, err := newCache(*cacheBackend, *cacheTTL, cfg)
	if err != nil {
		return err
	}
	defer closeCache()
	if resultCache != nil {
		opts = append(opts, gomt.WithCache(resultCache))
	}

	if *importCache != "" {
		if resultCache == nil {
			return errors.New("--import-cache requires a cache backend")
		}
		res, err := cache.NewImporter(resultCache).ImportFromFile(*importCache)
		if err != nil {
			return fmt.Errorf("importing cache: %w", err)
		}
		logger.Info("cache imported", "entries", res.Imported, "skipped", res.Skipped, "failed", res.Failed)
	}

	translator := gomt.NewTranslator(factory, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *preload {
		start := time.Now()
		if err := translator.Loader().Warm(ctx, pairs.Models()...); err != nil {
			return fmt.Errorf("preloading models: %w", err)
		}
		logger.Info("models preloaded", "count", translator.Loader().Len(), "duration", time.Since(start))
	}

	if *serve {
		return runServer(ctx, translator, *addr, cfg, logger)
	}

	input, err := readInput(fs.Args(), stdin)
	if err != nil {
		return err
	}

	req := gomt.Request{Text: input, Source: *source, Target: *target}

	if !*quiet {
		fmt.Fprintf(stderr, "Translating %s -> %s...\n", *source, *target)
	}

	start := time.Now()
	var res gomt.ContentResult
	if *htmlMode {
		res = translator.TranslateHTML(ctx, req)
	} else {
		res.Result = translator.Translate(ctx, req)
	}
	elapsed := time.Since(start)

	if *exportCache != "" && resultCache != nil {
		if err := cache.NewExporter(resultCache).ExportToFile(*exportCache, map[string]string{"version": gomt.FullVersion()}); err != nil {
			return fmt.Errorf("exporting cache: %w", err)
		}
	}

	var out io.Writer = stdout
	if *output != "" && res.OK() {
		f, err := os.Create(*output) // #nosec G304 - CLI tool writes user-specified files
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if *jsonOutput {
		if err := outputJSON(out, res, elapsed); err != nil {
			return err
		}
	} else if res.OK() {
		fmt.Fprintln(out, res.Text)
	}

	if !res.OK() {
		return errors.New(res.Message())
	}

	if !*quiet {
		fmt.Fprintf(stderr, "%s (%s, %v)\n", res.Message(), res.Model, elapsed.Round(time.Millisecond))
		if *htmlMode {
			fmt.Fprintf(stderr, "  Nodes found:  %d\n", res.TotalNodes)
			fmt.Fprintf(stderr, "  Translated:   %d\n", res.TranslatedCount)
			fmt.Fprintf(stderr, "  From cache:   %d\n", res.CachedCount)
		}
	}

	return nil
}

// newFactory builds the backend named by name.
func newFactory(name string, cfg config.Config) (gomt.Factory, error) {
	switch name {
	case config.ProviderHuggingFace:
		return provider.NewHuggingFaceFactory(provider.HuggingFaceConfig{
			Token:        cfg.HFToken,
			BaseURL:      cfg.HFBaseURL,
			InferenceURL: cfg.HFInferenceURL,
			Timeout:      cfg.RequestTimeout,
		}), nil
	case config.ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, errors.New("OpenAI API key required (OPENAI_API_KEY env)")
		}
		return provider.NewOpenAIFactory(provider.OpenAIConfig{
			APIKey: cfg.OpenAIKey,
			Model:  cfg.OpenAIModel,
		}), nil
	case config.ProviderMock:
		return provider.NewMockFactory(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want huggingface, openai or mock)", name)
	}
}

// newCache opens the result cache. It returns a nil cache for "none".
func newCache(backend string, ttl int, cfg config.Config) (gomt.TranslationCache, func(), error) {
	noop := func() {}

	switch backend {
	case config.CacheNone:
		return nil, noop, nil
	case config.CacheMemory:
		return cache.NewBoundedInMemoryCache(ttl, cfg.CacheMaxEntries), noop, nil
	case config.CacheRedis:
		c, err := cache.NewRedisCache(cache.RedisConfig{URL: cfg.RedisURL, TTL: ttl})
		if err != nil {
			return nil, noop, err
		}
		return c, func() { c.Close() }, nil
	case config.CacheSQLite:
		c, err := cache.NewSQLiteCache(cfg.SQLitePath, ttl)
		if err != nil {
			return nil, noop, err
		}
		if _, err := c.Prune(); err != nil {
			c.Close()
			return nil, noop, err
		}
		return c, func() { c.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown cache %q (want memory, redis, sqlite or none)", backend)
	}
}

// readInput joins positional arguments, or reads stdin when there are none.
func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func runServer(ctx context.Context, translator *gomt.Translator, addr string, cfg config.Config, logger *slog.Logger) error {
	srv := web.New(translator,
		web.WithLogger(logger),
		web.WithWriteTimeout(cfg.RequestTimeout+30*time.Second),
	).HTTPServer(addr)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("serving translator", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down server")
	case err, ok := <-serverErrors:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func listPairs(w io.Writer, pairs *gomt.PairTable, jsonOut bool) error {
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(pairs.Entries())
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tTARGET\tMODEL")
	for _, e := range pairs.Entries() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Source, e.Target, e.Model)
	}
	return tw.Flush()
}

// runDryRun shows which model a pair resolves to without calling a backend.
func runDryRun(w io.Writer, pairs *gomt.PairTable, source, target string, jsonOut bool) error {
	model, ok := pairs.Resolve(source, target)

	if jsonOut {
		type dryRunOutput struct {
			Source    string `json:"source"`
			Target    string `json:"target"`
			Model     string `json:"model,omitempty"`
			Supported bool   `json:"supported"`
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(dryRunOutput{Source: source, Target: target, Model: model, Supported: ok})
	}

	if !ok {
		return &gomt.UnsupportedPairError{Source: source, Target: target}
	}
	fmt.Fprintf(w, "Dry run: %s -> %s uses %s\n", source, target, model)
	return nil
}

// JSONOutput represents the JSON output format.
type JSONOutput struct {
	Status          gomt.Status `json:"status"`
	Message         string      `json:"message"`
	Text            string      `json:"text,omitempty"`
	Source          string      `json:"source"`
	Target          string      `json:"target"`
	Model           string      `json:"model,omitempty"`
	Cached          bool        `json:"cached"`
	TotalNodes      int         `json:"total_nodes,omitempty"`
	TranslatedCount int         `json:"translated_count,omitempty"`
	CachedCount     int         `json:"cached_count,omitempty"`
	ElapsedMs       int64       `json:"elapsed_ms"`
}

// outputJSON writes the result as JSON.
func outputJSON(w io.Writer, res gomt.ContentResult, elapsed time.Duration) error {
	out := JSONOutput{
		Status:          res.Status,
		Message:         res.Message(),
		Text:            res.Text,
		Source:          res.Source,
		Target:          res.Target,
		Model:           res.Model,
		Cached:          res.Cached,
		TotalNodes:      res.TotalNodes,
		TranslatedCount: res.TranslatedCount,
		CachedCount:     res.CachedCount,
		ElapsedMs:       elapsed.Milliseconds(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
