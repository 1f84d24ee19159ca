package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"
)

// FormatVersion identifies the snapshot layout written by Exporter.
const FormatVersion = "gomt-cache/1"

// ErrUnsupportedFormat is returned when a snapshot has an unknown version.
var ErrUnsupportedFormat = errors.New("unsupported cache snapshot format")

// ExportFormat is the JSON snapshot of a result cache. Keys are the
// "<hash>:<model>" keys the translator writes.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Count      int               `json:"count"`
	Entries    []ExportEntry     `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ExportEntry is a single cached translation.
type ExportEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Lister is implemented by caches whose contents can be enumerated.
type Lister interface {
	TranslationCache
	// Entries returns all live entries.
	Entries() map[string]string
}

var (
	_ Lister = (*InMemoryCache)(nil)
	_ Lister = (*SQLiteCache)(nil)
	_ Lister = (*RedisCache)(nil)
)

// Exporter writes cache snapshots.
type Exporter struct {
	cache TranslationCache
	now   func() time.Time
}

// NewExporter creates an exporter for c.
func NewExporter(c TranslationCache) *Exporter {
	return &Exporter{cache: c, now: time.Now}
}

// Snapshot collects the cache contents, sorted by key.
func (e *Exporter) Snapshot(metadata map[string]string) (*ExportFormat, error) {
	lister, ok := e.cache.(Lister)
	if !ok {
		return nil, &CacheError{Op: "export", Cause: fmt.Errorf("%T cannot list its entries", e.cache)}
	}

	live := lister.Entries()
	snap := &ExportFormat{
		Version:    FormatVersion,
		ExportedAt: e.now().UTC().Format(time.RFC3339),
		Count:      len(live),
		Entries:    make([]ExportEntry, 0, len(live)),
		Metadata:   metadata,
	}
	for k, v := range live {
		snap.Entries = append(snap.Entries, ExportEntry{Key: k, Value: v})
	}
	sort.Slice(snap.Entries, func(i, j int) bool {
		return snap.Entries[i].Key < snap.Entries[j].Key
	})
	return snap, nil
}

// Export writes an indented JSON snapshot to w.
func (e *Exporter) Export(w io.Writer, metadata map[string]string) error {
	snap, err := e.Snapshot(metadata)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// ExportToFile writes a snapshot to path, replacing any existing file.
func (e *Exporter) ExportToFile(path string, metadata map[string]string) (err error) {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing snapshot file: %w", cerr)
		}
	}()

	return e.Export(f, metadata)
}

// ImportResult summarizes an import.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Skipped  int
	Failed   int
}

// Importer loads snapshots into a cache.
type Importer struct {
	cache     TranslationCache
	overwrite bool
}

// NewImporter creates an importer for c. Existing entries are overwritten.
func NewImporter(c TranslationCache) *Importer {
	return &Importer{cache: c, overwrite: true}
}

// KeepExisting makes the importer skip keys already present in the cache.
func (i *Importer) KeepExisting() *Importer {
	i.overwrite = false
	return i
}

// Import reads a snapshot from r. Entries with an empty key are skipped.
// A failed write is counted and does not stop the import.
func (i *Importer) Import(r io.Reader) (*ImportResult, error) {
	var snap ExportFormat
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if !supportedVersion(snap.Version) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, snap.Version)
	}

	res := &ImportResult{Version: snap.Version, Metadata: snap.Metadata}
	for _, entry := range snap.Entries {
		if entry.Key == "" {
			res.Skipped++
			continue
		}
		if !i.overwrite {
			if _, ok := i.cache.Get(entry.Key); ok {
				res.Skipped++
				continue
			}
		}
		if err := i.cache.Set(entry.Key, entry.Value); err != nil {
			res.Failed++
			continue
		}
		res.Imported++
	}
	return res, nil
}

// ImportFromFile reads a snapshot from path.
func (i *Importer) ImportFromFile(path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening snapshot file: %w", err)
	}
	defer f.Close()

	return i.Import(f)
}

// supportedVersion accepts the current layout and the unversioned 1.0 one.
func supportedVersion(v string) bool {
	switch v {
	case FormatVersion, "1.0":
		return true
	}
	return false
}
