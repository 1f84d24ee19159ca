package gomt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// OpusPublisher is the model registry namespace of the opus-mt models.
const OpusPublisher = "Helsinki-NLP"

// OpusModel returns the opus-mt model identifier for a language pair,
// e.g. "Helsinki-NLP/opus-mt-en-de".
func OpusModel(source, target Language) string {
	return fmt.Sprintf("%s/opus-mt-%s-%s", OpusPublisher, source.Code, target.Code)
}

// ParseOpusModel extracts the source and target codes from an opus-mt
// model identifier. Returns false if the identifier has another shape.
func ParseOpusModel(model string) (source, target string, ok bool) {
	name := model
	if i := strings.LastIndex(model, "/"); i >= 0 {
		name = model[i+1:]
	}
	rest, found := strings.CutPrefix(name, "opus-mt-")
	if !found {
		return "", "", false
	}
	parts := strings.Split(rest, "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// PairEntry is one row of a language-pair table.
type PairEntry struct {
	Source string `yaml:"source" json:"source"`
	Target string `yaml:"target" json:"target"`
	Model  string `yaml:"model" json:"model"`
}

// PairTable is an immutable mapping from language pairs to model identifiers,
// together with the source and target options a user may select.
type PairTable struct {
	models  map[Pair]string
	entries []PairEntry
	sources []string
	targets []string
}

// NewPairTable builds a table and validates it against the selectable
// options. If sources or targets is empty it is derived from the entries in
// order of first appearance. Every selectable (source, target) combination
// with distinct languages must be mapped.
func NewPairTable(entries []PairEntry, sources, targets []string) (*PairTable, error) {
	if len(entries) == 0 {
		return nil, errors.New("pair table has no entries")
	}

	if len(sources) == 0 {
		sources = uniqueInOrder(entries, func(e PairEntry) string { return e.Source })
	}
	if len(targets) == 0 {
		targets = uniqueInOrder(entries, func(e PairEntry) string { return e.Target })
	}

	t := &PairTable{
		models:  make(map[Pair]string, len(entries)),
		entries: append([]PairEntry(nil), entries...),
		sources: append([]string(nil), sources...),
		targets: append([]string(nil), targets...),
	}

	sourceSet := toSet(t.sources)
	targetSet := toSet(t.targets)

	for i, e := range entries {
		if e.Source == "" || e.Target == "" || e.Model == "" {
			return nil, fmt.Errorf("pair table entry %d: source, target and model are required", i)
		}
		if !sourceSet[e.Source] {
			return nil, fmt.Errorf("pair table entry %d: source %q is not a selectable option", i, e.Source)
		}
		if !targetSet[e.Target] {
			return nil, fmt.Errorf("pair table entry %d: target %q is not a selectable option", i, e.Target)
		}
		p := Pair{Source: e.Source, Target: e.Target}
		if _, dup := t.models[p]; dup {
			return nil, fmt.Errorf("pair table entry %d: duplicate pair %s -> %s", i, e.Source, e.Target)
		}
		t.models[p] = e.Model
	}

	for _, s := range t.sources {
		for _, tg := range t.targets {
			if s == tg {
				continue
			}
			if _, ok := t.models[Pair{Source: s, Target: tg}]; !ok {
				return nil, fmt.Errorf("pair table: selectable pair %s -> %s has no model", s, tg)
			}
		}
	}

	return t, nil
}

// DefaultPairTable returns the built-in English to German, French, Spanish,
// Italian and Dutch table.
func DefaultPairTable() *PairTable {
	var entries []PairEntry
	for _, target := range []Language{German, French, Spanish, Italian, Dutch} {
		entries = append(entries, PairEntry{
			Source: English.Label,
			Target: target.Label,
			Model:  OpusModel(English, target),
		})
	}

	t, err := NewPairTable(entries, nil, nil)
	if err != nil {
		panic("gomt: invalid default pair table: " + err.Error())
	}
	return t
}

// pairFile is the YAML layout read by ParsePairTable.
type pairFile struct {
	Sources []string    `yaml:"sources"`
	Targets []string    `yaml:"targets"`
	Pairs   []PairEntry `yaml:"pairs"`
}

// ParsePairTable reads a YAML pair table:
//
//	sources: [English]
//	targets: [German, French]
//	pairs:
//	  - {source: English, target: German, model: Helsinki-NLP/opus-mt-en-de}
//	  - {source: English, target: French, model: Helsinki-NLP/opus-mt-en-fr}
func ParsePairTable(r io.Reader) (*PairTable, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f pairFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding pair table: %w", err)
	}
	return NewPairTable(f.Pairs, f.Sources, f.Targets)
}

// LoadPairTable reads a YAML pair table from a file.
func LoadPairTable(path string) (*PairTable, error) {
	f, err := os.Open(path) // #nosec G304 - path is operator-provided config
	if err != nil {
		return nil, fmt.Errorf("opening pair table: %w", err)
	}
	defer f.Close()

	return ParsePairTable(f)
}

// Resolve returns the model identifier for a pair. An absent mapping is not
// an error; callers report it as unsupported.
func (t *PairTable) Resolve(source, target string) (string, bool) {
	model, ok := t.models[Pair{Source: source, Target: target}]
	return model, ok
}

// Sources returns the selectable source languages in display order.
func (t *PairTable) Sources() []string {
	return append([]string(nil), t.sources...)
}

// Targets returns the selectable target languages in display order.
func (t *PairTable) Targets() []string {
	return append([]string(nil), t.targets...)
}

// Entries returns all mapped pairs in display order.
func (t *PairTable) Entries() []PairEntry {
	return append([]PairEntry(nil), t.entries...)
}

// Models returns the distinct model identifiers in the table.
func (t *PairTable) Models() []string {
	return uniqueInOrder(t.entries, func(e PairEntry) string { return e.Model })
}

// Len returns the number of mapped pairs.
func (t *PairTable) Len() int {
	return len(t.entries)
}

func uniqueInOrder(entries []PairEntry, field func(PairEntry) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range entries {
		v := field(e)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
