package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setOnly is a cache that cannot list its entries.
type setOnly struct{ err error }

func (s setOnly) Get(string) (string, bool) { return "", false }
func (s setOnly) Set(string, string) error  { return s.err }

func decodeSnapshot(t *testing.T, buf *bytes.Buffer) ExportFormat {
	t.Helper()
	var snap ExportFormat
	require.NoError(t, json.Unmarshal(buf.Bytes(), &snap))
	return snap
}

func TestExporter_Export(t *testing.T) {
	c := NewInMemoryCache(3600)
	c.Set("h2:Helsinki-NLP/opus-mt-en-es", "Mundo")
	c.Set("h1:Helsinki-NLP/opus-mt-en-es", "Hola")

	exp := NewExporter(c)
	exp.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	var buf bytes.Buffer
	require.NoError(t, exp.Export(&buf, map[string]string{"version": "test"}))

	snap := decodeSnapshot(t, &buf)
	assert.Equal(t, FormatVersion, snap.Version)
	assert.Equal(t, "2026-03-01T12:00:00Z", snap.ExportedAt)
	assert.Equal(t, 2, snap.Count)
	assert.Equal(t, "test", snap.Metadata["version"])
	assert.Equal(t, []ExportEntry{
		{Key: "h1:Helsinki-NLP/opus-mt-en-es", Value: "Hola"},
		{Key: "h2:Helsinki-NLP/opus-mt-en-es", Value: "Mundo"},
	}, snap.Entries)
}

func TestExporter_EmptyCache(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExporter(NewInMemoryCache(0)).Export(&buf, nil))

	snap := decodeSnapshot(t, &buf)
	assert.Zero(t, snap.Count)
	assert.NotNil(t, snap.Entries)
	assert.Empty(t, snap.Entries)
}

func TestExporter_NotListable(t *testing.T) {
	var buf bytes.Buffer
	err := NewExporter(setOnly{}).Export(&buf, nil)

	var cerr *CacheError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "export", cerr.Op)
	assert.Zero(t, buf.Len())
}

func TestExporter_Redis(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	mock.ExpectScan(0, "gomt:*", scanBatch).SetVal([]string{"gomt:h1:m", "gomt:h2:m"}, 7)
	mock.ExpectMGet("gomt:h1:m", "gomt:h2:m").SetVal([]interface{}{"Hallo", nil})
	mock.ExpectScan(7, "gomt:*", scanBatch).SetVal([]string{"gomt:h3:m"}, 0)
	mock.ExpectMGet("gomt:h3:m").SetVal([]interface{}{"Welt"})

	snap, err := NewExporter(NewRedisCacheFromClient(db, 0, "")).Snapshot(nil)
	require.NoError(t, err)
	assert.Equal(t, []ExportEntry{
		{Key: "h1:m", Value: "Hallo"},
		{Key: "h3:m", Value: "Welt"},
	}, snap.Entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImporter_Import(t *testing.T) {
	data := `{
		"version": "gomt-cache/1",
		"entries": [
			{"key": "h1:Helsinki-NLP/opus-mt-en-de", "value": "Hallo"},
			{"key": "", "value": "orphan"},
			{"key": "h2:Helsinki-NLP/opus-mt-en-de", "value": "Welt"}
		],
		"metadata": {"version": "0.1.0"}
	}`

	c := NewInMemoryCache(0)
	res, err := NewImporter(c).Import(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	assert.Zero(t, res.Failed)
	assert.Equal(t, "0.1.0", res.Metadata["version"])

	v, ok := c.Get("h2:Helsinki-NLP/opus-mt-en-de")
	assert.True(t, ok)
	assert.Equal(t, "Welt", v)
}

func TestImporter_LegacyVersion(t *testing.T) {
	data := `{"version": "1.0", "entries": [{"key": "k", "value": "v"}]}`
	res, err := NewImporter(NewInMemoryCache(0)).Import(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
}

func TestImporter_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", "not json"},
		{"unknown version", `{"version": "2.0", "entries": []}`},
		{"missing version", `{"entries": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewImporter(NewInMemoryCache(0)).Import(strings.NewReader(tt.data))
			assert.Error(t, err)
		})
	}

	_, err := NewImporter(NewInMemoryCache(0)).Import(strings.NewReader(`{"version": "9"}`))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestImporter_KeepExisting(t *testing.T) {
	c := NewInMemoryCache(0)
	c.Set("k1", "local")

	data := `{"version": "gomt-cache/1", "entries": [{"key": "k1", "value": "remote"}, {"key": "k2", "value": "new"}]}`
	res, err := NewImporter(c).KeepExisting().Import(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	v, _ := c.Get("k1")
	assert.Equal(t, "local", v)
}

func TestImporter_CountsFailures(t *testing.T) {
	data := `{"version": "gomt-cache/1", "entries": [{"key": "a", "value": "1"}, {"key": "b", "value": "2"}]}`
	res, err := NewImporter(setOnly{err: errors.New("read-only")}).Import(strings.NewReader(data))
	require.NoError(t, err)
	assert.Zero(t, res.Imported)
	assert.Equal(t, 2, res.Failed)
}

func TestExportImport_FileRoundTrip(t *testing.T) {
	src := NewInMemoryCache(0)
	src.Set("k1:Helsinki-NLP/opus-mt-en-fr", "Bonjour")
	src.Set("k2:Helsinki-NLP/opus-mt-en-fr", "Monde")

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, NewExporter(src).ExportToFile(path, nil))

	dst, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"), 0)
	require.NoError(t, err)
	defer dst.Close()

	res, err := NewImporter(dst).ImportFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)

	v, ok := dst.Get("k1:Helsinki-NLP/opus-mt-en-fr")
	assert.True(t, ok)
	assert.Equal(t, "Bonjour", v)

	_, err = NewImporter(dst).ImportFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
