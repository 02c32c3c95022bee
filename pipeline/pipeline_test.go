package pipeline

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iproperty_extractor/config"
	"iproperty_extractor/models"
	"iproperty_extractor/storage"
)

func testPipeline(t *testing.T, root string, workers int) (*Pipeline, *config.Config, *storage.SQLiteStore) {
	t.Helper()
	cfg := &config.Config{
		Extract: config.ExtractConfig{Workers: workers, OutDir: t.TempDir()},
		Sources: map[string]*config.SourceConfig{
			"testsrc": {ID: "testsrc", Name: "Test Source", Root: root},
		},
	}
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(cfg, store, zerolog.Nop()), cfg, store
}

func writePage(t *testing.T, dir, name, listingID string) {
	t.Helper()
	html := `<html>
<head><link rel="canonical" href="https://www.iproperty.com.my/property/x/sale-` + listingID + `/"></head>
<body><script type="application/json">{"listingData":{"listingId":"` + listingID + `","propertyType":"Terrace House"}}</script></body>
</html>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(html), 0o644))
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRunSourceWritesOrderedCSV(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "c.html", "30000003")
	writePage(t, root, "a.html", "10000001")
	writePage(t, root, "b.html", "20000002")

	pipe, cfg, store := testPipeline(t, root, 4)
	require.NoError(t, pipe.RunSource(context.Background(), "testsrc"))

	rows := readRows(t, filepath.Join(cfg.Extract.OutDir, "testsrc_listings.csv"))
	require.Len(t, rows, 4)
	assert.Equal(t, models.ListingColumns, rows[0])

	idCol := -1
	for i, name := range models.ListingColumns {
		if name == "listing_id" {
			idCol = i
		}
	}
	require.GreaterOrEqual(t, idCol, 0)
	// Walk order is path order, regardless of worker scheduling.
	assert.Equal(t, "10000001", rows[1][idCol])
	assert.Equal(t, "20000002", rows[2][idCol])
	assert.Equal(t, "30000003", rows[3][idCol])

	stats, err := store.GetSourceStats("testsrc")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, "completed", stats.LastRunStatus)
	assert.Equal(t, 3, stats.TotalListings)
}

func TestRunSourceUnknownID(t *testing.T) {
	pipe, _, _ := testPipeline(t, t.TempDir(), 1)
	assert.Error(t, pipe.RunSource(context.Background(), "no-such-source"))
}

func TestRunSourceSecondSweepSkipsUnchanged(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "a.html", "10000001")

	pipe, cfg, _ := testPipeline(t, root, 2)
	ctx := context.Background()
	require.NoError(t, pipe.RunSource(ctx, "testsrc"))
	require.NoError(t, pipe.RunSource(ctx, "testsrc"))

	// Unchanged pages are still re-extracted; the CSV is rewritten whole.
	rows := readRows(t, filepath.Join(cfg.Extract.OutDir, "testsrc_listings.csv"))
	require.Len(t, rows, 2)
}

func TestPauseSkipsSweep(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "a.html", "10000001")

	pipe, cfg, _ := testPipeline(t, root, 1)
	pipe.Pause()
	require.True(t, pipe.IsPaused())
	require.NoError(t, pipe.RunAll(context.Background()))
	_, err := os.Stat(filepath.Join(cfg.Extract.OutDir, "testsrc_listings.csv"))
	assert.True(t, os.IsNotExist(err))

	pipe.Resume()
	require.NoError(t, pipe.RunAll(context.Background()))
	_, err = os.Stat(filepath.Join(cfg.Extract.OutDir, "testsrc_listings.csv"))
	assert.NoError(t, err)
}

func TestSourceIDsSorted(t *testing.T) {
	cfg := &config.Config{Sources: map[string]*config.SourceConfig{
		"b": {ID: "b"}, "a": {ID: "a"}, "c": {ID: "c"},
	}}
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	pipe := New(cfg, store, zerolog.Nop())
	assert.Equal(t, []string{"a", "b", "c"}, pipe.SourceIDs())
}
