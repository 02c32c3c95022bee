package input

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, root string) []Page {
	t.Helper()
	var pages []Page
	require.NoError(t, Walk(root, func(p Page) error {
		pages = append(pages, p)
		return nil
	}))
	return pages
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write(data)
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func TestWalkDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.html"), []byte("<html>b</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.html"), []byte("<html>a</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.htm"), []byte("<html>c</html>"), 0o644))

	pages := collect(t, dir)
	require.Len(t, pages, 3)
	assert.Equal(t, filepath.Join(dir, "a.html"), pages[0].Name)
	assert.Equal(t, "<html>a</html>", pages[0].HTML)
	assert.Equal(t, filepath.Join(dir, "b.html"), pages[1].Name)
	assert.Equal(t, filepath.Join(dir, "sub", "c.htm"), pages[2].Name)
}

func TestWalkSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one.html")
	require.NoError(t, os.WriteFile(path, []byte("<html>solo</html>"), 0o644))

	pages := collect(t, path)
	require.Len(t, pages, 1)
	assert.Equal(t, path, pages[0].Name)
	assert.Equal(t, "<html>solo</html>", pages[0].HTML)
}

func TestWalkZipArchive(t *testing.T) {
	dir := t.TempDir()
	// Extension deliberately wrong: the magic bytes decide.
	path := filepath.Join(dir, "dump.bin")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string][]byte{
		"pages/z.html": []byte("<html>z</html>"),
		"pages/a.html": gzipBytes(t, []byte("<html>gz member</html>")),
		"pages/a.json": []byte("{}"),
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	pages := collect(t, path)
	require.Len(t, pages, 2)
	assert.Equal(t, path+"!pages/a.html", pages[0].Name)
	assert.Equal(t, "<html>gz member</html>", pages[0].HTML)
	assert.Equal(t, path+"!pages/z.html", pages[1].Name)
	assert.Equal(t, "<html>z</html>", pages[1].HTML)
}

func TestWalkGzipFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html.gz")
	require.NoError(t, os.WriteFile(path, gzipBytes(t, []byte("<html>packed</html>")), 0o644))

	pages := collect(t, path)
	require.Len(t, pages, 1)
	assert.Equal(t, "<html>packed</html>", pages[0].HTML)
}

func TestWalkMissingRoot(t *testing.T) {
	err := Walk(filepath.Join(t.TempDir(), "nope"), func(Page) error { return nil })
	assert.Error(t, err)
}

func TestDecodeDropsInvalidUTF8(t *testing.T) {
	assert.Equal(t, "ab", decode([]byte{'a', 0xff, 'b'}))
	assert.Equal(t, "héllo", decode([]byte("héllo")))
}
