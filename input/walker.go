package input

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// Page is one HTML document pulled out of the input tree, identified by
// the path (or archive member path) it came from.
type Page struct {
	Name string
	HTML string
}

var (
	zipMagic  = []byte{'P', 'K', 0x03, 0x04}
	gzipMagic = []byte{0x1f, 0x8b}
)

func isHTMLName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".html" || ext == ".htm"
}

// Walk traverses root and calls fn for every HTML page it can decode.
// Plain .html files, zip archives and gzip blobs are all understood;
// extensions lie often enough that archives are sniffed by magic bytes.
// Entries are visited in sorted path order so output order is stable.
func Walk(root string, fn func(Page) error) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("stat input root: %w", err)
	}
	if !info.IsDir() {
		return walkFile(root, fn)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, werr error) error {
		if werr != nil {
			return werr
		}
		if d.IsDir() {
			return nil
		}
		return walkFile(path, fn)
	})
}

func walkFile(path string, fn func(Page) error) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return walkZip(path, data, fn)
	case bytes.HasPrefix(data, gzipMagic):
		html, err := gunzip(data)
		if err != nil {
			return fmt.Errorf("gunzip %s: %w", path, err)
		}
		return fn(Page{Name: path, HTML: decode(html)})
	case isHTMLName(path):
		return fn(Page{Name: path, HTML: decode(data)})
	}
	return nil
}

func walkZip(path string, data []byte, fn func(Page) error) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open zip %s: %w", path, err)
	}
	members := make([]*zip.File, 0, len(zr.File))
	for _, zf := range zr.File {
		if isHTMLName(zf.Name) {
			members = append(members, zf)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	for _, zf := range members {
		rc, err := zf.Open()
		if err != nil {
			return fmt.Errorf("open zip member %s!%s: %w", path, zf.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("read zip member %s!%s: %w", path, zf.Name, err)
		}
		if bytes.HasPrefix(content, gzipMagic) {
			if plain, gerr := gunzip(content); gerr == nil {
				content = plain
			}
		}
		if err := fn(Page{Name: path + "!" + zf.Name, HTML: decode(content)}); err != nil {
			return err
		}
	}
	return nil
}

func gunzip(data []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gr.Close()
	return io.ReadAll(gr)
}

// decode returns the bytes as a UTF-8 string, dropping invalid sequences
// rather than failing. Page dumps arrive in whatever encoding the proxy
// happened to save.
func decode(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r != utf8.RuneError || size > 1 {
			b.WriteRune(r)
		}
		data = data[size:]
	}
	return b.String()
}
