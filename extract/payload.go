package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Payload is everything a resolver may look at for one page: the parsed
// DOM, every embedded JSON root found in script tags, and the raw HTML
// for regex fallback. Built once per page and treated as read-only.
type Payload struct {
	Doc   *goquery.Document
	Roots []any
	HTML  string
}

// Load parses a page into a Payload. It never fails: a page that cannot
// be parsed at all still yields a usable Payload whose DOM and JSON root
// list are empty, so every resolver degrades to its regex path.
func Load(html string) *Payload {
	p := &Payload{HTML: html}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(""))
	}
	p.Doc = doc
	p.Roots = collectJSONRoots(doc)
	return p
}

// collectJSONRoots scans script tags for embedded JSON. Next.js-style
// wrappers (props.pageProps.pageData.data) are promoted to extra roots so
// resolvers can use short relative paths regardless of nesting depth.
func collectJSONRoots(doc *goquery.Document) []any {
	var roots []any

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		typ := strings.ToLower(s.AttrOr("type", ""))
		id := s.AttrOr("id", "")
		if id != "__NEXT_DATA__" && typ != "application/json" && typ != "application/ld+json" {
			return
		}
		txt := strings.TrimSpace(s.Text())
		if txt == "" {
			return
		}
		var data any
		if err := json.Unmarshal([]byte(txt), &data); err != nil {
			// Malformed JSON is not an error condition: this root
			// simply does not exist and lower-priority sources apply.
			return
		}
		switch v := data.(type) {
		case []any:
			for _, item := range v {
				switch item.(type) {
				case map[string]any, []any:
					roots = append(roots, item)
				}
			}
		case map[string]any:
			roots = append(roots, v)
		}
	})

	var promoted []any
	for _, root := range roots {
		if pp, ok := jget(root, "props", "pageProps").(map[string]any); ok {
			promoted = append(promoted, pp)
			if pd, ok := pp["pageData"].(map[string]any); ok {
				promoted = append(promoted, pd)
				if dd, ok := pd["data"].(map[string]any); ok {
					promoted = append(promoted, dd)
				}
			}
		}
	}
	return append(roots, promoted...)
}

// ldObjects yields JSON-LD roots of the given @type. Pass "" to get every
// object that carries an @type.
func (p *Payload) ldObjects(atType string) []map[string]any {
	var out []map[string]any
	appendIfTyped := func(m map[string]any) {
		t, _ := m["@type"].(string)
		if t == "" {
			return
		}
		if atType == "" || t == atType {
			out = append(out, m)
		}
	}
	for _, root := range p.Roots {
		switch v := root.(type) {
		case map[string]any:
			appendIfTyped(v)
		case []any:
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					appendIfTyped(m)
				}
			}
		}
	}
	return out
}
