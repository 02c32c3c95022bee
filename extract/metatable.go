package extract

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// The metatable is a recurring embedded structure on listing pages: an
// array of label/value "fact" items (tenure, sizes, PSF, posting date).
// Depending on the rendering framework version it shows up as parsed
// JSON under detailsData, as a serialized blob inside arbitrary script
// text, or as server-rendered DOM. It is the single richest fallback
// source, so the scanning helpers live here and are shared by most
// resolvers.

var (
	metatableBlockRe = regexp.MustCompile(`(?si)(?:"metatable"|"metaTable")\s*:\s*\{[^{}]*"items"\s*:\s*\[(.*?)\]\s*\}`)
	metaItemPairRe   = regexp.MustCompile(`\{[^{}]*(?:"label"|"title"|"name")\s*:\s*"([^"]+)"[^{}]*(?:"value"|"valueText"|"text")\s*:\s*"([^"]+)"[^{}]*\}`)
	metaValueRe      = regexp.MustCompile(`(?i)"(?:value|valueText|text)"\s*:\s*"([^"]+)"`)
)

type metaItem struct {
	label string
	value string
}

// metatableBlocks returns the raw items-array text of every serialized
// metatable found in the page source. Strictly scoped: only text inside a
// metatable "items" array is ever matched, nothing page-wide.
func metatableBlocks(html string) []string {
	var blocks []string
	for _, m := range metatableBlockRe.FindAllStringSubmatch(html, -1) {
		blocks = append(blocks, m[1])
	}
	return blocks
}

// blockItems parses label/value item pairs out of a serialized block.
func blockItems(block string) []metaItem {
	var items []metaItem
	for _, m := range metaItemPairRe.FindAllStringSubmatch(block, -1) {
		items = append(items, metaItem{label: m[1], value: m[2]})
	}
	return items
}

// blockValues returns every value-ish string in a serialized block,
// including items whose label did not survive serialization.
func blockValues(block string) []string {
	var vals []string
	for _, m := range metaValueRe.FindAllStringSubmatch(block, -1) {
		vals = append(vals, m[1])
	}
	return vals
}

// stateMetatableValues flattens every serialized metatable value in the
// page, in document order.
func (p *Payload) stateMetatableValues() []string {
	var vals []string
	for _, block := range metatableBlocks(p.HTML) {
		vals = append(vals, blockValues(block)...)
	}
	return vals
}

// jsonMetatableItems reads detailsData.metatable.items (or metaTable)
// from every JSON root.
func (p *Payload) jsonMetatableItems() []metaItem {
	var items []metaItem
	for _, root := range p.Roots {
		details := jget(root, "detailsData", "metatable", "items")
		if details == nil {
			details = jget(root, "detailsData", "metaTable", "items")
		}
		arr, ok := details.([]any)
		if !ok {
			continue
		}
		for _, it := range arr {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			label := firstString(m, "label", "title", "name", "amenityLabel")
			value := firstString(m, "value", "valueText", "text")
			if label == "" && value == "" {
				continue
			}
			items = append(items, metaItem{label: label, value: value})
		}
	}
	return items
}

// domMetatableItems reads the server-rendered property-details table.
func (p *Payload) domMetatableItems() []metaItem {
	var items []metaItem
	root := p.Doc.Find(`.meta-table-root[da-id="property-details"]`)
	root.Find(".meta-table__item").Each(func(_ int, s *goquery.Selection) {
		label := normalizeSpace(s.Find(".amenity-label").Text())
		value := normalizeSpace(s.Find(".amenity-value").Text())
		if value == "" {
			value = normalizeSpace(s.Text())
		}
		if label == "" && value == "" {
			return
		}
		items = append(items, metaItem{label: label, value: value})
	})
	return items
}

// domMetaItemTexts returns the flat text of every .meta-table__item on
// the page, the loosest DOM-side fact source.
func (p *Payload) domMetaItemTexts() []string {
	var texts []string
	p.Doc.Find(".meta-table__item").Each(func(_ int, s *goquery.Selection) {
		if t := normalizeSpace(s.Text()); t != "" {
			texts = append(texts, t)
		}
	})
	return texts
}

func firstString(v any, keys ...string) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	for _, k := range keys {
		if s := normalizeSpace(anyToString(m[k])); s != "" {
			return s
		}
	}
	return ""
}
