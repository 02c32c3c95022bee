package extract

import (
	"regexp"
	"strings"
)

var (
	shareLinkRe = regexp.MustCompile(`"shareLink"\s*:\s*"([^"]+)"`)
	listingIDRe = regexp.MustCompile(`"listingId"\s*:\s*"?([0-9A-Za-z-]+)"?`)
)

// resolveURL prefers the share link embedded in page state over the
// canonical and social meta tags.
func resolveURL(p *Payload) string {
	if m := shareLinkRe.FindStringSubmatch(p.HTML); m != nil {
		return strings.ReplaceAll(m[1], `\/`, "/")
	}
	if v, ok := p.Doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok && v != "" {
		return v
	}
	if v, ok := p.Doc.Find(`meta[property="og:url"]`).First().Attr("content"); ok && v != "" {
		return v
	}
	if v, ok := p.Doc.Find(`meta[name="twitter:url"]`).First().Attr("content"); ok && v != "" {
		return v
	}
	return ""
}

func resolveListingID(p *Payload) string {
	for _, root := range p.Roots {
		for _, path := range [][]any{{"listingData", "listingId"}, {"listingData", "id"}} {
			if v := anyToString(jget(root, path...)); v != "" {
				return v
			}
		}
	}
	if m := listingIDRe.FindStringSubmatch(p.HTML); m != nil {
		return m[1]
	}
	return ""
}

// normalizeAddress collapses whitespace, regularizes comma spacing and
// strips a trailing period.
func normalizeAddress(raw string) string {
	s := normalizeSpace(raw)
	s = strings.ReplaceAll(s, "&amp;", "&")
	parts := strings.Split(s, ",")
	kept := parts[:0]
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			kept = append(kept, part)
		}
	}
	s = strings.Join(kept, ", ")
	return strings.TrimSuffix(s, ".")
}

// resolveAddress reads the overview state, then structured data, then
// the rendered address node.
func resolveAddress(p *Payload) (addr, source string) {
	for _, root := range p.Roots {
		if v := jstring(root, "propertyOverviewData", "propertyInfo", "fullAddress"); v != "" {
			return normalizeAddress(v), "propertyOverview"
		}
	}
	for _, obj := range p.ldObjects("") {
		if v := jstring(obj, "spatialCoverage", "address", "streetAddress"); v != "" {
			return normalizeAddress(v), "jsonld"
		}
	}
	if v := p.Doc.Find(`[da-id="property-full-address"]`).First().Text(); v != "" {
		return normalizeAddress(v), "dom"
	}
	return "", ""
}

// Place is the state / district / subarea hierarchy for a listing.
type Place struct {
	State    string
	District string
	Subarea  string
}

// resolvePlace reads the localized place levels from page state, then
// walks the breadcrumb structured data. Breadcrumb position 2 is the
// state, 3 the district, 4 the subarea.
func resolvePlace(p *Payload) Place {
	var pl Place
	for _, root := range p.Roots {
		lp := jget(root, "listingData", "languagePlace")
		if lp == nil {
			lp = jget(root, "languagePlace")
		}
		if lp == nil {
			continue
		}
		pl.State = normalizeSpace(jstring(lp, "level1", "name"))
		pl.District = normalizeSpace(jstring(lp, "level2", "name"))
		pl.Subarea = normalizeSpace(jstring(lp, "level3", "name"))
		if pl.State != "" {
			return pl
		}
	}
	for _, obj := range p.ldObjects("BreadcrumbList") {
		items, _ := obj["itemListElement"].([]any)
		for _, it := range items {
			pos, ok := numFromAny(jget(it, "position"))
			if !ok {
				continue
			}
			name := normalizeSpace(jstring(it, "item", "name"))
			if name == "" {
				name = normalizeSpace(jstring(it, "name"))
			}
			switch int(pos) {
			case 2:
				pl.State = name
			case 3:
				pl.District = name
			case 4:
				pl.Subarea = name
			}
		}
		if pl.State != "" {
			break
		}
	}
	return pl
}

// resolveGeo returns latitude and longitude when present in page state.
func resolveGeo(p *Payload) (lat, lng float64, ok bool) {
	paths := [][]any{
		{"listingData", "location", "lat"},
		{"listingData", "lat"},
		{"propertyOverviewData", "propertyInfo", "lat"},
	}
	lngPaths := [][]any{
		{"listingData", "location", "lng"},
		{"listingData", "lng"},
		{"propertyOverviewData", "propertyInfo", "lng"},
	}
	for _, root := range p.Roots {
		for i, lp := range paths {
			la, okA := numFromAny(jget(root, lp...))
			lo, okO := numFromAny(jget(root, lngPaths[i]...))
			if okA && okO && la != 0 && lo != 0 {
				return la, lo, true
			}
		}
	}
	for _, obj := range p.ldObjects("") {
		la, okA := numFromAny(jget(obj, "geo", "latitude"))
		lo, okO := numFromAny(jget(obj, "geo", "longitude"))
		if okA && okO && la != 0 && lo != 0 {
			return la, lo, true
		}
	}
	return 0, 0, false
}
