package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxAmenities = 50

var (
	amenityDropRe  = regexp.MustCompile(`(?i)\b(psf|floor|built|tenure|title)\b`)
	amenitySkipRe  = regexp.MustCompile(`(?i)\b(see all|common facilities)\b`)
	facilityHeadRe = regexp.MustCompile(`(?i)^\s*(facilities|amenities)\s*$`)
)

// resolveAmenities gathers facility names from page state, then the
// rendered facility widgets. Capped and de-duplicated case-insensitively.
func resolveAmenities(p *Payload) []string {
	var out []string
	seen := map[string]bool{}
	add := func(raw string) {
		name := normalizeSpace(raw)
		if name == "" || len(name) > 60 {
			return
		}
		if amenityDropRe.MatchString(name) || amenitySkipRe.MatchString(name) {
			return
		}
		key := strings.ToLower(name)
		if seen[key] || len(out) >= maxAmenities {
			return
		}
		seen[key] = true
		out = append(out, name)
	}
	addList := func(v any) {
		items, _ := v.([]any)
		for _, it := range items {
			switch t := it.(type) {
			case string:
				add(t)
			default:
				add(firstString(it, "name", "label", "text", "value"))
			}
		}
	}

	for _, root := range p.Roots {
		for _, path := range [][]any{
			{"amenitiesData", "amenities"},
			{"amenitiesData", "items"},
			{"facilitiesData", "facilities"},
			{"facilitiesData", "items"},
			{"listingData", "facilities"},
			{"listingData", "amenities"},
		} {
			addList(jget(root, path...))
		}
		// Generic labelled sections: {label: "Facilities", items: [...]}.
		walkJSON(root, func(key string, val any) bool {
			m, ok := val.(map[string]any)
			if !ok {
				return true
			}
			label := firstString(m, "label", "title", "name")
			if facilityHeadRe.MatchString(label) {
				addList(m["items"])
				addList(m["values"])
			}
			return true
		})
		if len(out) > 0 {
			return out
		}
	}

	for _, sel := range []string{
		`[data-automation-id="property-facilities-section"] li`,
		`[da-id="property-amenities"] li`,
		`[da-id="facility-item"]`,
	} {
		p.Doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			add(s.Text())
		})
		if len(out) > 0 {
			return out
		}
	}

	// Last resort: find a Facilities heading and take the list below it.
	p.Doc.Find("h2, h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !facilityHeadRe.MatchString(normalizeSpace(s.Text())) {
			return true
		}
		s.NextAllFiltered("ul, div").First().Find("li").Each(func(_ int, li *goquery.Selection) {
			add(li.Text())
		})
		return len(out) == 0
	})
	return out
}
