package extract

import (
	"regexp"
	"strings"
)

var (
	tenureRe      = regexp.MustCompile(`(?i)\b(Freehold|Leasehold)(?:\s*tenure)?\b`)
	tenureNoiseRe = regexp.MustCompile(`(?i)psf|floor|built`)

	attrFurnishingRe = regexp.MustCompile(`(?si)"attributes"\s*:\s*\{[^{}]*"furnishing"\s*:\s*"([^"]+)"`)
	furnishingRe     = regexp.MustCompile(`(?i)\b(fully\s+furnished|part(?:ly|ially)\s+furnished|unfurnished|bare\s+unit)\b`)

	propertyTypeRe = regexp.MustCompile(`(?i)"propertyType"\s*:\s*"([^"]+)"`)

	titleTypeRe     = regexp.MustCompile(`(?i)\b(Strata|Individual)\b(?:\s+title)?`)
	landTitleTypeRe = regexp.MustCompile(`(?i)\b(Residential|Commercial|Industrial|Agricultur(?:e|al)|Mixed)\b`)
	unitTypeRe      = regexp.MustCompile(`(?i)\b(Corner(?:\s+lot)?|Intermediate(?:\s+lot)?|End\s+lot)\b`)
	referenceRe     = regexp.MustCompile(`(?i)"referenceCode"\s*:\s*"([^"]+)"`)
)

// resolveTenure only trusts metatable text. Tenure words appearing in
// free copy ("freehold living at...") are too noisy to use.
func resolveTenure(p *Payload) string {
	scan := func(values []string) string {
		for _, txt := range values {
			if tenureNoiseRe.MatchString(txt) {
				continue
			}
			if m := tenureRe.FindStringSubmatch(txt); m != nil {
				return strings.Title(strings.ToLower(m[1]))
			}
		}
		return ""
	}
	if v := scan(p.stateMetatableValues()); v != "" {
		return v
	}
	return scan(p.domMetaItemTexts())
}

func canonFurnishing(raw string) string {
	l := strings.ToLower(raw)
	switch {
	case strings.Contains(l, "fully"):
		return "Fully Furnished"
	case strings.Contains(l, "part"):
		return "Partially Furnished"
	case strings.Contains(l, "bare"):
		return "Bare unit"
	case strings.Contains(l, "unfurnished"):
		return "Unfurnished"
	}
	return ""
}

// resolveFurnishing returns the canonical furnishing level plus the raw
// text it was derived from.
func resolveFurnishing(p *Payload) (canon, raw string) {
	if m := attrFurnishingRe.FindStringSubmatch(p.HTML); m != nil {
		if c := canonFurnishing(m[1]); c != "" {
			return c, m[1]
		}
	}
	scan := func(values []string) (string, string) {
		for _, txt := range values {
			if roomSkipRe.MatchString(txt) {
				continue
			}
			if m := furnishingRe.FindStringSubmatch(txt); m != nil {
				return canonFurnishing(m[1]), m[1]
			}
		}
		return "", ""
	}
	if c, r := scan(p.stateMetatableValues()); c != "" {
		return c, r
	}
	return scan(p.domMetaItemTexts())
}

// resolvePropertyType reads the listing state first, then any
// serialized propertyType field, then the rendered metatable.
func resolvePropertyType(p *Payload) string {
	paths := [][]any{
		{"listingData", "propertyType"},
		{"listingData", "propertyTypeText"},
		{"listingData", "propertyTypeLocalizedText"},
		{"listingData", "propertyTypeGroup"},
		{"propertyOverviewData", "propertyInfo", "propertyType"},
		{"propertyOverviewData", "propertyInfo", "propertyTypeText"},
	}
	for _, root := range p.Roots {
		for _, path := range paths {
			if v := normalizeSpace(jstring(root, path...)); v != "" {
				return v
			}
		}
	}
	if m := propertyTypeRe.FindStringSubmatch(p.HTML); m != nil {
		return normalizeSpace(m[1])
	}
	for _, item := range p.domMetatableItems() {
		if strings.Contains(strings.ToLower(item.label), "property type") {
			return normalizeSpace(item.value)
		}
	}
	return ""
}

// metaRowTexts joins label and value for every metatable row the page
// carries, serialized or rendered, so matching can key off the label.
func metaRowTexts(p *Payload) []string {
	var rows []string
	for _, block := range metatableBlocks(p.HTML) {
		for _, item := range blockItems(block) {
			rows = append(rows, item.label+": "+item.value)
		}
	}
	rows = append(rows, p.stateMetatableValues()...)
	for _, item := range p.domMetatableItems() {
		rows = append(rows, item.label+": "+item.value)
	}
	return append(rows, p.domMetaItemTexts()...)
}

// resolveTitleType distinguishes strata from individual titles using
// metatable rows only.
func resolveTitleType(p *Payload) string {
	for _, txt := range metaRowTexts(p) {
		if !strings.Contains(strings.ToLower(txt), "title") {
			continue
		}
		if m := titleTypeRe.FindStringSubmatch(txt); m != nil {
			return strings.Title(strings.ToLower(m[1]))
		}
	}
	return ""
}

// resolveLandTitleType reads the land use class from metatable rows.
func resolveLandTitleType(p *Payload) string {
	for _, txt := range metaRowTexts(p) {
		if !strings.Contains(strings.ToLower(txt), "land title") {
			continue
		}
		if m := landTitleTypeRe.FindStringSubmatch(txt); m != nil {
			v := strings.Title(strings.ToLower(m[1]))
			if strings.HasPrefix(v, "Agricultur") {
				v = "Agriculture"
			}
			return v
		}
	}
	return ""
}

// resolveUnitType picks up corner / intermediate / end lot labels.
func resolveUnitType(p *Payload) string {
	for _, txt := range metaRowTexts(p) {
		if roomSkipRe.MatchString(txt) {
			continue
		}
		if m := unitTypeRe.FindStringSubmatch(txt); m != nil {
			return normalizeSpace(strings.Title(strings.ToLower(m[1])))
		}
	}
	return ""
}

// resolveReferenceCode returns the agency's own listing reference.
func resolveReferenceCode(p *Payload) string {
	for _, root := range p.Roots {
		for _, path := range [][]any{
			{"listingData", "referenceCode"},
			{"listingData", "reference"},
		} {
			if v := normalizeSpace(anyToString(jget(root, path...))); v != "" {
				return v
			}
		}
	}
	if m := referenceRe.FindStringSubmatch(p.HTML); m != nil {
		return normalizeSpace(m[1])
	}
	return ""
}

// resolveTitle returns the listing headline.
func resolveTitle(p *Payload) string {
	for _, root := range p.Roots {
		if v := normalizeSpace(jstring(root, "listingData", "title")); v != "" {
			return v
		}
	}
	if v, ok := p.Doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && v != "" {
		return normalizeSpace(v)
	}
	if v := normalizeSpace(p.Doc.Find("h1").First().Text()); v != "" {
		return v
	}
	return normalizeSpace(p.Doc.Find("title").Text())
}
