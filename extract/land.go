package extract

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Plausibility band for land areas, in square feet. 200 covers small
// strata lots, 10M covers estate land; anything outside is parse noise.
const (
	landMinSqFt = 200.0
	landMaxSqFt = 10000000.0
	psfMin      = 1.0
	psfMax      = 10000.0
)

var (
	landLabelRe  = regexp.MustCompile(`(?i)\b(land\s*area|land\s*size|lot\s*size|site\s*area|keluasan\s*tanah|luas\s*tanah)\b`)
	landForbidRe = regexp.MustCompile(`(?i)built\s*-?up|floor\s*area`)
	landDimRe    = regexp.MustCompile(`(?i)([0-9][0-9,\.]*)\s*(?:ft|')?\s*[x×]\s*([0-9][0-9,\.]*)\s*(?:ft|')?(?:\s*[x×]\s*[0-9][0-9,\.]*)?`)
	landAreaRe   = regexp.MustCompile(`(?i)([0-9][0-9,\.]*)\s*(sq\.?\s*ft|sqft|sf|sq\.?\s*m|sqm|m²|acres?|ac\b|hectares?|ha\b)`)
	landPsfRe    = regexp.MustCompile(`(?i)(?:RM\s*)?([0-9][0-9,\.]*)\s*psf`)

	attrLandAreaRe     = regexp.MustCompile(`(?si)"attributes"\s*:\s*\{[^{}]*"landArea"\s*:\s*"([^"]+)"`)
	attrLandSizeUnitRe = regexp.MustCompile(`(?si)"attributes"\s*:\s*\{[^{}]*"sizeUnitLandArea"\s*:\s*"([^"]+)"`)

	landTextKeyRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)"landAreaText"\s*:\s*"([^"]+)"`),
		regexp.MustCompile(`(?i)"landAreaDisplay"\s*:\s*"([^"]+)"`),
		regexp.MustCompile(`(?i)"landAreaValue"\s*:\s*"([^"]+)"`),
		regexp.MustCompile(`(?i)"landSizeDisplay"\s*:\s*"([^"]+)"`),
		regexp.MustCompile(`(?i)"landSizeText"\s*:\s*"([^"]+)"`),
	}

	landPsfKeyRes = []struct {
		re   *regexp.Regexp
		prio int
		src  string
	}{
		{regexp.MustCompile(`(?i)"pricePerSizeUnitLandArea"\s*:\s*"([^"]+)"`), 6, "attr.pricePerSizeUnitLandArea"},
		{regexp.MustCompile(`(?i)"minimumPricePerSizeUnitLandArea"\s*:\s*"([^"]+)"`), 5, "attr.minimumPricePerSizeUnitLandArea"},
		{regexp.MustCompile(`(?i)"maximumPricePerSizeUnitLandArea"\s*:\s*"([^"]+)"`), 4, "attr.maximumPricePerSizeUnitLandArea"},
		{regexp.MustCompile(`(?i)"landAreaPsf"\s*:\s*"?([0-9][0-9,\.]*)"?`), 5, "listing.landAreaPsf"},
	}

	strataTypes = map[string]bool{
		"condominium":        true,
		"apartment":          true,
		"serviced residence": true,
		"soho":               true,
		"flat":               true,
	}
)

// LandResult carries the resolved land size plus its per-square-foot price.
type LandResult struct {
	SizeSqFt   float64
	Display    string
	Raw        string
	Source     string
	PSF        float64
	PSFDisplay string
	PSFSource  string
}

// landSqFtFromText parses an area out of free text. Dimension pairs like
// "40 x 80" multiply out in feet; labelled areas convert by unit; a bare
// number with a land label is taken as square feet.
func landSqFtFromText(txt string) (float64, bool) {
	if m := landDimRe.FindStringSubmatch(txt); m != nil {
		w, okW := parseNumber(m[1])
		l, okL := parseNumber(m[2])
		if okW && okL && w > 0 && l > 0 {
			return w * l, true
		}
	}
	if m := landAreaRe.FindStringSubmatch(txt); m != nil {
		if v, ok := parseNumber(m[1]); ok && v > 0 {
			if canon := canonicalLandUnit(m[2]); canon != "" {
				if sqft, ok := landToSqFt(v, canon); ok {
					return sqft, true
				}
			}
			return v, true
		}
	}
	if v, ok := parseNumber(txt); ok && v > 0 {
		return v, true
	}
	return 0, false
}

func landPlausible(sqft float64) bool {
	return sqft >= landMinSqFt && sqft <= landMaxSqFt
}

// resolveLand collects land-size candidates from every known source and
// arbitrates them. Strata properties keep a candidate only when a source
// labelled it explicitly, and never one that merely echoes the built-up.
func resolveLand(p *Payload, propertyType string, builtUpSqFt, price float64, isRent bool) LandResult {
	var res LandResult
	set := newCandidateSet()

	// Structured attributes block, unit alongside.
	if m := attrLandAreaRe.FindStringSubmatch(p.HTML); m != nil {
		raw := m[1]
		if v, ok := parseNumber(raw); ok && v > 0 {
			unit := UnitSqFt
			if mu := attrLandSizeUnitRe.FindStringSubmatch(p.HTML); mu != nil {
				if canon := canonicalLandUnit(mu[1]); canon != "" {
					unit = canon
				}
			}
			sqft, _ := landToSqFt(v, unit)
			if landPlausible(sqft) {
				set.addVal(raw, sqft, "attr.landArea", 6, true)
			}
		}
	}

	// Display-text JSON keys.
	for _, re := range landTextKeyRes {
		for _, m := range re.FindAllStringSubmatch(p.HTML, -1) {
			raw := normalizeSpace(m[1])
			if landForbidRe.MatchString(raw) {
				continue
			}
			if sqft, ok := landSqFtFromText(raw); ok && landPlausible(sqft) {
				set.addVal(raw, sqft, "attr.landText", 6, true)
			}
		}
	}

	// Structured metatable items from page state.
	for _, item := range p.jsonMetatableItems() {
		if !landLabelRe.MatchString(item.label) || landForbidRe.MatchString(item.label) {
			continue
		}
		if sqft, ok := landSqFtFromText(item.value); ok && landPlausible(sqft) {
			set.addVal(item.value, sqft, "json.metatable", 4, true)
		}
	}

	// Serialized metatable blocks.
	for _, txt := range p.stateMetatableValues() {
		if !landLabelRe.MatchString(txt) || landForbidRe.MatchString(txt) {
			continue
		}
		if sqft, ok := landSqFtFromText(txt); ok && landPlausible(sqft) {
			set.addVal(txt, sqft, "state.metatable", 4, false)
		}
	}

	// Rendered metatable.
	for _, item := range p.domMetatableItems() {
		txt := item.label + " " + item.value
		if !landLabelRe.MatchString(txt) || landForbidRe.MatchString(txt) {
			continue
		}
		if sqft, ok := landSqFtFromText(item.value); ok && landPlausible(sqft) {
			set.addVal(item.value, sqft, "dom.metatable", 3, false)
		}
	}

	// Hero details text, lowest-confidence textual source.
	hero := normalizeSpace(p.Doc.Find(`[dataautomationid="property-details"]`).Text())
	if hero != "" && landLabelRe.MatchString(hero) {
		for _, seg := range strings.Split(hero, "·") {
			if !landLabelRe.MatchString(seg) || landForbidRe.MatchString(seg) {
				continue
			}
			if sqft, ok := landSqFtFromText(seg); ok && landPlausible(sqft) {
				set.addVal(trimEdges(normalizeSpace(seg)), sqft, "dom.hero", 2, false)
			}
		}
	}

	// Strata guard: high-rise types rarely carry their own land. Keep a
	// candidate set only when some source labelled it explicitly, and
	// drop a value that merely echoes the built-up through a mislabelled
	// field. Landed types take the winning candidate as-is. A discarded
	// set suppresses the land PSF too.
	strata := strataTypes[strings.ToLower(strings.TrimSpace(propertyType))]
	discarded := false
	if strata {
		hasExplicit := false
		for _, c := range set.items {
			if c.explicit {
				hasExplicit = true
				break
			}
		}
		if !hasExplicit {
			set = newCandidateSet()
			discarded = true
		}
	}

	if best, ok := set.best(); ok {
		if strata && builtUpSqFt > 0 && math.Abs(best.num-builtUpSqFt) < 1.0 {
			ok = false
			discarded = true
		}
		if ok {
			res.SizeSqFt = best.num
			res.Raw = best.raw
			res.Source = best.source
			res.Display = formatNumber(best.num) + " sq. ft."
		}
	}
	if discarded {
		return res
	}

	// Land PSF: stated keys outrank metatable text, computed comes last.
	psfSet := newCandidateSet()
	for _, k := range landPsfKeyRes {
		if m := k.re.FindStringSubmatch(p.HTML); m != nil {
			if v, ok := parseNumber(m[1]); ok && v >= psfMin && v <= psfMax {
				psfSet.addVal(m[1], v, k.src, k.prio, true)
			}
		}
	}
	for _, txt := range p.stateMetatableValues() {
		if !landWordRe.MatchString(txt) || !psfWordRe.MatchString(txt) {
			continue
		}
		if m := landPsfRe.FindStringSubmatch(txt); m != nil {
			if v, ok := parseNumber(m[1]); ok && v >= psfMin && v <= psfMax {
				psfSet.addVal(txt, v, "state.metatable.psf", 4, false)
			}
		}
	}
	if res.SizeSqFt > 0 && !isRent && price >= derivePriceMin && price <= derivePriceMax {
		v := math.Round(price/res.SizeSqFt*100) / 100
		if v >= psfMin && v <= psfMax {
			psfSet.addVal(fmt.Sprintf("RM %s / %s sq. ft.", formatNumber(price), formatNumber(res.SizeSqFt)), v, "computed", 1, false)
		}
	}
	if best, ok := psfSet.best(); ok {
		res.PSF = best.num
		res.PSFSource = best.source
		res.PSFDisplay = fmt.Sprintf("%.2f", best.num)
	}
	return res
}
