package extract

import (
	"math"
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// Bounds gating the derived built-up PSF: outside these the price/area
// ratio is meaningless (partial data, mixed units, project-level pages).
const (
	deriveAreaMinSqFt = 400.0
	deriveAreaMaxSqFt = 20000.0
	derivePriceMin    = 10000.0
	derivePriceMax    = 50000000.0
)

var (
	attrBuiltUpRe  = regexp.MustCompile(`(?si)"attributes"\s*:\s*\{[^{}]*"builtUp"\s*:\s*"([^"]+)"`)
	attrSizeUnitRe = regexp.MustCompile(`(?si)"attributes"\s*:\s*\{[^{}]*"sizeUnit"\s*:\s*"([^"]+)"`)
	builtLabelRe   = regexp.MustCompile(`(?i)(built[\s-]?up|floor\s*area|size|keluasan|luas)`)
	builtAreaRe    = regexp.MustCompile(`(?i)([0-9][0-9,\.]*)\s*(sq\.?\s*ft|sqft|sf|sqm|m²|sq\.m)`)
	psfWordRe      = regexp.MustCompile(`(?i)\bpsf\b`)
	landWordRe     = regexp.MustCompile(`(?i)\bland\b`)
	metricHintRe   = regexp.MustCompile(`(?i)m²|sqm|meter`)
	imperialHintRe = regexp.MustCompile(`(?i)ft|sq`)
	faqPsfRe       = regexp.MustCompile(`(?i)(Current\s+PSF|Price\s+per\s+square\s+foot)`)

	builtUpPsfKeyRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)"pricePerSizeUnitBuiltUp"\s*:\s*"([^"]+)"`),
		regexp.MustCompile(`(?i)"minimumPricePerSizeUnitBuiltUp"\s*:\s*"([^"]+)"`),
		regexp.MustCompile(`(?i)"maximumPricePerSizeUnitBuiltUp"\s*:\s*"([^"]+)"`),
		regexp.MustCompile(`(?i)"minimumPricePerSizeUnit"\s*:\s*"([^"]+)"`),
		regexp.MustCompile(`(?i)"maximumPricePerSizeUnit"\s*:\s*"([^"]+)"`),
		regexp.MustCompile(`(?i)"floorAreaPsf"\s*:\s*"?([0-9][0-9,\.]*)"?`),
		regexp.MustCompile(`(?i)"builtUpPsf"\s*:\s*"?([0-9][0-9,\.]*)"?`),
	}
)

// resolveBuiltUp finds the built-up (floor) area and its unit text.
func resolveBuiltUp(p *Payload) (val float64, unit string, ok bool) {
	// 1. Structured attributes block.
	if m := attrBuiltUpRe.FindStringSubmatch(p.HTML); m != nil {
		raw := m[1]
		if v, found := parseNumber(raw); found && v > 0 {
			if mu := attrSizeUnitRe.FindStringSubmatch(p.HTML); mu != nil {
				return v, mu[1], true
			}
			switch {
			case imperialHintRe.MatchString(raw):
				return v, UnitSqFt, true
			case metricHintRe.MatchString(raw):
				return v, UnitSqM, true
			default:
				return v, UnitSqFt, true
			}
		}
	}

	// 2. Serialized metatable values.
	for _, txt := range p.stateMetatableValues() {
		if !builtLabelRe.MatchString(txt) {
			continue
		}
		if m := builtAreaRe.FindStringSubmatch(txt); m != nil {
			if v, found := parseNumber(m[1]); found && v > 0 {
				return v, m[2], true
			}
		}
	}

	// 3. DOM metatable items.
	for _, txt := range p.domMetaItemTexts() {
		if !builtLabelRe.MatchString(txt) {
			continue
		}
		if m := builtAreaRe.FindStringSubmatch(txt); m != nil {
			if v, found := parseNumber(m[1]); found && v > 0 {
				return v, m[2], true
			}
		}
	}

	// 4. Details widget / hero block free text.
	for _, sel := range []string{`[dataautomationid="more-details-widget"]`, "h1"} {
		txt := normalizeSpace(p.Doc.Find(sel).Parent().Text())
		if txt == "" {
			continue
		}
		if m := builtAreaRe.FindStringSubmatch(txt); m != nil {
			if v, found := parseNumber(m[1]); found && v > 0 {
				return v, m[2], true
			}
		}
	}
	return 0, "", false
}

// resolveBuiltUpPSF finds a directly stated built-up price-per-square-foot.
func resolveBuiltUpPSF(p *Payload) (float64, bool) {
	for _, re := range builtUpPsfKeyRes {
		if m := re.FindStringSubmatch(p.HTML); m != nil {
			if v, found := parseNumber(m[1]); found && v > 0 {
				return v, true
			}
		}
	}
	for _, txt := range p.stateMetatableValues() {
		if psfWordRe.MatchString(txt) && !landWordRe.MatchString(txt) {
			if v, found := parseNumber(txt); found && v > 0 {
				return v, true
			}
		}
	}
	for _, txt := range p.domMetaItemTexts() {
		if psfWordRe.MatchString(txt) && !landWordRe.MatchString(txt) {
			if v, found := parseNumber(txt); found && v > 0 {
				return v, true
			}
		}
	}
	// FAQ widget as last resort.
	var faqVal float64
	var faqOK bool
	p.Doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Children().Length() > 0 {
			return true
		}
		if !faqPsfRe.MatchString(s.Text()) {
			return true
		}
		if v, found := parseNumber(normalizeSpace(s.Parent().Text())); found && v > 0 {
			faqVal, faqOK = v, true
			return false
		}
		return true
	})
	return faqVal, faqOK
}

// deriveBuiltUpPSF computes price/area when no stated PSF exists. Never
// applied to rentals, and only inside the sanity bands above.
func deriveBuiltUpPSF(price, areaVal float64, areaUnit string, isRent bool) (float64, bool) {
	if isRent || price <= 0 || areaVal <= 0 {
		return 0, false
	}
	sqft := areaToSqFt(areaVal, areaUnit)
	if sqft < deriveAreaMinSqFt || sqft > deriveAreaMaxSqFt {
		return 0, false
	}
	if price < derivePriceMin || price > derivePriceMax {
		return 0, false
	}
	return math.Round(price/sqft*100) / 100, true
}
