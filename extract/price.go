package extract

import "regexp"

// Price plausibility bands. A rent listing above the cap is almost
// certainly a mis-picked deposit or a sale price leaking into a rent
// page; a sale listing below the floor is a per-unit rate or a teaser.
const (
	maxRentPrice = 100000.0
	minSalePrice = 10000.0
)

var (
	priceBlockRe    = regexp.MustCompile(`(?si)"price"\s*:\s*\{([^{}]*)\}`)
	priceCurrencyRe = regexp.MustCompile(`"currency"\s*:\s*"([A-Z]+)"`)
	priceMinRe      = regexp.MustCompile(`"min"\s*:\s*"?([0-9][0-9,\.]*)`)
	priceMaxRe      = regexp.MustCompile(`"max"\s*:\s*"?([0-9][0-9,\.]*)`)
	rmAmountRe      = regexp.MustCompile(`(?i)\bRM\s*([0-9][0-9,\.]*)`)
	perUnitRe       = regexp.MustCompile(`(?i)\bpsf|\bpsm|\bper\s+sq`)
	forRentRe       = regexp.MustCompile(`(?i)\bfor\s+rent\b`)
)

// isRentPage detects rental listings from the metatable, the page title
// or the og:title. Rent status gates the price band and disables PSF
// derivation.
func isRentPage(p *Payload) bool {
	for _, t := range p.domMetaItemTexts() {
		if forRentRe.MatchString(t) {
			return true
		}
	}
	for _, vals := range [][]string{p.stateMetatableValues()} {
		for _, v := range vals {
			if forRentRe.MatchString(v) {
				return true
			}
		}
	}
	if forRentRe.MatchString(p.Doc.Find("title").Text()) {
		return true
	}
	og := p.Doc.Find(`meta[property="og:title"]`).AttrOr("content", "")
	return forRentRe.MatchString(og)
}

// resolvePrice returns the listing price in MYR, or ok=false. Non-MYR
// currencies are rejected outright rather than converted.
func resolvePrice(p *Payload, isRent bool) (price float64, currency string, source string, ok bool) {
	plausible := func(v float64) bool {
		if v <= 0 {
			return false
		}
		if isRent {
			return v <= maxRentPrice
		}
		return v >= minSalePrice
	}

	// 1. Embedded price object in page source. min is the asking price;
	// max only matters when min is absent.
	for _, bm := range priceBlockRe.FindAllStringSubmatch(p.HTML, -1) {
		block := bm[1]
		if cm := priceCurrencyRe.FindStringSubmatch(block); cm == nil || cm[1] != "MYR" {
			continue
		}
		raw := ""
		if mm := priceMinRe.FindStringSubmatch(block); mm != nil {
			raw = mm[1]
		} else if mm := priceMaxRe.FindStringSubmatch(block); mm != nil {
			raw = mm[1]
		}
		if v, found := parseNumber(raw); found && plausible(v) {
			return v, "MYR", "state.price", true
		}
	}

	// 2. JSON-LD RealEstateListing offers.
	for _, o := range p.ldObjects("RealEstateListing") {
		offers, okOffers := o["offers"].(map[string]any)
		if !okOffers {
			continue
		}
		cur, _ := offers["priceCurrency"].(string)
		if cur != "" && cur != "MYR" {
			continue
		}
		if v, found := numFromAny(offers["price"]); found && plausible(v) {
			return v, "MYR", "jsonld.offers", true
		}
	}

	// 3. Headline amounts in visible text. Lines carrying per-unit
	// labels are dropped first so an "RM 520 psf" figure can never win
	// over the actual asking price. Rent pages keep the smallest
	// qualifying amount (deposits and booking fees sit above the rent),
	// sale pages the largest (a "from RM x" teaser sits below).
	body := p.Doc.Find("body").Clone()
	body.Find("script,style").Remove()
	var best float64
	found := false
	for _, line := range splitVisibleLines(body.Text()) {
		if perUnitRe.MatchString(line) {
			continue
		}
		for _, m := range rmAmountRe.FindAllStringSubmatch(line, -1) {
			v, okNum := parseNumber(m[1])
			if !okNum || !plausible(v) {
				continue
			}
			if !found || (isRent && v < best) || (!isRent && v > best) {
				best = v
				found = true
			}
		}
	}
	if found {
		return best, "MYR", "dom.headline", true
	}
	return 0, "", "", false
}

func splitVisibleLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == '\n' {
			if line := normalizeSpace(text[start:i]); line != "" {
				lines = append(lines, line)
			}
			start = i + 1
		}
	}
	return lines
}
