package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var bumiNegRe = regexp.MustCompile(`(?i)\bnon[-\s]?bumi\b|\bnot\s+bumi\b|\bno\s+bumi\b`)

// interpretBumiText decides yes/no from free text mentioning bumi lots.
func interpretBumiText(txt string) (val bool, ok bool) {
	l := strings.ToLower(txt)
	if !strings.Contains(l, "bumi") {
		return false, false
	}
	if bumiNegRe.MatchString(l) {
		return false, true
	}
	if strings.Contains(l, "lot") || strings.Contains(l, "bumi lot") {
		return true, true
	}
	return false, false
}

// resolveBumiLot walks the whole page state for bumi-lot flags, then
// chips and metatable rows. A positive flag anywhere wins outright.
func resolveBumiLot(p *Payload) (result, raw string) {
	var sawNo bool
	var noRaw string
	for _, root := range p.Roots {
		stop := !walkJSON(root, func(key string, val any) bool {
			lk := strings.ToLower(key)
			if lk != "bumilot" && lk != "isbumilot" {
				return true
			}
			switch v := val.(type) {
			case bool:
				if v {
					result, raw = "Yes", "true"
					return false
				}
				sawNo, noRaw = true, "false"
			case float64:
				if v != 0 {
					result, raw = "Yes", anyToString(v)
					return false
				}
				sawNo, noRaw = true, anyToString(v)
			case string:
				if yes, ok := interpretBumiText(v); ok {
					if yes {
						result, raw = "Yes", v
						return false
					}
					sawNo, noRaw = true, v
				} else if strings.EqualFold(v, "true") || strings.EqualFold(v, "yes") {
					result, raw = "Yes", v
					return false
				} else if strings.EqualFold(v, "false") || strings.EqualFold(v, "no") {
					sawNo, noRaw = true, v
				}
			}
			return true
		})
		if stop {
			return result, raw
		}
	}
	if sawNo {
		return "No", noRaw
	}

	scan := func(txt string) bool {
		yes, ok := interpretBumiText(txt)
		if !ok {
			return false
		}
		if yes {
			result, raw = "Yes", normalizeSpace(txt)
		} else {
			result, raw = "No", normalizeSpace(txt)
		}
		return true
	}
	done := false
	p.Doc.Find(`[da-id="listing-chip"], .meta-table__item`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if scan(s.Text()) {
			done = true
			return false
		}
		return true
	})
	if done {
		return result, raw
	}
	for _, txt := range p.stateMetatableValues() {
		if scan(txt) {
			return result, raw
		}
	}
	return "", ""
}
