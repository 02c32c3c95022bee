package extract

import (
	"fmt"
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	numberRe     = regexp.MustCompile(`(-?\d+(?:\.\d+)?)`)
	nonDigitRe   = regexp.MustCompile(`\D+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// parseNumber extracts the first signed decimal number from noisy text
// after stripping thousands separators. ok is false when no number is
// present at all.
func parseNumber(s string) (float64, bool) {
	m := numberRe.FindString(strings.ReplaceAll(s, ",", ""))
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// numFromAny coerces a JSON scalar (float64, string, int) to a number.
func numFromAny(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		return parseNumber(n)
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func digitsOnly(s string) string {
	return nonDigitRe.ReplaceAllString(s, "")
}

// isBlank reports whether a value carries no information. The sentinel
// set covers the placeholder strings the source site renders for missing
// fields; every resolver must consult it before trusting a value.
func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s := strings.TrimSpace(anyToString(v))
	switch strings.ToLower(s) {
	case "", "-", "n/a", "none":
		return true
	}
	return false
}

func anyToString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		if s == math.Trunc(s) && math.Abs(s) < 1e15 {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		if s {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

// normalizeSpace collapses whitespace runs, unescapes HTML entities and
// trims the result.
func normalizeSpace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(html.UnescapeString(s), " "))
}

// trimEdges strips separator noise (commas, pipes, bullets, dashes) left
// over when a value is sliced out of surrounding markup.
func trimEdges(s string) string {
	return strings.Trim(s, " ,-|•–—\t")
}

// Canonical land units and conversion factors to square feet. The token
// table maps the many unit spellings seen in the wild onto the canonical
// set; matching is substring-based over a lowercased, punctuation-folded
// copy of the text.
const (
	UnitSqFt    = "sq ft"
	UnitSqM     = "sqm"
	UnitAcre    = "acre"
	UnitHectare = "hectare"
)

var landUnitFactors = map[string]float64{
	UnitSqFt:    1.0,
	UnitSqM:     10.7639,
	UnitAcre:    43560.0,
	UnitHectare: 107639.0,
}

// Order matters: sqm tokens are checked before sq ft so "sq.m" is not
// swallowed by the bare "ft" fallback, and acre/hectare before both.
var landUnitTokens = []struct {
	canon  string
	tokens []string
}{
	{UnitHectare, []string{"hectare", "hectares", "ha"}},
	{UnitAcre, []string{"acre", "acres", "ac"}},
	{UnitSqM, []string{"sq m", "sqm", "square metre", "square meter", "m²", "m2"}},
	{UnitSqFt, []string{"sq ft", "sqft", "square feet", "sf", "ft²", "ft2", "ft"}},
}

// canonicalLandUnit maps free-text unit spelling to a canonical unit, or
// "" if nothing matches.
func canonicalLandUnit(unitText string) string {
	u := strings.ToLower(strings.TrimSpace(unitText))
	if u == "" {
		return ""
	}
	u = strings.NewReplacer(".", " ", ",", " ").Replace(u)
	u = whitespaceRe.ReplaceAllString(u, " ")
	for _, entry := range landUnitTokens {
		for _, tok := range entry.tokens {
			if tok == "ha" || tok == "ac" || tok == "ft" || tok == "sf" || tok == "m2" {
				// Short tokens must stand alone so "chalet" or
				// "loft" text cannot smuggle in a unit.
				if containsWord(u, tok) {
					return entry.canon
				}
				continue
			}
			if strings.Contains(u, tok) {
				return entry.canon
			}
		}
	}
	return ""
}

func containsWord(haystack, word string) bool {
	fields := strings.FieldsFunc(haystack, func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '²')
	})
	for _, f := range fields {
		if f == word {
			return true
		}
	}
	return false
}

// landToSqFt converts a value in a canonical unit to square feet; ok is
// false for unknown units.
func landToSqFt(value float64, canonUnit string) (float64, bool) {
	factor, ok := landUnitFactors[canonUnit]
	if !ok {
		return 0, false
	}
	return value * factor, true
}

func isSqMUnit(u string) bool {
	lu := strings.ToLower(u)
	return strings.Contains(lu, "sqm") || strings.Contains(lu, "m²") ||
		strings.Contains(lu, "sq.m") || strings.Contains(lu, "square meter") ||
		strings.Contains(lu, "square_meter")
}

// areaToSqFt converts a built-up area to square feet using the loose
// unit hint convention: anything not clearly metric is square feet.
func areaToSqFt(value float64, unitHint string) float64 {
	if isSqMUnit(unitHint) {
		return value * 10.7639
	}
	return value
}

// formatNumber renders a float with comma grouping, dropping a trailing
// ".00" for whole values.
func formatNumber(v float64) string {
	if math.Abs(v-math.Round(v)) < 1e-6 {
		return groupThousands(strconv.FormatInt(int64(math.Round(v)), 10))
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return groupThousands(s)
	}
	return groupThousands(s[:dot]) + s[dot:]
}

func groupThousands(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	var b strings.Builder
	n := len(digits)
	for i, c := range digits {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
