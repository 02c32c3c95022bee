package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

var (
	companySuffixRe = regexp.MustCompile(`(?i)\b(realty|properties|property|estate|sdn|bhd|holdings|development|agency|group|team)\b`)
	titleByRe       = regexp.MustCompile(`(?i)\bby\s+([A-Za-z][A-Za-z\s\.'@-]{2,60})$`)
	licenseValRe    = regexp.MustCompile(`(?i)\b(REN|PEA|REA)\s*[:\-]?\s*(\d{3,7})\b`)
	renTextRe       = regexp.MustCompile(`\bREN[:\-]?\s*(\d{3,7})\b`)
	profileIDRe     = regexp.MustCompile(`/property-agent/[^/-]+-(\d{4,9})(?:[#/?]|$)`)
	digitRunRe      = regexp.MustCompile(`^\d{4,9}$`)
)

const siteHost = "https://www.iproperty.com.my"

// agentCardPaths locate the agent object inside the contact widgets.
var agentCardPaths = [][]any{
	{"contactAgentData", "contactAgentCard", "agentInfoProps", "agent"},
	{"contactAgentData", "contactAgentStickyBar", "agentInfoProps", "agent"},
	{"contactAgentData", "contactAgentSheet", "agentInfoProps", "agent"},
}

// agentObjects returns every agent dict reachable from the known paths,
// contact widgets first.
func (p *Payload) agentObjects() []any {
	var out []any
	for _, root := range p.Roots {
		for _, path := range agentCardPaths {
			if a := jget(root, path...); a != nil {
				out = append(out, a)
			}
		}
		for _, path := range [][]any{
			{"enquiryModalData", "agent"},
			{"listingData", "agent"},
		} {
			if a := jget(root, path...); a != nil {
				out = append(out, a)
			}
		}
	}
	return out
}

// normalizeAgentName validates and tidies a human name. Company names,
// numbered strings and anonymous listers all come back empty.
func normalizeAgentName(raw string) string {
	name := normalizeSpace(raw)
	if len(name) < 3 || len(name) > 40 {
		return ""
	}
	if strings.EqualFold(name, "private advertiser") {
		return ""
	}
	if strings.ContainsAny(name, "0123456789") {
		return ""
	}
	if companySuffixRe.MatchString(name) {
		return ""
	}
	words := strings.Fields(name)
	if len(words) < 2 || len(words) > 4 {
		return ""
	}
	alpha := 0
	for _, r := range name {
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	if float64(alpha) < 0.6*float64(len([]rune(name))) {
		return ""
	}
	for i, w := range words {
		if w == strings.ToUpper(w) && len(w) <= 4 {
			continue // initials like "JJ" or "TAN" stay as written
		}
		words[i] = strings.Title(strings.ToLower(w))
	}
	return strings.Join(words, " ")
}

// resolveAgentName prefers the contact widgets, then lister arrays, then
// the rendered page, then a "by X" suffix in the title.
func resolveAgentName(p *Payload) (name, source string) {
	set := newCandidateSet()
	addName := func(raw, src string, prio int) {
		if n := normalizeAgentName(raw); n != "" {
			set.addVal(n, 0, src, prio, false)
		}
	}

	for _, a := range p.agentObjects() {
		addName(jstring(a, "name"), "contactAgentData", 4)
	}
	for _, root := range p.Roots {
		addName(jstring(root, "listingData", "agent", "agentName"), "contactAgentData", 4)
		addName(jstring(root, "listingData", "agent", "listerName"), "contactAgentData", 4)
		addName(jstring(root, "listingData", "listersInfo", 0, "listerName"), "flight", 3)
		addName(jstring(root, "listingData", "listers", 0, "name"), "flight", 3)
		agents, _ := jget(root, "agents").([]any)
		for _, a := range agents {
			addName(jstring(a, "name"), "flight", 3)
		}
	}
	for _, sel := range []string{`[da-id="agent-name"]`, `[data-automation-id="agent-name"]`, `a[href*="/property-agent/"]`} {
		p.Doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			addName(s.Text(), "dom", 2)
		})
	}
	if m := titleByRe.FindStringSubmatch(normalizeSpace(p.Doc.Find("title").Text())); m != nil {
		addName(m[1], "title", 1)
	}

	if best, ok := set.best(); ok {
		return best.raw, best.source
	}
	return "", ""
}

type phoneCandidate struct {
	raw    string
	digits string
	mobile bool
}

// resolveListerPhone scores every phone found on the agent objects.
// Mobiles outrank landlines, international formats outrank local ones,
// longer digit runs outrank shorter.
func resolveListerPhone(p *Payload) (raw, digits string) {
	var cands []phoneCandidate
	for _, a := range p.agentObjects() {
		for _, key := range []string{"mobile", "agentMobile", "phone", "phonePretty"} {
			v := jstring(a, key)
			if v == "" {
				continue
			}
			d := digitsOnly(v)
			if len(d) < 7 || len(d) > 15 {
				continue
			}
			cands = append(cands, phoneCandidate{
				raw:    normalizeSpace(v),
				digits: d,
				mobile: strings.Contains(strings.ToLower(key), "mobile"),
			})
		}
	}
	best := -1
	for i, c := range cands {
		if best < 0 || phoneBeats(c, cands[best]) {
			best = i
		}
	}
	if best < 0 {
		return "", ""
	}
	return cands[best].raw, cands[best].digits
}

func phoneBeats(a, b phoneCandidate) bool {
	if a.mobile != b.mobile {
		return a.mobile
	}
	aPlus, bPlus := strings.HasPrefix(a.raw, "+"), strings.HasPrefix(b.raw, "+")
	if aPlus != bPlus {
		return aPlus
	}
	if len(a.digits) != len(b.digits) {
		return len(a.digits) > len(b.digits)
	}
	return len(a.raw) > len(b.raw)
}

// scanAgentIDs finds agentId keys anywhere in page state, skipping
// organisation and user subtrees whose ids are not the agent's. Map keys
// are visited in sorted order so discovery order is stable.
func scanAgentIDs(v any, emit func(any)) {
	switch node := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch strings.ToLower(k) {
			case "organisation", "organization", "agency", "user":
				continue
			case "agentid", "agent_id":
				emit(node[k])
			}
			scanAgentIDs(node[k], emit)
		}
	case []any:
		for _, item := range node {
			scanAgentIDs(item, emit)
		}
	}
}

// resolveListerID finds the agent's numeric id. The candidate must be
// 4 to 9 digits and must not collide with the listing id itself.
func resolveListerID(p *Payload, listingID, agentName string) (id, source string) {
	set := newCandidateSet()
	addID := func(v any, src string, prio int) {
		s := digitsOnly(anyToString(v))
		if !digitRunRe.MatchString(s) || s == listingID {
			return
		}
		set.addVal(s, 0, src, prio, false)
	}

	for _, root := range p.Roots {
		for _, path := range agentCardPaths {
			addID(jget(root, append(append([]any{}, path...), "id")...), "contactAgentData", 5)
		}
		addID(jget(root, "listingData", "agent", "id"), "json.agent", 2)
		addID(jget(root, "listingData", "agent", "agentId"), "json.agent", 2)
		scanAgentIDs(root, func(v any) { addID(v, "flight", 4) })
	}
	for _, m := range profileIDRe.FindAllStringSubmatch(p.HTML, -1) {
		addID(m[1], "profileUrl", 3)
	}
	p.Doc.Find(`a[href*="/property-agent/"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		m := profileIDRe.FindStringSubmatch(href)
		if m == nil {
			return
		}
		prio := 1
		if agentName != "" && strings.EqualFold(normalizeSpace(s.Text()), agentName) {
			prio = 2
		}
		addID(m[1], "dom.anchor", prio)
	})

	if best, ok := set.best(); ok {
		return best.raw, best.source
	}
	return "", ""
}

// resolveAgencyName reads the contact card, falling back to the page.
func resolveAgencyName(p *Payload) string {
	for _, root := range p.Roots {
		if v := normalizeSpace(jstring(root, "contactAgentData", "contactAgentCard", "agency", "name")); v != "" {
			return v
		}
	}
	return normalizeSpace(p.Doc.Find(`[da-id="agent-agency-name"]`).First().Text())
}

// resolveAgencyID tries the enquiry modal first, then the contact cards,
// then organisation records.
func resolveAgencyID(p *Payload) (id, source string) {
	type lookup struct {
		path []any
		src  string
	}
	lookups := []lookup{
		{[]any{"enquiryModalData", "agency", "id"}, "enquiryModal"},
		{[]any{"contactAgentData", "contactAgentCard", "agency", "id"}, "contactAgentCard"},
		{[]any{"contactAgentData", "contactAgentStickyBar", "agency", "id"}, "contactAgentStickyBar"},
		{[]any{"listingData", "organisation", "organisationId"}, "organisation"},
		{[]any{"listingData", "organisations", 0, "id"}, "organisations"},
	}
	for _, pr := range lookups {
		for _, root := range p.Roots {
			if v := digitsOnly(anyToString(jget(root, pr.path...))); v != "" {
				return v, pr.src
			}
		}
	}
	return "", ""
}

// resolveLicense finds a board registration number, normalized to the
// form "REN 12345".
func resolveLicense(p *Payload) string {
	for _, a := range p.agentObjects() {
		for _, key := range []string{"license", "licenseNumber", "renNo", "ren", "registrationNo"} {
			if m := licenseValRe.FindStringSubmatch(jstring(a, key)); m != nil {
				return strings.ToUpper(m[1]) + " " + m[2]
			}
		}
	}
	body := p.Doc.Find("body").Clone()
	body.Find("script, style").Remove()
	if m := renTextRe.FindStringSubmatch(normalizeSpace(body.Text())); m != nil {
		return "REN " + m[1]
	}
	return ""
}

// resolveListerURL returns the agent profile link, absolute.
func resolveListerURL(p *Payload) string {
	var href string
	p.Doc.Find(`a[href*="/property-agent/"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		h, ok := s.Attr("href")
		if !ok || h == "" {
			return true
		}
		href = h
		return false
	})
	if href == "" {
		for _, a := range p.agentObjects() {
			for _, key := range []string{"profileUrl", "website"} {
				if v := jstring(a, key); strings.Contains(v, "/property-agent/") {
					href = v
					break
				}
			}
			if href != "" {
				break
			}
		}
	}
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "/") {
		return siteHost + href
	}
	return href
}
