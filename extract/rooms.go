package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	attrBedroomRe  = regexp.MustCompile(`(?si)"attributes"\s*:\s*\{[^{}]*"bedroom"\s*:\s*"([^"]+)"`)
	attrBathroomRe = regexp.MustCompile(`(?si)"attributes"\s*:\s*\{[^{}]*"bathroom"\s*:\s*"([^"]+)"`)

	bedWordRe  = regexp.MustCompile(`(?i)\bbed(?:room)?s?\b|\bbilik(?:\s*tidur)?\b|\b\d+\s*R\b`)
	bathWordRe = regexp.MustCompile(`(?i)\bbath(?:room)?s?\b|\bbilik\s*air\b|\b\d+\s*B\b`)
	roomSkipRe = regexp.MustCompile(`(?i)\b(psf|floor|built|title)\b`)
	roomNumRe  = regexp.MustCompile(`(\d+(?:\s*\+\s*\d+)*)`)

	metaDescBedBathRe = regexp.MustCompile(`(?i)(\d+)\s*bed(?:room)?s?\b.*?(\d+)\s*bath(?:room)?s?\b`)
	metaDescRBRe      = regexp.MustCompile(`(?i)\b(\d+)R\b.*?\b(\d+)B\b`)
)

// RoomCount is the numeric value plus the raw token it came from, so a
// "3+1" survives as text while counting as 4.
type RoomCount struct {
	Count int
	Raw   string
}

// parseRoomToken sums additive tokens: "3+1" is 4 rooms.
func parseRoomToken(raw string) (int, bool) {
	m := roomNumRe.FindString(raw)
	if m == "" {
		return 0, false
	}
	total := 0
	for _, part := range strings.Split(m, "+") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, false
		}
		total += n
	}
	if total <= 0 || total > 99 {
		return 0, false
	}
	return total, true
}

// resolveBedBath walks the room sources in confidence order and stops at
// the first that yields either count.
func resolveBedBath(p *Payload) (bed, bath RoomCount) {
	// 1. Structured attributes.
	if m := attrBedroomRe.FindStringSubmatch(p.HTML); m != nil {
		if n, ok := parseRoomToken(m[1]); ok {
			bed = RoomCount{n, m[1]}
		}
	}
	if m := attrBathroomRe.FindStringSubmatch(p.HTML); m != nil {
		if n, ok := parseRoomToken(m[1]); ok {
			bath = RoomCount{n, m[1]}
		}
	}
	if bed.Count > 0 || bath.Count > 0 {
		return bed, bath
	}

	// 2. Property overview amenities from page state.
	for _, root := range p.Roots {
		amenities, _ := jget(root, "propertyOverviewData", "propertyInfo", "amenities").([]any)
		for _, a := range amenities {
			label := strings.ToLower(firstString(a, "unit", "name", "label"))
			valTxt := firstString(a, "value", "text")
			if valTxt == "" {
				valTxt = firstString(a, "unit")
			}
			n, ok := parseRoomToken(valTxt)
			if !ok {
				continue
			}
			switch {
			case bed.Count == 0 && bedWordRe.MatchString(label):
				bed = RoomCount{n, valTxt}
			case bath.Count == 0 && bathWordRe.MatchString(label):
				bath = RoomCount{n, valTxt}
			}
		}
	}
	if bed.Count > 0 || bath.Count > 0 {
		return bed, bath
	}

	// 3. Snapshot widget.
	for daID, out := range map[string]*RoomCount{"amenity-beds": &bed, "amenity-baths": &bath} {
		txt := normalizeSpace(p.Doc.Find(`.wide-property-snapshot-info [da-id="` + daID + `"] .amenity-value`).First().Text())
		if n, ok := parseRoomToken(txt); ok {
			*out = RoomCount{n, txt}
		}
	}
	if bed.Count > 0 || bath.Count > 0 {
		return bed, bath
	}

	// 4. JSON-LD additionalProperty.
	for _, obj := range p.ldObjects("") {
		props, _ := obj["additionalProperty"].([]any)
		for _, pr := range props {
			name := strings.ToLower(jstring(pr, "name"))
			valTxt := anyToString(jget(pr, "value"))
			n, ok := parseRoomToken(valTxt)
			if !ok {
				continue
			}
			switch {
			case bed.Count == 0 && strings.Contains(name, "bed"):
				bed = RoomCount{n, valTxt}
			case bath.Count == 0 && strings.Contains(name, "bath"):
				bath = RoomCount{n, valTxt}
			}
		}
	}
	if bed.Count > 0 || bath.Count > 0 {
		return bed, bath
	}

	// 5. Metatable item texts.
	for _, txt := range p.domMetaItemTexts() {
		if roomSkipRe.MatchString(txt) {
			continue
		}
		if n, ok := parseRoomToken(txt); ok {
			switch {
			case bed.Count == 0 && bedWordRe.MatchString(txt):
				bed = RoomCount{n, txt}
			case bath.Count == 0 && bathWordRe.MatchString(txt):
				bath = RoomCount{n, txt}
			}
		}
	}
	if bed.Count > 0 || bath.Count > 0 {
		return bed, bath
	}

	// 6. Meta description, loosest source.
	desc, _ := p.Doc.Find(`meta[name="description"]`).First().Attr("content")
	for _, re := range []*regexp.Regexp{metaDescBedBathRe, metaDescRBRe} {
		if m := re.FindStringSubmatch(desc); m != nil {
			if n, ok := parseRoomToken(m[1]); ok {
				bed = RoomCount{n, m[1]}
			}
			if n, ok := parseRoomToken(m[2]); ok {
				bath = RoomCount{n, m[2]}
			}
			break
		}
	}
	return bed, bath
}

var carParkRe = regexp.MustCompile(`(?i)\b(\d+)\s*(?:car\s*park(?:s)?|carpark(?:s)?|parking\s*(?:lot|lots|bay|bays|space|spaces|slot|slots))\b`)

// CarParkResult keeps every raw mention alongside the winning count.
type CarParkResult struct {
	Count int
	Raw   string
	All   []string
}

// resolveCarPark scans metatable text for parking mentions. The highest
// count wins; covered plus open bays often appear as separate rows.
func resolveCarPark(p *Payload) CarParkResult {
	var res CarParkResult
	scan := func(txt string) {
		if roomSkipRe.MatchString(txt) {
			return
		}
		for _, m := range carParkRe.FindAllStringSubmatch(txt, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil || n <= 0 {
				continue
			}
			res.All = append(res.All, normalizeSpace(m[0]))
			res.Raw = normalizeSpace(m[0])
			if n > res.Count {
				res.Count = n
			}
		}
	}
	for _, txt := range p.stateMetatableValues() {
		scan(txt)
	}
	for _, txt := range p.domMetaItemTexts() {
		scan(txt)
	}
	return res
}
