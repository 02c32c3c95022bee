package extract

import (
	"regexp"
	"time"
)

// Malaysia runs UTC+8 with no DST.
var kualaLumpur = time.FixedZone("MYT", 8*3600)

var (
	postedEpochRe = regexp.MustCompile(`(?i)"(?:postedAt|postedDate|updatedAt|createdAt)"\s*:\s*"?(\d{10,13})"?`)
	listedOnRe    = regexp.MustCompile(`(?i)\bListed on\s+([0-9]{1,2}\s+\w+\s+\d{4})(?:\s+(\d{1,2}:\d{2}))?`)
)

var postedDateFloor = time.Date(2000, 1, 1, 0, 0, 0, 0, kualaLumpur)

// PostedAt carries the resolved posting instant plus display strings.
type PostedAt struct {
	Time  time.Time
	Date  string // 2006-01-02
	Clock string // 15:04, empty if the source had no time of day
}

// postedPlausible rejects dates before 2000 and dates in the future as
// seen from Malaysia.
func postedPlausible(t, now time.Time) bool {
	return !t.Before(postedDateFloor) && !t.After(now.In(kualaLumpur))
}

// resolvePostedDate finds when the listing went up. Epoch fields in page
// state win, then structured data, then a "Listed on ..." row. now is
// injected so plausibility checks stay reproducible.
func resolvePostedDate(p *Payload, now time.Time) (PostedAt, bool) {
	for _, m := range postedEpochRe.FindAllStringSubmatch(p.HTML, -1) {
		if v, ok := parseNumber(m[1]); ok {
			sec := int64(v)
			if len(m[1]) == 13 {
				sec /= 1000
			}
			t := time.Unix(sec, 0).In(kualaLumpur)
			if postedPlausible(t, now) {
				return PostedAt{t, t.Format("2006-01-02"), t.Format("15:04")}, true
			}
		}
	}

	for _, obj := range p.ldObjects("") {
		for _, key := range []string{"datePosted", "datePublished"} {
			raw := jstring(obj, key)
			if raw == "" {
				continue
			}
			for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
				t, err := time.ParseInLocation(layout, raw, kualaLumpur)
				if err != nil {
					continue
				}
				if postedPlausible(t, now) {
					clock := ""
					if layout != "2006-01-02" {
						clock = t.In(kualaLumpur).Format("15:04")
					}
					t = t.In(kualaLumpur)
					return PostedAt{t, t.Format("2006-01-02"), clock}, true
				}
				break
			}
		}
	}

	texts := append(p.stateMetatableValues(), p.domMetaItemTexts()...)
	for _, txt := range texts {
		m := listedOnRe.FindStringSubmatch(txt)
		if m == nil {
			continue
		}
		t, err := time.ParseInLocation("2 January 2006", normalizeSpace(m[1]), kualaLumpur)
		if err != nil {
			t, err = time.ParseInLocation("2 Jan 2006", normalizeSpace(m[1]), kualaLumpur)
		}
		if err != nil {
			continue
		}
		clock := ""
		if m[2] != "" {
			if hm, perr := time.Parse("15:04", m[2]); perr == nil {
				clock = hm.Format("15:04")
				t = time.Date(t.Year(), t.Month(), t.Day(), hm.Hour(), hm.Minute(), 0, 0, kualaLumpur)
			}
		}
		if postedPlausible(t, now) {
			return PostedAt{t, t.Format("2006-01-02"), clock}, true
		}
	}
	return PostedAt{}, false
}
