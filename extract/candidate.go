package extract

import "strings"

// candidate is one possible value for a field, tagged with where it was
// found and how much the source is trusted. Candidates only live for the
// duration of a single resolver call.
type candidate struct {
	raw      string  // source text as seen on the page
	text     string  // normalized display value
	num      float64 // numeric value, when the field is numeric
	source   string  // provenance tag, e.g. "attr.landArea"
	priority int
	explicit bool // value sat under an explicitly matching label
	order    int  // discovery order, the final tiebreaker
}

// candidateSet collects candidates for one field, deduplicating by
// case-insensitive raw text so the same fact found through overlapping
// sources is only counted once.
type candidateSet struct {
	items []candidate
	seen  map[string]struct{}
}

func newCandidateSet() *candidateSet {
	return &candidateSet{seen: make(map[string]struct{})}
}

func (cs *candidateSet) add(c candidate) {
	key := strings.ToLower(normalizeSpace(c.raw))
	if key != "" {
		if _, dup := cs.seen[key]; dup {
			return
		}
		cs.seen[key] = struct{}{}
	}
	c.order = len(cs.items)
	cs.items = append(cs.items, c)
}

// addVal is add for the common case of a raw/value pair with no
// separate display text.
func (cs *candidateSet) addVal(raw string, num float64, source string, priority int, explicit bool) {
	cs.add(candidate{raw: raw, num: num, source: source, priority: priority, explicit: explicit})
}

func (cs *candidateSet) empty() bool { return len(cs.items) == 0 }

// best returns the arbitration winner: highest priority, then explicit
// over implicit, then first seen. Later equal-ranked candidates never
// displace an earlier winner, so resolution is deterministic for a fixed
// traversal order.
func (cs *candidateSet) best() (candidate, bool) {
	var won bool
	var win candidate
	for _, c := range cs.items {
		if !won || beats(c, win) {
			win = c
			won = true
		}
	}
	return win, won
}

func beats(a, b candidate) bool {
	if a.priority != b.priority {
		return a.priority > b.priority
	}
	if a.explicit != b.explicit {
		return a.explicit
	}
	return a.order < b.order
}
