package tags

import (
	"sort"
	"strings"
)

// Stats reports what a single Apply call replaced.
type Stats struct {
	Counts map[string]int `json:"counts" yaml:"counts"`
	Total  int            `json:"total" yaml:"total"`
	// Unused lists keys whose tag never appeared, in dictionary order.
	Unused []string `json:"unused,omitempty" yaml:"unused,omitempty"`
}

// Collision records that the value of Key contains the tag text of Contains.
type Collision struct {
	Key      string `json:"key" yaml:"key"`
	Contains string `json:"contains" yaml:"contains"`
}

type candidate struct {
	key   string
	tag   string
	value string
}

// Apply replaces every literal occurrence of every tag in text.
//
// The text is scanned once from left to right. At each position the longest
// matching tag wins, and inserted values are never scanned again, so a value
// that contains another tag is emitted as-is. All other bytes are unchanged.
func (d *Dictionary) Apply(text string, style Style) (string, Stats) {
	stats := Stats{Counts: make(map[string]int, d.Len())}
	if d.Len() == 0 {
		return text, stats
	}

	byFirst := d.candidates(style)
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for i := 0; i < len(text); {
		matched := false
		for _, c := range byFirst[text[i]] {
			if strings.HasPrefix(text[i:], c.tag) {
				b.WriteString(text[last:i])
				b.WriteString(c.value)
				stats.Counts[c.key]++
				stats.Total++
				i += len(c.tag)
				last = i
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}

	for _, e := range d.entries {
		if stats.Counts[e.Key] == 0 {
			stats.Unused = append(stats.Unused, e.Key)
		}
	}

	if stats.Total == 0 {
		return text, stats
	}
	b.WriteString(text[last:])
	return b.String(), stats
}

// candidates groups tags by their first byte, longest tag first.
func (d *Dictionary) candidates(style Style) map[byte][]candidate {
	out := make(map[byte][]candidate)
	for _, e := range d.entries {
		tag := style.Tag(e.Key)
		out[tag[0]] = append(out[tag[0]], candidate{key: e.Key, tag: tag, value: e.Value})
	}
	for _, list := range out {
		sort.SliceStable(list, func(i, j int) bool {
			return len(list[i].tag) > len(list[j].tag)
		})
	}
	return out
}

// Collisions lists every value that contains the tag text of another key.
// Applying the dictionary twice to such output is not idempotent.
func (d *Dictionary) Collisions(style Style) []Collision {
	var out []Collision
	for _, e := range d.entries {
		for _, other := range d.entries {
			if other.Key == e.Key {
				continue
			}
			if strings.Contains(e.Value, style.Tag(other.Key)) {
				out = append(out, Collision{Key: e.Key, Contains: other.Key})
			}
		}
	}
	return out
}
