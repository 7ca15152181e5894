// Package tags holds the placeholder dictionary shared by the legalpub tools and
// applies it to document text by literal substitution.
package tags

import (
	"fmt"
	"sort"
)

// Style controls how a dictionary key is rendered as tag text inside a document.
type Style int

const (
	// StyleBare uses the key text verbatim (e.g. company_address).
	StyleBare Style = iota
	// StyleBraced wraps the key in braces (e.g. {company_address}).
	StyleBraced
)

// Tag returns the literal text that marks key in a document.
func (s Style) Tag(key string) string {
	if s == StyleBraced {
		return "{" + key + "}"
	}
	return key
}

func (s Style) String() string {
	if s == StyleBraced {
		return "braced"
	}
	return "bare"
}

// Entry is a single placeholder and its replacement value.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Dictionary maps placeholder keys to replacement values, keeping insertion order.
type Dictionary struct {
	entries []Entry
	index   map[string]int
}

// New returns an empty dictionary.
func New() *Dictionary {
	return &Dictionary{index: make(map[string]int)}
}

// FromMap builds a dictionary from values. Keys are sorted so the result is deterministic.
func FromMap(values map[string]string) (*Dictionary, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := New()
	for _, k := range keys {
		if err := d.Add(k, values[k]); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Add inserts a new entry. Empty and duplicate keys are rejected.
func (d *Dictionary) Add(key, value string) error {
	if key == "" {
		return fmt.Errorf("tag key cannot be empty")
	}
	if _, ok := d.index[key]; ok {
		return fmt.Errorf("duplicate tag key %q", key)
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, Entry{Key: key, Value: value})
	return nil
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Keys returns the keys in insertion order.
func (d *Dictionary) Keys() []string {
	keys := make([]string, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.Key
	}
	return keys
}
