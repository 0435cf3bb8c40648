// Package metadata reads the key/value metadata that image, PDF and WAV
// containers attach to a file, and strips document metadata from PDFs.
package metadata

import (
	"sort"
	"strings"
)

// Field is a single metadata entry
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Record is an ordered key/value mapping read from a file container
type Record []Field

// Get returns the value stored under key
func (r Record) Get(key string) (string, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Set stores value under key, replacing an earlier entry in place
func (r *Record) Set(key, value string) {
	for i, f := range *r {
		if f.Key == key {
			(*r)[i].Value = value
			return
		}
	}
	*r = append(*r, Field{Key: key, Value: value})
}

// Len returns the number of entries
func (r Record) Len() int {
	return len(r)
}

// Empty reports whether the record has no entries
func (r Record) Empty() bool {
	return len(r) == 0
}

// Keys returns the keys in record order
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// Sorted returns a copy ordered by key
func (r Record) Sorted() Record {
	out := make(Record, len(r))
	copy(out, r)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// String renders one "key: value" line per entry
func (r Record) String() string {
	var sb strings.Builder
	for _, f := range r {
		sb.WriteString(f.Key)
		sb.WriteString(": ")
		sb.WriteString(f.Value)
		sb.WriteByte('\n')
	}
	return sb.String()
}
