package models

import "fmt"

// LookupStatus is the variant of a Lookup.
type LookupStatus int

const (
	StatusFound LookupStatus = iota
	StatusNotFound
	StatusIOError
)

func (s LookupStatus) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not-found"
	case StatusIOError:
		return "io-error"
	}
	return fmt.Sprintf("LookupStatus(%d)", int(s))
}

// Lookup is the outcome of searching a file for a piece of hidden data.
// Absence is a normal outcome and is kept apart from read failures.
type Lookup struct {
	Status LookupStatus `json:"status"`
	Value  string       `json:"value,omitempty"`
	Detail string       `json:"detail,omitempty"`
	Err    error        `json:"-"`
}

// Found wraps a located value.
func Found(value string) Lookup {
	return Lookup{Status: StatusFound, Value: value}
}

// NotFound reports that the file was readable but held nothing.
func NotFound(detail string) Lookup {
	return Lookup{Status: StatusNotFound, Detail: detail}
}

// IOError reports that the file could not be read.
func IOError(err error) Lookup {
	return Lookup{Status: StatusIOError, Detail: err.Error(), Err: err}
}

// IsFound reports whether a value was located.
func (l Lookup) IsFound() bool {
	return l.Status == StatusFound
}
