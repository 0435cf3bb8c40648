package extractor

import (
	"sort"
	"sync"
)

// Registry maps file formats to the extractors that read them
type Registry struct {
	mu         sync.RWMutex
	extractors map[string][]DataExtractor
}

// NewRegistry creates a new extractor registry
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string][]DataExtractor),
	}
}

// Register adds an extractor under each of its formats. A format already
// served by an extractor of the same name is skipped.
func (r *Registry) Register(e DataExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, format := range e.SupportedFormats() {
		if r.lookup(e.Name(), format) != nil {
			continue
		}
		r.extractors[format] = append(r.extractors[format], e)
	}
}

// GetExtractorsForFormat returns the extractors for format in registration order
func (r *Registry) GetExtractorsForFormat(format string) []DataExtractor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]DataExtractor(nil), r.extractors[format]...)
}

// GetExtractorByName finds an extractor with the given name for a format
func (r *Registry) GetExtractorByName(name string, format string) DataExtractor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lookup(name, format)
}

func (r *Registry) lookup(name, format string) DataExtractor {
	for _, e := range r.extractors[format] {
		if e.Name() == name {
			return e
		}
	}
	return nil
}

// Names lists the extractors registered for format
func (r *Registry) Names(format string) []string {
	var names []string
	for _, e := range r.GetExtractorsForFormat(format) {
		names = append(names, e.Name())
	}
	return names
}

// GetSupportedFormats returns the registered formats in sorted order
func (r *Registry) GetSupportedFormats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.extractors))
	for format := range r.extractors {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}
