package analyzer

import (
	"sort"
	"sync"
)

// Registry indexes analyzers by name and by the formats they accept
type Registry struct {
	mu       sync.RWMutex
	byName   map[string]FileAnalyzer
	byFormat map[string][]FileAnalyzer
}

// NewRegistry creates a new analyzer registry
func NewRegistry() *Registry {
	return &Registry{
		byName:   make(map[string]FileAnalyzer),
		byFormat: make(map[string][]FileAnalyzer),
	}
}

// Register adds an analyzer under each of its formats. It reports false and
// leaves the registry untouched when the name is already taken.
func (r *Registry) Register(a FileAnalyzer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[a.Name()]; exists {
		return false
	}
	r.byName[a.Name()] = a
	for _, format := range a.SupportedFormats() {
		r.byFormat[format] = append(r.byFormat[format], a)
	}
	return true
}

// GetAnalyzersForFormat returns the analyzers for format in registration order
func (r *Registry) GetAnalyzersForFormat(format string) []FileAnalyzer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]FileAnalyzer(nil), r.byFormat[format]...)
}

// GetAnalyzerByName finds an analyzer by name, or nil
func (r *Registry) GetAnalyzerByName(name string) FileAnalyzer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.byName[name]
}

// Names lists the analyzers registered for format
func (r *Registry) Names(format string) []string {
	var names []string
	for _, a := range r.GetAnalyzersForFormat(format) {
		names = append(names, a.Name())
	}
	return names
}

// GetSupportedFormats returns a sorted list of all supported formats
func (r *Registry) GetSupportedFormats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.byFormat))
	for format := range r.byFormat {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}
