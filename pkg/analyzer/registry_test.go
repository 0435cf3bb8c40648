package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"CipherScan/pkg/models"
)

type stubAnalyzer struct {
	BaseAnalyzer
}

func (s *stubAnalyzer) Analyze(filePath string, options AnalysisOptions) (*models.AnalysisResult, error) {
	return models.NewAnalysisResult("stub", filePath), nil
}

func newStub(name string, formats ...string) *stubAnalyzer {
	return &stubAnalyzer{BaseAnalyzer: NewBaseAnalyzer(name, "stub", formats)}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.Register(newStub("Edges", "png", "jpeg")))
	assert.True(t, r.Register(newStub("Tags", "pdf", "png")))
	assert.False(t, r.Register(newStub("Edges", "wav")))

	assert.Equal(t, []string{"jpeg", "pdf", "png"}, r.GetSupportedFormats())
	assert.Equal(t, []string{"Edges", "Tags"}, r.Names("png"))
	assert.Empty(t, r.Names("wav"))
	assert.NotNil(t, r.GetAnalyzerByName("Tags"))
	assert.Nil(t, r.GetAnalyzerByName("Missing"))

	// callers may not grow the registry through a returned slice
	list := r.GetAnalyzersForFormat("jpeg")
	_ = append(list, newStub("Extra", "jpeg"))
	assert.Len(t, r.GetAnalyzersForFormat("jpeg"), 1)
}

func TestBaseAnalyzer(t *testing.T) {
	a := newStub("Edges", "png")
	assert.True(t, a.CanAnalyze("png"))
	assert.False(t, a.CanAnalyze("pdf"))
	assert.Equal(t, "stub", a.Description())
}
