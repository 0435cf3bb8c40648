package lsb

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/stat"

	"CipherScan/pkg/analyzer"
	lsbextract "CipherScan/pkg/extractor/image/lsb"
	"CipherScan/pkg/models"
)

var channelNames = [4]string{"R", "G", "B", "A"}

// AnalysisResult represents the result of LSB distribution analysis
type AnalysisResult struct {
	AnomalyScore float64            `json:"anomalyScore"`
	Entropy      float64            `json:"entropy"`
	Confidence   float64            `json:"confidence"`
	ChannelStats map[string]float64 `json:"channelStats"`
}

// LSBAnalyzer reports how evenly the least significant bits are spread over each channel
type LSBAnalyzer struct {
	analyzer.BaseAnalyzer
}

// NewLSBAnalyzer creates a new LSB distribution analyzer
func NewLSBAnalyzer() *LSBAnalyzer {
	return &LSBAnalyzer{
		BaseAnalyzer: analyzer.NewBaseAnalyzer(
			"LSB Distribution Analyzer",
			"Measures per-channel LSB entropy and flags distributions typical of embedded data",
			[]string{"png", "jpeg", "gif", "bmp", "tiff", "webp"},
		),
	}
}

// Analyze implements the FileAnalyzer interface
func (a *LSBAnalyzer) Analyze(filePath string, options analyzer.AnalysisOptions) (*models.AnalysisResult, error) {
	img, err := lsbextract.Open(filePath)
	if err != nil {
		return nil, err
	}

	result, err := a.AnalyzeImage(img, options)
	if err != nil {
		return nil, err
	}
	result.Filename = filepath.Base(filePath)
	return result, nil
}

// AnalyzeImage implements the ImageAnalyzer interface
func (a *LSBAnalyzer) AnalyzeImage(img image.Image, options analyzer.AnalysisOptions) (*models.AnalysisResult, error) {
	result := models.NewAnalysisResult("image", "")

	dist, err := AnalyzeDistribution(img)
	if err != nil {
		return nil, err
	}

	result.DetectionScore = dist.AnomalyScore
	result.Confidence = dist.Confidence
	result.Details["entropy"] = dist.Entropy
	for k, v := range dist.ChannelStats {
		result.Details[k] = v
	}

	switch {
	case dist.AnomalyScore >= 0.7:
		result.AddFinding("LSB distribution strongly suggests embedded data", dist.Confidence,
			fmt.Sprintf("average RGB entropy %.4f", dist.Entropy))
		result.Recommendations = append(result.Recommendations, "Inspect the LSB plane text and payload findings")
	case dist.AnomalyScore >= 0.4:
		result.AddFinding("LSB distribution is unusually uniform", dist.Confidence,
			fmt.Sprintf("average RGB entropy %.4f", dist.Entropy))
	}

	result.AnalysisDuration = time.Since(result.AnalysisTime)
	return result, nil
}

// AnalyzeDistribution analyzes the LSB distribution in an image across all color channels
func AnalyzeDistribution(img image.Image) (*AnalysisResult, error) {
	if img == nil {
		return nil, errors.New("nil image provided")
	}

	bounds := img.Bounds()
	totalPixels := bounds.Dx() * bounds.Dy()
	if totalPixels == 0 {
		return nil, errors.New("empty image provided")
	}

	// count of set LSBs per channel
	var ones [4]int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			ones[0] += int(c.R & 1)
			ones[1] += int(c.G & 1)
			ones[2] += int(c.B & 1)
			ones[3] += int(c.A & 1)
		}
	}

	var entropy, zeroShare [4]float64
	for i := range ones {
		oneProb := float64(ones[i]) / float64(totalPixels)
		zeroShare[i] = 1 - oneProb
		entropy[i] = bitEntropy(zeroShare[i], oneProb)
	}

	rgbEntropy := entropy[:3]
	avgEntropy := stat.Mean(rgbEntropy, nil)

	anomalyScore := calculateAnomalyScore(entropy, zeroShare)
	confidence := calculateConfidence(totalPixels, stat.PopVariance(entropy[:], nil))

	stats := make(map[string]float64, 8)
	for i, name := range channelNames {
		stats[name] = entropy[i]
		stats[name+"_zeros"] = zeroShare[i]
	}

	return &AnalysisResult{
		AnomalyScore: anomalyScore,
		Entropy:      avgEntropy,
		Confidence:   confidence,
		ChannelStats: stats,
	}, nil
}

// bitEntropy is the Shannon entropy in bits of a two-outcome distribution
func bitEntropy(zeroProb, oneProb float64) float64 {
	if zeroProb <= 0 || oneProb <= 0 {
		return 0
	}
	return stat.Entropy([]float64{zeroProb, oneProb}) / math.Ln2
}

// calculateAnomalyScore determines how likely the LSB distribution indicates steganography
func calculateAnomalyScore(entropy, zeroShare [4]float64) float64 {
	score := 0.0

	// Natural images rarely have perfect entropy in LSBs
	avgRGBEntropy := stat.Mean(entropy[:3], nil)
	if avgRGBEntropy > 0.97 {
		score += 0.4
	} else if avgRGBEntropy > 0.92 {
		score += 0.2
	}

	// Deviation from a 50/50 split, normalised to [0,1]
	deviation := make([]float64, 3)
	for i := range deviation {
		deviation[i] = math.Abs(zeroShare[i]-0.5) * 2
	}
	avgDeviation := stat.Mean(deviation, nil)
	if avgDeviation < 0.05 {
		score += 0.3
	} else if avgDeviation < 0.1 {
		score += 0.2
	}

	// Identical entropy across RGB channels is suspicious
	entropyVariance := stat.PopVariance(entropy[:3], nil)
	if entropyVariance < 0.0001 {
		score += 0.3
	} else if entropyVariance < 0.001 {
		score += 0.15
	}

	// Alpha following the RGB pattern
	alphaDiff := math.Abs(entropy[3] - avgRGBEntropy)
	if alphaDiff < 0.05 && entropy[3] > 0.9 {
		score += 0.2
	}

	return math.Min(score, 1.0)
}

// calculateConfidence estimates confidence level based on sample size and variance
func calculateConfidence(sampleSize int, variance float64) float64 {
	sampleConfidence := math.Min(float64(sampleSize)/10000.0, 1.0)

	varianceConfidence := 0.3
	switch {
	case variance < 0.0001:
		varianceConfidence = 0.9
	case variance < 0.001:
		varianceConfidence = 0.7
	case variance < 0.01:
		varianceConfidence = 0.5
	}

	return 0.7*sampleConfidence + 0.3*varianceConfidence
}
