// Package comparator decides whether two document images came from the
// same scanning device by comparing their forensic feature bundles.
package comparator

import (
	"math"

	"go-tracefinder/internal/config"
	"go-tracefinder/internal/features"
	"go-tracefinder/internal/imaging"
	"go-tracefinder/internal/logger"
	"go-tracefinder/pkg/models"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Category weights for the overall similarity. PRNU dominates because it
// is the closest thing to a per-device fingerprint.
const (
	weightPRNU      = 0.35
	weightTexture   = 0.25
	weightFrequency = 0.25
	weightWavelet   = 0.15
)

// Match thresholds on the weighted similarity.
const (
	thresholdSameScanner = 0.85
	thresholdLikely      = 0.70
	thresholdSimilarType = 0.50
)

// Comparator performs pairwise scanner comparisons.
type Comparator struct {
	preprocessor *imaging.Preprocessor
	extractor    *features.Extractor
}

// NewComparator wires the comparison pipeline.
func NewComparator() *Comparator {
	return &Comparator{
		preprocessor: imaging.NewPreprocessor(config.ImageSize),
		extractor: features.NewExtractor(
			features.WithGLCMGrid(config.GLCMDistances, config.GLCMAngles),
			features.WithWaveletLevel(config.WaveletLevel),
		),
	}
}

// Compare extracts features from both files and scores their similarity.
// Failures are folded into the response rather than returned.
func (c *Comparator) Compare(pathA, pathB string) *models.ComparisonResponse {
	bundleA, err := c.extract(pathA)
	if err != nil {
		return &models.ComparisonResponse{Success: false, Error: err.Error()}
	}
	bundleB, err := c.extract(pathB)
	if err != nil {
		return &models.ComparisonResponse{Success: false, Error: err.Error()}
	}
	return c.CompareBundles(bundleA, bundleB)
}

// CompareBundles scores two already-extracted feature bundles.
func (c *Comparator) CompareBundles(a, b *features.Bundle) *models.ComparisonResponse {
	prnu := comparePRNU(a, b)
	texture := compareTexture(a, b)
	frequency := compareFrequency(a, b)
	wavelet := compareWavelet(a, b)

	overall := weightPRNU*prnu + weightTexture*texture +
		weightFrequency*frequency + weightWavelet*wavelet

	status, confidence := matchVerdict(overall)

	logger.WithFields(map[string]interface{}{
		"overall":   overall,
		"prnu":      prnu,
		"texture":   texture,
		"frequency": frequency,
		"wavelet":   wavelet,
	}).Debug("comparison scored")

	return &models.ComparisonResponse{
		Success:           true,
		OverallSimilarity: toPercent(overall),
		MatchStatus:       status,
		MatchConfidence:   confidence,
		DetailedScores: &models.ComparisonScore{
			PRNUSimilarity:      toPercent(prnu),
			TextureSimilarity:   toPercent(texture),
			FrequencySimilarity: toPercent(frequency),
			WaveletSimilarity:   toPercent(wavelet),
		},
		Analysis: buildAnalysis(overall, prnu, texture, frequency),
	}
}

func (c *Comparator) extract(path string) (*features.Bundle, error) {
	img, err := c.preprocessor.Load(path)
	if err != nil {
		return nil, err
	}
	return c.extractor.ExtractAll(img), nil
}

// comparePRNU blends raw residual correlation with closeness of the
// summary moments.
func comparePRNU(a, b *features.Bundle) float64 {
	correlation := patternCorrelation(a.PRNU.Pattern, b.PRNU.Pattern)

	meanSim := 1 - math.Min(math.Abs(a.PRNU.Mean-b.PRNU.Mean)/0.1, 1)
	stdSim := 1 - math.Min(math.Abs(a.PRNU.Std-b.PRNU.Std)/0.02, 1)

	return clamp01(0.6*math.Abs(correlation) + 0.2*meanSim + 0.2*stdSim)
}

// patternCorrelation is the Pearson correlation of the flattened residual
// matrices. Two zero-variance residuals count as perfectly correlated when
// they are equal, so an image compared against itself always matches.
func patternCorrelation(pa, pb *mat.Dense) float64 {
	if pa == nil || pb == nil {
		return 0
	}
	ra, ca := pa.Dims()
	rb, cb := pb.Dims()
	if ra != rb || ca != cb || ra == 0 || ca == 0 {
		return 0
	}

	flatA := make([]float64, 0, ra*ca)
	flatB := make([]float64, 0, ra*ca)
	for y := 0; y < ra; y++ {
		for x := 0; x < ca; x++ {
			flatA = append(flatA, pa.At(y, x))
			flatB = append(flatB, pb.At(y, x))
		}
	}

	stdA := math.Sqrt(stat.MomentAbout(2, flatA, stat.Mean(flatA, nil), nil))
	stdB := math.Sqrt(stat.MomentAbout(2, flatB, stat.Mean(flatB, nil), nil))
	if stdA < 1e-15 || stdB < 1e-15 {
		for i := range flatA {
			if math.Abs(flatA[i]-flatB[i]) > 1e-12 {
				return 0
			}
		}
		return 1
	}
	return stat.Correlation(flatA, flatB, nil)
}

// compareTexture averages relative closeness across the five GLCM
// properties.
func compareTexture(a, b *features.Bundle) float64 {
	pairs := [][2]float64{
		{a.Texture.Contrast, b.Texture.Contrast},
		{a.Texture.Dissimilarity, b.Texture.Dissimilarity},
		{a.Texture.Homogeneity, b.Texture.Homogeneity},
		{a.Texture.Energy, b.Texture.Energy},
		{a.Texture.Correlation, b.Texture.Correlation},
	}

	var total float64
	for _, p := range pairs {
		scale := math.Max(math.Max(math.Abs(p[0]), math.Abs(p[1])), 0.001)
		total += 1 - math.Min(math.Abs(p[0]-p[1])/scale, 1)
	}
	return clamp01(total / float64(len(pairs)))
}

// compareFrequency weighs the low/high energy ratio over the spectral
// centroid.
func compareFrequency(a, b *features.Bundle) float64 {
	ratioSim := 1 - math.Min(math.Abs(a.Frequency.FreqRatio-b.Frequency.FreqRatio)/5, 1)
	centroidSim := 1 - math.Min(math.Abs(a.Frequency.SpectralCentroid-b.Frequency.SpectralCentroid)/100, 1)
	return clamp01(0.6*ratioSim + 0.4*centroidSim)
}

// compareWavelet averages energy closeness over the four coarsest
// sub-bands.
func compareWavelet(a, b *features.Bundle) float64 {
	var total float64
	for i := range a.Wavelet.Subbands {
		diff := math.Abs(a.Wavelet.Subbands[i].Energy - b.Wavelet.Subbands[i].Energy)
		total += 1 - math.Min(diff/1000, 1)
	}
	return clamp01(total / float64(len(a.Wavelet.Subbands)))
}

func matchVerdict(overall float64) (status, confidence string) {
	switch {
	case overall >= thresholdSameScanner:
		return "High Probability - Same Scanner", "Very High"
	case overall >= thresholdLikely:
		return "Likely - Same Scanner", "High"
	case overall >= thresholdSimilarType:
		return "Possible - Similar Scanner Type", "Medium"
	default:
		return "Unlikely - Different Scanners", "Low"
	}
}

// buildAnalysis produces the human-readable findings list.
func buildAnalysis(overall, prnu, texture, frequency float64) []string {
	var lines []string

	switch {
	case prnu >= 0.8:
		lines = append(lines, "Strong PRNU correlation indicates same sensor")
	case prnu >= 0.6:
		lines = append(lines, "Moderate PRNU similarity suggests related devices")
	default:
		lines = append(lines, "PRNU patterns differ significantly")
	}

	if texture >= 0.7 {
		lines = append(lines, "Texture characteristics are highly consistent")
	}
	if frequency >= 0.7 {
		lines = append(lines, "Frequency signatures match closely")
	}

	if overall >= thresholdSameScanner {
		lines = append(lines, "Overall evidence strongly supports a single scanning device")
	} else if overall < thresholdSimilarType {
		lines = append(lines, "Overall evidence points to different scanning devices")
	}
	return lines
}

func toPercent(v float64) float64 {
	return math.Round(v*100*100) / 100
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
