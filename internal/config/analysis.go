package config

// Analysis constants shared by the feature extraction pipeline.
const (
	// ImageSize is the side length of the canonical resized image.
	ImageSize = 512

	// NoiseSigma is the Gaussian sigma used when isolating noise residuals.
	NoiseSigma = 2.0

	// WaveletLevel is the decomposition depth for multilevel DWT features.
	WaveletLevel = 3

	// ConfidenceThreshold marks the score above which an identification is
	// reported as reliable.
	ConfidenceThreshold = 0.75
)

// GLCMDistances and GLCMAngles define the co-occurrence matrix grid.
// Angles are in degrees.
var (
	GLCMDistances = []int{1, 3, 5}
	GLCMAngles    = []float64{0, 45, 90, 135}
)

// ScannerDatabase maps known brands to their common model lines. Model
// estimation picks the first entry; finer matching would need real device
// training data.
var ScannerDatabase = map[string][]string{
	"Canon":   {"CanoScan LiDE", "CanoScan 9000F", "imageFORMULA"},
	"Epson":   {"Perfection V", "WorkForce DS", "Expression"},
	"HP":      {"ScanJet Pro", "ScanJet Enterprise", "ScanJet G"},
	"Brother": {"ADS Series", "MFC Series", "DSmobile"},
	"Fujitsu": {"ScanSnap", "fi Series", "SP Series"},
}

// Range is a closed numeric interval. Membership checks are inclusive on
// both bounds.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v falls inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// ScannerSignature holds per-brand feature ranges used by the fallback
// classifier when no trained model is available.
type ScannerSignature struct {
	PRNUStdRange         Range
	TextureEnergyRange   Range
	FreqRatioRange       Range
	NoiseCharacteristics string
	PatternType          string
}

// ScannerSignatures are placeholder ranges, not derived from measured device
// data. Treat them as tunable configuration.
var ScannerSignatures = map[string]ScannerSignature{
	"Canon": {
		PRNUStdRange:         Range{0.015, 0.025},
		TextureEnergyRange:   Range{0.05, 0.15},
		FreqRatioRange:       Range{2.0, 4.0},
		NoiseCharacteristics: "low",
		PatternType:          "periodic",
	},
	"Epson": {
		PRNUStdRange:         Range{0.012, 0.022},
		TextureEnergyRange:   Range{0.06, 0.14},
		FreqRatioRange:       Range{2.5, 5.0},
		NoiseCharacteristics: "medium",
		PatternType:          "random",
	},
	"HP": {
		PRNUStdRange:         Range{0.018, 0.030},
		TextureEnergyRange:   Range{0.04, 0.12},
		FreqRatioRange:       Range{1.8, 3.5},
		NoiseCharacteristics: "high",
		PatternType:          "mixed",
	},
	"Brother": {
		PRNUStdRange:         Range{0.010, 0.020},
		TextureEnergyRange:   Range{0.07, 0.16},
		FreqRatioRange:       Range{3.0, 6.0},
		NoiseCharacteristics: "low",
		PatternType:          "linear",
	},
	"Fujitsu": {
		PRNUStdRange:         Range{0.013, 0.023},
		TextureEnergyRange:   Range{0.055, 0.13},
		FreqRatioRange:       Range{2.2, 4.5},
		NoiseCharacteristics: "medium",
		PatternType:          "periodic",
	},
}

// AllowedExtensions whitelists upload file types.
var AllowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tiff": true,
	".tif":  true,
	".bmp":  true,
}
