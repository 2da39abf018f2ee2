// Package tampering looks for signs of post-scan image manipulation. Four
// independent techniques each vote, and the verdict is based on how many
// agree.
package tampering

import (
	"go-tracefinder/internal/classifier"
	"go-tracefinder/internal/imaging"
	"go-tracefinder/internal/logger"
	"go-tracefinder/pkg/models"
)

// suspicionThreshold is the number of agreeing techniques required before
// the image is reported as tampered.
const suspicionThreshold = 2

// Detector runs the tampering analysis pipeline.
type Detector struct {
	preprocessor *imaging.Preprocessor
}

// NewDetector creates a tampering detector.
func NewDetector() *Detector {
	return &Detector{preprocessor: imaging.NewPreprocessor(0)}
}

// Analyze runs all four techniques over one image file and aggregates
// their votes. Individual technique failures are recorded in the response
// and never count as suspicion.
func (d *Detector) Analyze(path string) *models.TamperingResponse {
	img, err := d.preprocessor.Load(path)
	if err != nil {
		logger.WithError(err).WithField("path", path).Warn("tampering analysis failed to load image")
		return &models.TamperingResponse{Success: false, Error: err.Error()}
	}

	techniques := &models.TamperingTechniques{
		ErrorLevelAnalysis: errorLevelAnalysis(img.Original),
		NoiseConsistency:   noiseConsistency(img.Grayscale),
		JPEGArtifacts:      jpegGhost(img.Original),
		MetadataCheck:      metadataCheck(classifier.ExtractMetadata(path)),
	}

	return aggregate(techniques)
}

// aggregate turns the four technique votes into the final verdict.
func aggregate(techniques *models.TamperingTechniques) *models.TamperingResponse {
	var indicators []string
	if techniques.ErrorLevelAnalysis.Suspicious {
		indicators = append(indicators, "Error level analysis indicates localized modification")
	}
	if techniques.NoiseConsistency.Suspicious {
		indicators = append(indicators, "Noise levels are inconsistent across image regions")
	}
	if techniques.JPEGArtifacts.Suspicious {
		indicators = append(indicators, "Compression history suggests the image was re-saved")
	}
	if techniques.MetadataCheck.Suspicious {
		indicators = append(indicators, "Metadata references image editing software")
	}

	count := len(indicators)
	detected := count >= suspicionThreshold

	return &models.TamperingResponse{
		Success:           true,
		TamperingDetected: detected,
		Confidence:        float64(count) / 4 * 100,
		IndicatorCount:    count,
		Indicators:        indicators,
		Techniques:        techniques,
		Verdict:           verdict(count),
		RiskLevel:         riskLevel(count),
	}
}

func verdict(count int) string {
	switch {
	case count >= suspicionThreshold:
		return "Tampering Likely"
	case count == 1:
		return "Uncertain"
	default:
		return "No Tampering Detected"
	}
}

func riskLevel(count int) string {
	switch {
	case count >= 3:
		return "High"
	case count >= suspicionThreshold:
		return "Medium"
	default:
		return "Low"
	}
}
