package classifier

import (
	"fmt"
	"sort"
	"strings"

	"go-tracefinder/internal/config"
	"go-tracefinder/internal/features"
	"go-tracefinder/pkg/models"
)

// SignatureClassifier is the fallback strategy: it scores each brand by
// how many of its configured feature ranges contain the observed values.
type SignatureClassifier struct {
	signatures map[string]config.ScannerSignature
	database   map[string][]string
}

// NewSignatureClassifier builds the fallback classifier from the static
// signature tables.
func NewSignatureClassifier() *SignatureClassifier {
	return &SignatureClassifier{
		signatures: config.ScannerSignatures,
		database:   config.ScannerDatabase,
	}
}

// Name identifies the strategy in logs.
func (c *SignatureClassifier) Name() string { return "signature_matching" }

// Classify scores every configured brand and picks the best match. A brand
// mentioned anywhere in the EXIF data boosts the winning score by 20%; the
// boost is deliberately not clamped here, the final confidence blend is.
func (c *SignatureClassifier) Classify(bundle *features.Bundle, metadata *models.Metadata) (Identification, error) {
	metadataBrand := c.brandFromMetadata(metadata)

	scores := make(map[string]float64, len(c.signatures))
	for brand, signature := range c.signatures {
		scores[brand] = matchSignature(bundle, signature)
	}

	best := bestBrand(scores)
	if metadataBrand != "" && metadataBrand == best {
		scores[best] *= 1.2
	}

	return Identification{
		Brand:         best,
		Model:         c.estimateModel(best),
		Scores:        scores,
		MetadataMatch: metadataBrand == best,
		Details: models.DetectionDetails{
			PrimaryIndicators:   primaryIndicators(best),
			SecondaryIndicators: secondaryIndicators(bundle),
			Anomalies:           detectAnomalies(bundle),
		},
		UsingTrainedModel: false,
	}, nil
}

// matchSignature counts how many observed features fall inside the brand's
// configured ranges. Bounds are inclusive.
func matchSignature(bundle *features.Bundle, signature config.ScannerSignature) float64 {
	var score float64
	if signature.PRNUStdRange.Contains(bundle.PRNU.Std) {
		score++
	}
	if signature.TextureEnergyRange.Contains(bundle.Texture.Energy) {
		score++
	}
	if signature.FreqRatioRange.Contains(bundle.Frequency.FreqRatio) {
		score++
	}
	return score / 3
}

// brandFromMetadata looks for a known brand name anywhere in the EXIF tag
// values.
func (c *SignatureClassifier) brandFromMetadata(metadata *models.Metadata) string {
	if metadata == nil {
		return ""
	}
	// Deterministic iteration so equal mentions resolve stably
	brands := make([]string, 0, len(c.database))
	for brand := range c.database {
		brands = append(brands, brand)
	}
	sort.Strings(brands)

	for _, brand := range brands {
		needle := strings.ToLower(brand)
		for _, value := range metadata.ExifData {
			if strings.Contains(strings.ToLower(value), needle) {
				return brand
			}
		}
	}
	return ""
}

// bestBrand returns the highest-scoring brand, ties broken alphabetically
// for determinism.
func bestBrand(scores map[string]float64) string {
	best := ""
	bestScore := -1.0
	brands := make([]string, 0, len(scores))
	for brand := range scores {
		brands = append(brands, brand)
	}
	sort.Strings(brands)
	for _, brand := range brands {
		if scores[brand] > bestScore {
			best = brand
			bestScore = scores[brand]
		}
	}
	return best
}

// estimateModel picks the first configured model line for the brand. Real
// per-model discrimination would need device training data.
func (c *SignatureClassifier) estimateModel(brand string) string {
	if models, ok := c.database[brand]; ok && len(models) > 0 {
		return models[0]
	}
	return "Unknown Model"
}

func primaryIndicators(brand string) []string {
	return []string{
		fmt.Sprintf("PRNU pattern matches %s signature", brand),
		fmt.Sprintf("Texture characteristics consistent with %s scanners", brand),
		fmt.Sprintf("Frequency domain analysis indicates %s sensor type", brand),
	}
}

func secondaryIndicators(bundle *features.Bundle) []string {
	return []string{
		fmt.Sprintf("Noise profile: %.4f", bundle.Noise.NoiseStd),
		"Wavelet energy distribution consistent with flatbed scanner",
		"No signs of digital manipulation detected",
	}
}

func detectAnomalies(bundle *features.Bundle) []string {
	var anomalies []string
	if bundle.PRNU.Std > 0.05 {
		anomalies = append(anomalies, "Unusually high PRNU variance detected")
	}
	if bundle.Noise.SNR < 10 {
		anomalies = append(anomalies, "Low SNR may indicate compression or degradation")
	}
	if len(anomalies) == 0 {
		anomalies = append(anomalies, "No anomalies detected")
	}
	return anomalies
}
