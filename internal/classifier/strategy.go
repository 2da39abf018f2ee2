package classifier

import (
	"go-tracefinder/internal/features"
	"go-tracefinder/pkg/models"
)

// Identification is the raw outcome of one classification strategy before
// confidence blending.
type Identification struct {
	Brand             string
	Model             string
	Scores            map[string]float64
	Confidence        float64 // trained-model winning probability
	MetadataMatch     bool
	Details           models.DetectionDetails
	UsingTrainedModel bool
}

// Strategy identifies a scanner from a feature bundle. Implementations are
// chosen once at construction time and never switched per call.
type Strategy interface {
	Classify(bundle *features.Bundle, metadata *models.Metadata) (Identification, error)
	Name() string
}
