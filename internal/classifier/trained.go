package classifier

import (
	"fmt"
	"sort"
	"strings"

	apperrors "go-tracefinder/internal/errors"
	"go-tracefinder/internal/features"
	"go-tracefinder/pkg/models"
)

// TrainedModelClassifier identifies scanners through random forest
// inference over the flattened feature vector.
type TrainedModelClassifier struct {
	model *Model
}

// NewTrainedModelClassifier wraps a loaded model artifact.
func NewTrainedModelClassifier(model *Model) *TrainedModelClassifier {
	return &TrainedModelClassifier{model: model}
}

// Name identifies the strategy in logs.
func (c *TrainedModelClassifier) Name() string { return "trained_model" }

// Classify runs model inference. The winning label is split on its first
// space into brand and model; multi-word brand names therefore lose part
// of the brand into the model field, a limitation inherited from the label
// format.
func (c *TrainedModelClassifier) Classify(bundle *features.Bundle, metadata *models.Metadata) (Identification, error) {
	vector := FlattenFeatures(bundle)

	winner, probabilities, err := c.model.Predict(vector)
	if err != nil {
		return Identification{}, apperrors.NewInferenceError("trained model inference failed", err)
	}

	classes := c.model.Classes()
	label := classes[winner]
	confidence := probabilities[winner]

	brand := label
	model := "Unknown Model"
	if idx := strings.Index(label, " "); idx > 0 {
		brand = label[:idx]
		model = label[idx+1:]
	}

	top := topClasses(classes, probabilities, 3)
	scores := make(map[string]float64, len(top))
	alternatives := make([]string, 0, len(top))
	for _, t := range top {
		scores[t.label] = t.probability
		alternatives = append(alternatives, t.label)
	}

	return Identification{
		Brand:         brand,
		Model:         model,
		Scores:        scores,
		Confidence:    confidence,
		MetadataMatch: true,
		Details: models.DetectionDetails{
			PrimaryIndicators: []string{
				fmt.Sprintf("ML Model Confidence: %.1f%%", confidence*100),
			},
			SecondaryIndicators: []string{
				fmt.Sprintf("Top alternatives: %s", strings.Join(alternatives, ", ")),
			},
			Anomalies: []string{},
		},
		UsingTrainedModel: true,
	}, nil
}

type classScore struct {
	label       string
	probability float64
}

func topClasses(classes []string, probabilities []float64, n int) []classScore {
	scored := make([]classScore, len(classes))
	for i, label := range classes {
		scored[i] = classScore{label: label, probability: probabilities[i]}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].probability > scored[j].probability
	})
	if n > len(scored) {
		n = len(scored)
	}
	return scored[:n]
}
