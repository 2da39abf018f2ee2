package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact filenames inside the model directory.
const (
	classifierFile   = "scanner_classifier.json"
	labelEncoderFile = "label_encoder.json"
	scalerFile       = "feature_scaler.json"
)

// TreeArtifact is one decision tree in flattened-node form. A node i is a
// leaf when Left[i] < 0; Value[i] is its class vote distribution.
type TreeArtifact struct {
	Feature   []int       `json:"feature"`
	Threshold []float64   `json:"threshold"`
	Left      []int       `json:"left"`
	Right     []int       `json:"right"`
	Value     [][]float64 `json:"value"`
}

// ForestArtifact is the serialized random forest classifier.
type ForestArtifact struct {
	FeatureCount int            `json:"feature_count"`
	ClassCount   int            `json:"class_count"`
	Trees        []TreeArtifact `json:"trees"`
}

// LabelEncoder maps class indices back to scanner label strings.
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

// FeatureScaler is an optional standard scaler applied before inference.
type FeatureScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Model is the immutable trained artifact bundle. It is loaded once at
// process start and only read afterwards, so concurrent inference needs no
// locking.
type Model struct {
	forest *ForestArtifact
	labels *LabelEncoder
	scaler *FeatureScaler
}

// LoadModel reads the trained artifacts from dir. A missing classifier or
// label encoder yields (nil, error) and the caller falls back to signature
// matching; a missing scaler is fine.
func LoadModel(dir string) (*Model, error) {
	forest := &ForestArtifact{}
	if err := readJSON(filepath.Join(dir, classifierFile), forest); err != nil {
		return nil, fmt.Errorf("load classifier: %w", err)
	}
	labels := &LabelEncoder{}
	if err := readJSON(filepath.Join(dir, labelEncoderFile), labels); err != nil {
		return nil, fmt.Errorf("load label encoder: %w", err)
	}

	if len(forest.Trees) == 0 {
		return nil, fmt.Errorf("classifier artifact has no trees")
	}
	if len(labels.Classes) != forest.ClassCount {
		return nil, fmt.Errorf("label encoder has %d classes, classifier expects %d",
			len(labels.Classes), forest.ClassCount)
	}

	model := &Model{forest: forest, labels: labels}

	scaler := &FeatureScaler{}
	if err := readJSON(filepath.Join(dir, scalerFile), scaler); err == nil {
		if len(scaler.Mean) != forest.FeatureCount || len(scaler.Scale) != forest.FeatureCount {
			return nil, fmt.Errorf("feature scaler dimension mismatch")
		}
		model.scaler = scaler
	}

	return model, nil
}

// Classes returns the label strings in class-index order.
func (m *Model) Classes() []string {
	return m.labels.Classes
}

// Predict runs forest inference and returns the winning class index along
// with the averaged per-class probabilities.
func (m *Model) Predict(vector []float64) (int, []float64, error) {
	if len(vector) != m.forest.FeatureCount {
		return 0, nil, fmt.Errorf("feature vector has %d values, model expects %d",
			len(vector), m.forest.FeatureCount)
	}

	input := vector
	if m.scaler != nil {
		input = make([]float64, len(vector))
		for i, v := range vector {
			scale := m.scaler.Scale[i]
			if scale == 0 {
				scale = 1
			}
			input[i] = (v - m.scaler.Mean[i]) / scale
		}
	}

	probabilities := make([]float64, m.forest.ClassCount)
	for ti := range m.forest.Trees {
		votes, err := m.forest.Trees[ti].predict(input, m.forest.ClassCount)
		if err != nil {
			return 0, nil, fmt.Errorf("tree %d: %w", ti, err)
		}
		for c, v := range votes {
			probabilities[c] += v
		}
	}
	total := float64(len(m.forest.Trees))
	best := 0
	for c := range probabilities {
		probabilities[c] /= total
		if probabilities[c] > probabilities[best] {
			best = c
		}
	}
	return best, probabilities, nil
}

// predict walks the tree to a leaf and returns its normalized class
// distribution.
func (t *TreeArtifact) predict(vector []float64, classCount int) ([]float64, error) {
	node := 0
	for steps := 0; steps <= len(t.Left); steps++ {
		if node < 0 || node >= len(t.Left) {
			return nil, fmt.Errorf("node index %d out of range", node)
		}
		if t.Left[node] < 0 { // leaf
			if node >= len(t.Value) || len(t.Value[node]) != classCount {
				return nil, fmt.Errorf("leaf %d has malformed value vector", node)
			}
			return normalizeVotes(t.Value[node]), nil
		}
		feature := t.Feature[node]
		if feature < 0 || feature >= len(vector) {
			return nil, fmt.Errorf("node %d references feature %d", node, feature)
		}
		if vector[feature] <= t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
	}
	return nil, fmt.Errorf("tree walk did not terminate")
}

func normalizeVotes(votes []float64) []float64 {
	var sum float64
	for _, v := range votes {
		sum += v
	}
	out := make([]float64, len(votes))
	if sum == 0 {
		return out
	}
	for i, v := range votes {
		out[i] = v / sum
	}
	return out
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
