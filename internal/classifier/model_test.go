package classifier

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeModelDir lays out a two-class forest with two stump trees splitting
// on feature 0 at 0.5.
func writeModelDir(t *testing.T, withScaler bool) string {
	t.Helper()
	dir := t.TempDir()

	stump := TreeArtifact{
		Feature:   []int{0, -2, -2},
		Threshold: []float64{0.5, 0, 0},
		Left:      []int{1, -1, -1},
		Right:     []int{2, -1, -1},
		Value: [][]float64{
			{0, 0},
			{10, 0}, // left leaf votes Canon
			{0, 10}, // right leaf votes Epson
		},
	}
	forest := ForestArtifact{
		FeatureCount: FeatureVectorSize,
		ClassCount:   2,
		Trees:        []TreeArtifact{stump, stump},
	}
	labels := LabelEncoder{Classes: []string{"Canon CanoScan LiDE 300", "Epson Perfection V600"}}

	writeJSON(t, filepath.Join(dir, "scanner_classifier.json"), forest)
	writeJSON(t, filepath.Join(dir, "label_encoder.json"), labels)
	if withScaler {
		scaler := FeatureScaler{
			Mean:  make([]float64, FeatureVectorSize),
			Scale: make([]float64, FeatureVectorSize),
		}
		for i := range scaler.Scale {
			scaler.Scale[i] = 1
		}
		writeJSON(t, filepath.Join(dir, "feature_scaler.json"), scaler)
	}
	return dir
}

func writeJSON(t *testing.T, path string, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadModelAndPredict(t *testing.T) {
	model, err := LoadModel(writeModelDir(t, false))
	if err != nil {
		t.Fatalf("load model: %v", err)
	}

	vector := make([]float64, FeatureVectorSize)

	vector[0] = 0.2
	winner, probs, err := model.Predict(vector)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if winner != 0 {
		t.Errorf("expected class 0 for low feature 0, got %d", winner)
	}
	if math.Abs(probs[0]-1) > 1e-12 || math.Abs(probs[1]) > 1e-12 {
		t.Errorf("expected probabilities [1,0], got %v", probs)
	}

	vector[0] = 0.9
	winner, probs, err = model.Predict(vector)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if winner != 1 {
		t.Errorf("expected class 1 for high feature 0, got %d", winner)
	}

	var sum float64
	for _, p := range probs {
		if p < 0 || p > 1 {
			t.Errorf("probability out of range: %v", p)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("probabilities sum to %v, want 1", sum)
	}
}

func TestLoadModelWithScaler(t *testing.T) {
	model, err := LoadModel(writeModelDir(t, true))
	if err != nil {
		t.Fatalf("load model with scaler: %v", err)
	}
	if model.scaler == nil {
		t.Fatal("expected scaler to be loaded")
	}

	vector := make([]float64, FeatureVectorSize)
	vector[0] = 0.9
	winner, _, err := model.Predict(vector)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	// Identity scaler must not change the outcome
	if winner != 1 {
		t.Errorf("expected class 1 with identity scaler, got %d", winner)
	}
}

func TestLoadModelMissingDir(t *testing.T) {
	if _, err := LoadModel(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing model directory")
	}
}

func TestLoadModelClassMismatch(t *testing.T) {
	dir := writeModelDir(t, false)
	writeJSON(t, filepath.Join(dir, "label_encoder.json"),
		LabelEncoder{Classes: []string{"Only One"}})

	if _, err := LoadModel(dir); err == nil {
		t.Fatal("expected error for class count mismatch")
	}
}

func TestPredictWrongDimension(t *testing.T) {
	model, err := LoadModel(writeModelDir(t, false))
	if err != nil {
		t.Fatalf("load model: %v", err)
	}
	if _, _, err := model.Predict([]float64{1, 2, 3}); err == nil {
		t.Fatal("expected error for wrong vector size")
	}
}
