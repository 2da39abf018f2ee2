package classifier

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"go-tracefinder/internal/config"
)

func writeTestScan(t *testing.T) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 96, 96))
	for y := 0; y < 96; y++ {
		for x := 0; x < 96; x++ {
			v := (x + y) * 255 / 192
			v += (x*29 + y*13) % 11
			if v > 255 {
				v = 255
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}

	path := filepath.Join(t.TempDir(), "scan.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return path
}

func testConfig(modelDir string) *config.Config {
	return &config.Config{ModelDir: modelDir}
}

func validLevels() map[string]bool {
	return map[string]bool{
		"Very High": true, "High": true, "Medium": true, "Low": true, "Very Low": true,
	}
}

func TestDetectorFallsBackWithoutModel(t *testing.T) {
	d := NewDetector(testConfig(filepath.Join(t.TempDir(), "missing")))
	if d.UsingTrainedModel() {
		t.Fatal("expected signature fallback without model artifacts")
	}

	result := d.Analyze(writeTestScan(t))
	if !result.Success {
		t.Fatalf("analysis failed: %s", result.Error)
	}
	if result.ScannerBrand == "" || result.ScannerModel == "" {
		t.Error("expected a brand and model identification")
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		t.Errorf("confidence out of [0,1]: %v", result.Confidence)
	}
	if !validLevels()[result.ConfidenceLevel] {
		t.Errorf("unexpected confidence level %q", result.ConfidenceLevel)
	}
	if result.UsingTrainedModel {
		t.Error("expected signature path to be reported")
	}
	if len(result.FeaturesSummary) == 0 {
		t.Error("expected a features summary")
	}
	if result.Metadata == nil {
		t.Error("expected metadata to be attached")
	}
	if result.DetailedAnalysis == nil || len(result.DetailedAnalysis.Anomalies) == 0 {
		t.Error("expected detailed indicators with an anomalies section")
	}
}

func TestDetectorWithTrainedModel(t *testing.T) {
	d := NewDetector(testConfig(writeModelDir(t, false)))
	if !d.UsingTrainedModel() {
		t.Fatal("expected trained model to load")
	}

	result := d.Analyze(writeTestScan(t))
	if !result.Success {
		t.Fatalf("analysis failed: %s", result.Error)
	}
	if !result.UsingTrainedModel {
		t.Error("expected trained model path to be reported")
	}
	if result.ScannerBrand != "Canon" && result.ScannerBrand != "Epson" {
		t.Errorf("expected a label from the trained classes, got %q", result.ScannerBrand)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		t.Errorf("confidence out of [0,1]: %v", result.Confidence)
	}
}

func TestDetectorAnalyzeMissingFile(t *testing.T) {
	d := NewDetector(testConfig(filepath.Join(t.TempDir(), "missing")))
	result := d.Analyze(filepath.Join(t.TempDir(), "nope.png"))
	if result.Success {
		t.Fatal("expected failure for missing file")
	}
	if result.Error == "" {
		t.Error("expected the error to be carried in the response")
	}
}

func TestDetectorFullAnalysis(t *testing.T) {
	d := NewDetector(testConfig(filepath.Join(t.TempDir(), "missing")))
	result := d.FullAnalysis(writeTestScan(t))
	if !result.Success {
		t.Fatalf("analysis failed: %s", result.Error)
	}
	if result.AdvancedAnalysis == nil {
		t.Fatal("expected the advanced analysis section")
	}

	adv := result.AdvancedAnalysis
	if adv.NoisePatternAnalysis.PatternType == "" {
		t.Error("expected a noise pattern type")
	}
	if adv.NoisePatternAnalysis.Uniformity < 0 || adv.NoisePatternAnalysis.Uniformity > 1 {
		t.Errorf("uniformity out of range: %v", adv.NoisePatternAnalysis.Uniformity)
	}
	if adv.NoiseProfile == nil {
		t.Error("expected the deep noise profile")
	}
	if adv.PeriodicArtifactDetection.ArtifactStrength < 0 {
		t.Errorf("negative artifact strength: %v", adv.PeriodicArtifactDetection.ArtifactStrength)
	}
}

func TestDetectorAnalyzeImage(t *testing.T) {
	d := NewDetector(testConfig(filepath.Join(t.TempDir(), "missing")))

	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x * y) % 256)})
		}
	}

	result := d.AnalyzeImage(img)
	if !result.Success {
		t.Fatalf("analysis failed: %s", result.Error)
	}
	if result.Metadata == nil || len(result.Metadata.ExifData) != 0 {
		t.Error("expected empty metadata for in-memory images")
	}
}

func TestConfidenceLevelBands(t *testing.T) {
	tests := []struct {
		confidence float64
		want       string
	}{
		{0.95, "Very High"},
		{0.9, "Very High"},
		{0.8, "High"},
		{0.75, "High"},
		{0.6, "Medium"},
		{0.5, "Low"},
		{0.4, "Low"},
		{0.1, "Very Low"},
	}
	for _, tt := range tests {
		if got := confidenceLevel(tt.confidence); got != tt.want {
			t.Errorf("confidenceLevel(%v) = %q, want %q", tt.confidence, got, tt.want)
		}
	}
}
