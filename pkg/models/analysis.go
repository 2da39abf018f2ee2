package models

// ClassificationResponse is the scanner identification result returned by
// Analyze and FullAnalysis. It is serialized as-is by the web layer.
type ClassificationResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	ScannerBrand    string             `json:"scanner_brand,omitempty"`
	ScannerModel    string             `json:"scanner_model,omitempty"`
	Confidence      float64            `json:"confidence,omitempty"`
	ConfidenceLevel string             `json:"confidence_level,omitempty"`
	AnalysisDate    string             `json:"analysis_date,omitempty"`
	FeaturesSummary map[string]string  `json:"features_summary,omitempty"`
	Metadata        *Metadata          `json:"metadata,omitempty"`
	Scores          map[string]float64 `json:"scores,omitempty"`

	DetailedAnalysis  *DetectionDetails `json:"detailed_analysis,omitempty"`
	UsingTrainedModel bool              `json:"using_trained_model"`

	// Populated by FullAnalysis only
	AdvancedAnalysis *AdvancedAnalysis `json:"advanced_analysis,omitempty"`
}

// DetectionDetails carries the indicator narrative for an identification.
type DetectionDetails struct {
	PrimaryIndicators   []string `json:"primary_indicators"`
	SecondaryIndicators []string `json:"secondary_indicators"`
	Anomalies           []string `json:"anomalies"`
}

// Metadata holds EXIF tags and basic file information.
type Metadata struct {
	ExifData map[string]string `json:"exif_data"`
	FileInfo FileInfo          `json:"file_info"`
	Error    string            `json:"error,omitempty"`
}

// FileInfo is the file-system view of the analyzed input.
type FileInfo struct {
	Size     int64  `json:"size"`
	Created  string `json:"created"`
	Modified string `json:"modified"`
}

// AdvancedAnalysis extends the basic identification with deep forensic
// profiling.
type AdvancedAnalysis struct {
	NoisePatternAnalysis      NoisePatternAnalysis      `json:"noise_pattern_analysis"`
	NoiseProfile              interface{}               `json:"noise_profile,omitempty"`
	PeriodicArtifactDetection PeriodicArtifactDetection `json:"periodic_artifact_detection"`
	CompressionArtifacts      CompressionArtifacts      `json:"compression_artifacts"`
	ColorInterpolation        ColorInterpolation        `json:"color_interpolation"`
	ForensicMarkers           ForensicMarkers           `json:"forensic_markers"`
}

// NoisePatternAnalysis summarizes the isolated noise residual.
type NoisePatternAnalysis struct {
	PatternType        string  `json:"pattern_type"`
	Uniformity         float64 `json:"uniformity"`
	SpatialCorrelation float64 `json:"spatial_correlation"`
}

// PeriodicArtifactDetection reports FFT peaks indicating periodic patterns.
type PeriodicArtifactDetection struct {
	PeriodicArtifactsDetected bool    `json:"periodic_artifacts_detected"`
	ArtifactStrength          float64 `json:"artifact_strength"`
}

// CompressionArtifacts is a placeholder summary; DCT-grid analysis is not
// implemented.
type CompressionArtifacts struct {
	CompressionDetected bool   `json:"compression_detected"`
	QualityEstimate     string `json:"quality_estimate"`
	BlockingArtifacts   string `json:"blocking_artifacts"`
}

// ColorInterpolation is a placeholder summary for CFA analysis, which does
// not apply to the grayscale pipeline.
type ColorInterpolation struct {
	InterpolationMethod string `json:"interpolation_method"`
	CFAPattern          string `json:"cfa_pattern"`
	Artifacts           string `json:"artifacts"`
}

// ForensicMarkers is a placeholder authenticity summary.
type ForensicMarkers struct {
	TamperingDetected bool     `json:"tampering_detected"`
	AuthenticityScore float64  `json:"authenticity_score"`
	Markers           []string `json:"markers"`
}
