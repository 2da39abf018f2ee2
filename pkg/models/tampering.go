package models

// TamperingResponse aggregates the four tampering detection techniques.
type TamperingResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	TamperingDetected bool                 `json:"tampering_detected"`
	Confidence        float64              `json:"confidence"` // 0-100
	IndicatorCount    int                  `json:"indicator_count"`
	Indicators        []string             `json:"indicators"`
	Techniques        *TamperingTechniques `json:"techniques,omitempty"`
	Verdict           string               `json:"verdict,omitempty"`
	RiskLevel         string               `json:"risk_level,omitempty"`
}

// TamperingTechniques holds the per-technique diagnostics.
type TamperingTechniques struct {
	ErrorLevelAnalysis ELAResult              `json:"error_level_analysis"`
	NoiseConsistency   NoiseConsistencyResult `json:"noise_consistency"`
	JPEGArtifacts      JPEGGhostResult        `json:"jpeg_artifacts"`
	MetadataCheck      MetadataCheckResult    `json:"metadata_check"`
}

// ELAResult is the error level analysis diagnostic.
type ELAResult struct {
	Suspicious bool    `json:"suspicious"`
	MeanError  float64 `json:"mean_error"`
	StdError   float64 `json:"std_error"`
	MaxError   float64 `json:"max_error"`
	Analysis   string  `json:"analysis"`
	Error      string  `json:"error,omitempty"`
}

// NoiseConsistencyResult is the block-wise noise variance diagnostic.
type NoiseConsistencyResult struct {
	Suspicious           bool    `json:"suspicious"`
	VariationCoefficient float64 `json:"variation_coefficient"`
	MeanNoiseLevel       float64 `json:"mean_noise_level"`
	Analysis             string  `json:"analysis"`
	Error                string  `json:"error,omitempty"`
}

// JPEGGhostResult is the multi-quality re-compression diagnostic.
type JPEGGhostResult struct {
	Suspicious  bool      `json:"suspicious"`
	GhostScores []float64 `json:"ghost_scores"`
	Analysis    string    `json:"analysis"`
	Error       string    `json:"error,omitempty"`
}

// MetadataCheckResult is the EXIF editing-software diagnostic.
type MetadataCheckResult struct {
	Suspicious bool     `json:"suspicious"`
	Indicators []string `json:"indicators"`
	Analysis   string   `json:"analysis"`
	Error      string   `json:"error,omitempty"`
}
