package models

// ComparisonResponse is the pairwise same-scanner verdict.
type ComparisonResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	OverallSimilarity float64          `json:"overall_similarity,omitempty"` // 0-100
	MatchStatus       string           `json:"match_status,omitempty"`
	MatchConfidence   string           `json:"match_confidence,omitempty"`
	DetailedScores    *ComparisonScore `json:"detailed_scores,omitempty"`
	Analysis          []string         `json:"analysis,omitempty"`
}

// ComparisonScore holds the per-category similarity percentages.
type ComparisonScore struct {
	PRNUSimilarity      float64 `json:"prnu_similarity"`
	TextureSimilarity   float64 `json:"texture_similarity"`
	FrequencySimilarity float64 `json:"frequency_similarity"`
	WaveletSimilarity   float64 `json:"wavelet_similarity"`
}
