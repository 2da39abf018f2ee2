package features

import "gonum.org/v1/gonum/mat"

// SNRInfinite stands in for an infinite signal-to-noise ratio on a
// noise-free image. JSON cannot carry IEEE infinities, so the boundary
// uses this sentinel instead.
const SNRInfinite = 1e12

// PRNUFeatures describe the sensor-pattern-noise proxy extracted from the
// denoising residual.
type PRNUFeatures struct {
	Mean            float64 `json:"mean"`
	Std             float64 `json:"std"`
	Skewness        float64 `json:"skewness"`
	Kurtosis        float64 `json:"kurtosis"`
	FFTEnergy       float64 `json:"fft_energy"`
	PatternStrength float64 `json:"pattern_strength"`

	// Pattern is the raw residual, kept for pairwise correlation. It is
	// never serialized to the web boundary.
	Pattern *mat.Dense `json:"-"`
}

// TextureFeatures are GLCM summary statistics averaged over all
// distance/angle pairs.
type TextureFeatures struct {
	Contrast      float64 `json:"contrast"`
	Dissimilarity float64 `json:"dissimilarity"`
	Homogeneity   float64 `json:"homogeneity"`
	Energy        float64 `json:"energy"`
	Correlation   float64 `json:"correlation"`
	ContrastStd   float64 `json:"contrast_std"`
}

// FrequencyFeatures summarize the shifted FFT magnitude spectrum.
type FrequencyFeatures struct {
	LowFreqEnergy    float64 `json:"low_freq_energy"`
	HighFreqEnergy   float64 `json:"high_freq_energy"`
	FreqRatio        float64 `json:"freq_ratio"`
	SpectralFlatness float64 `json:"spectral_flatness"`
	SpectralCentroid float64 `json:"spectral_centroid"`
}

// SubbandStats are per-subband statistics feeding the trained classifier.
type SubbandStats struct {
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Energy float64 `json:"energy"`
}

// WaveletFeatures are multilevel db4 decomposition statistics. Detail
// level 1 is the coarsest scale.
type WaveletFeatures struct {
	ApproxEnergy      float64    `json:"approx_energy"`
	ApproxStd         float64    `json:"approx_std"`
	DetailEnergies    [3]float64 `json:"detail_energies"`
	TotalDetailEnergy float64    `json:"total_detail_energy"`

	// Subbands are the coarsest-level cA, cH, cV, cD statistics, in that
	// order.
	Subbands [4]SubbandStats `json:"subbands"`
}

// StatisticalFeatures are first-order statistics of the resized grayscale
// image.
type StatisticalFeatures struct {
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Variance float64 `json:"variance"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Range    float64 `json:"range"`
	Entropy  float64 `json:"entropy"`
}

// NoiseFeatures characterize the Gaussian high-pass residual.
type NoiseFeatures struct {
	NoiseMean     float64 `json:"noise_mean"`
	NoiseStd      float64 `json:"noise_std"`
	NoisePower    float64 `json:"noise_power"`
	SNR           float64 `json:"snr"`
	NoiseVariance float64 `json:"noise_variance"`
}

// Bundle is the fixed-schema feature set. All six categories are always
// present; a failed sub-extraction leaves its category zeroed rather than
// absent, so consumers never need to branch on missing keys.
type Bundle struct {
	PRNU        PRNUFeatures        `json:"prnu"`
	Texture     TextureFeatures     `json:"texture"`
	Frequency   FrequencyFeatures   `json:"frequency"`
	Wavelet     WaveletFeatures     `json:"wavelet"`
	Statistical StatisticalFeatures `json:"statistical"`
	Noise       NoiseFeatures       `json:"noise"`
}

// Map exports the bundle as a generic nested mapping for the web/report
// boundary. The PRNU pattern matrix is intentionally omitted.
func (b *Bundle) Map() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"prnu": {
			"mean":             b.PRNU.Mean,
			"std":              b.PRNU.Std,
			"skewness":         b.PRNU.Skewness,
			"kurtosis":         b.PRNU.Kurtosis,
			"fft_energy":       b.PRNU.FFTEnergy,
			"pattern_strength": b.PRNU.PatternStrength,
		},
		"texture": {
			"contrast":      b.Texture.Contrast,
			"dissimilarity": b.Texture.Dissimilarity,
			"homogeneity":   b.Texture.Homogeneity,
			"energy":        b.Texture.Energy,
			"correlation":   b.Texture.Correlation,
			"contrast_std":  b.Texture.ContrastStd,
		},
		"frequency": {
			"low_freq_energy":   b.Frequency.LowFreqEnergy,
			"high_freq_energy":  b.Frequency.HighFreqEnergy,
			"freq_ratio":        b.Frequency.FreqRatio,
			"spectral_flatness": b.Frequency.SpectralFlatness,
			"spectral_centroid": b.Frequency.SpectralCentroid,
		},
		"wavelet": {
			"approx_energy":         b.Wavelet.ApproxEnergy,
			"approx_std":            b.Wavelet.ApproxStd,
			"detail_energy_level_1": b.Wavelet.DetailEnergies[0],
			"detail_energy_level_2": b.Wavelet.DetailEnergies[1],
			"detail_energy_level_3": b.Wavelet.DetailEnergies[2],
			"total_detail_energy":   b.Wavelet.TotalDetailEnergy,
		},
		"statistical": {
			"mean":     b.Statistical.Mean,
			"std":      b.Statistical.Std,
			"variance": b.Statistical.Variance,
			"skewness": b.Statistical.Skewness,
			"kurtosis": b.Statistical.Kurtosis,
			"min":      b.Statistical.Min,
			"max":      b.Statistical.Max,
			"range":    b.Statistical.Range,
			"entropy":  b.Statistical.Entropy,
		},
		"noise": {
			"noise_mean":     b.Noise.NoiseMean,
			"noise_std":      b.Noise.NoiseStd,
			"noise_power":    b.Noise.NoisePower,
			"snr":            b.Noise.SNR,
			"noise_variance": b.Noise.NoiseVariance,
		},
	}
}
