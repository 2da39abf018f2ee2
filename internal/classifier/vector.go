package classifier

import "go-tracefinder/internal/features"

// FeatureVectorSize is the fixed classifier input dimension: 4 PRNU,
// 4 texture, 3 frequency, and 4 wavelet sub-bands with 3 statistics each.
const FeatureVectorSize = 23

// FlattenFeatures turns the bundle into the trained model's fixed input
// vector. Order must match the vector layout the model was trained with.
func FlattenFeatures(bundle *features.Bundle) []float64 {
	vector := make([]float64, 0, FeatureVectorSize)

	vector = append(vector,
		bundle.PRNU.Mean,
		bundle.PRNU.Std,
		bundle.PRNU.FFTEnergy,
		bundle.PRNU.PatternStrength,
	)

	vector = append(vector,
		bundle.Texture.Contrast,
		bundle.Texture.Correlation,
		bundle.Texture.Energy,
		bundle.Texture.Homogeneity,
	)

	vector = append(vector,
		bundle.Frequency.FreqRatio,
		bundle.Frequency.SpectralFlatness,
		bundle.Frequency.SpectralCentroid,
	)

	for _, subband := range bundle.Wavelet.Subbands {
		vector = append(vector, subband.Mean, subband.Std, subband.Energy)
	}

	return vector
}
