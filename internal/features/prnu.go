package features

import (
	"errors"

	"go-tracefinder/internal/imaging"

	"gonum.org/v1/gonum/stat"
)

// nlmStrength corresponds to the conventional h=10 filter strength on
// 8-bit data, scaled for the [0,1] normalized image.
const nlmStrength = 10.0 / 255.0

// extractPRNU derives the sensor-pattern-noise proxy: the residual left
// after strong denoising. A real PRNU estimate needs many flat-field scans;
// this single-image residual is a workable fingerprint approximation.
func (e *Extractor) extractPRNU(img *imaging.CanonicalImage) (PRNUFeatures, error) {
	if img == nil || img.Normalized == nil {
		return PRNUFeatures{}, errors.New("no normalized image")
	}

	denoised := imaging.NLMDenoise(img.Normalized, nlmStrength)
	residual := imaging.Sub(img.Normalized, denoised)
	data := denseData(residual)

	mean := stat.Mean(data, nil)
	std := popStd(data)

	fftMagnitude := imaging.Magnitude(imaging.FFT2D(residual))

	return PRNUFeatures{
		Mean:            mean,
		Std:             std,
		Skewness:        skewness(data),
		Kurtosis:        kurtosis(data),
		FFTEnergy:       stat.Mean(denseData(fftMagnitude), nil),
		PatternStrength: std / (mean + 1e-10),
		Pattern:         residual,
	}, nil
}
