package features

import (
	"errors"
	"math"

	"go-tracefinder/internal/imaging"
)

// noisePowerFloor is the mean-square power below which a residual is
// indistinguishable from float round-off.
const noisePowerFloor = 1e-20

// extractNoise characterizes the residual left by a 5x5 Gaussian high-pass
// filter.
func (e *Extractor) extractNoise(img *imaging.CanonicalImage) (NoiseFeatures, error) {
	if img == nil || img.Normalized == nil {
		return NoiseFeatures{}, errors.New("no normalized image")
	}

	blurred := imaging.GaussianBlur5(img.Normalized)
	noise := imaging.Sub(img.Normalized, blurred)
	noiseData := denseData(noise)

	noisePower := meanSquares(noiseData)
	if noisePower < noisePowerFloor {
		// The separable blur leaves ~1e-31 of round-off power on flat
		// regions; below the floor the image counts as noise-free.
		noisePower = 0
	}
	signalPower := meanSquares(denseData(img.Normalized))

	snr := SNRInfinite
	if noisePower > 0 {
		snr = 10 * math.Log10(signalPower/noisePower)
	}

	return NoiseFeatures{
		NoiseMean:     meanAbs(noiseData),
		NoiseStd:      popStd(noiseData),
		NoisePower:    noisePower,
		SNR:           snr,
		NoiseVariance: popVariance(noiseData),
	}, nil
}
