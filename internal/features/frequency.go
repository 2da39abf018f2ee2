package features

import (
	"errors"
	"math"

	"go-tracefinder/internal/imaging"

	"gonum.org/v1/gonum/mat"
)

// extractFrequency partitions the shifted magnitude spectrum into a
// centered low-frequency window (side h/4 by w/4) and its complement, and
// summarizes both.
func (e *Extractor) extractFrequency(img *imaging.CanonicalImage) (FrequencyFeatures, error) {
	if img == nil || img.Normalized == nil {
		return FrequencyFeatures{}, errors.New("no normalized image")
	}

	magnitude := imaging.MagnitudeSpectrum(img.Normalized)
	h, w := magnitude.Dims()
	cy, cx := h/2, w/2

	lowY0, lowY1 := cy-h/8, cy+h/8
	lowX0, lowX1 := cx-w/8, cx+w/8

	var lowSum float64
	var lowCount int
	var highSum float64
	var highCount int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := magnitude.At(y, x)
			if y >= lowY0 && y < lowY1 && x >= lowX0 && x < lowX1 {
				lowSum += v
				lowCount++
			} else if v > 0 {
				highSum += v
				highCount++
			}
		}
	}

	lowMean := 0.0
	if lowCount > 0 {
		lowMean = lowSum / float64(lowCount)
	}
	highMean := 0.0
	if highCount > 0 {
		highMean = highSum / float64(highCount)
	}

	return FrequencyFeatures{
		LowFreqEnergy:    lowMean,
		HighFreqEnergy:   highMean,
		FreqRatio:        lowMean / (highMean + 1e-10),
		SpectralFlatness: spectralFlatness(magnitude),
		SpectralCentroid: spectralCentroid(magnitude),
	}, nil
}

// spectralFlatness is the ratio of the geometric to the arithmetic mean of
// the magnitude spectrum (1 for white noise, near 0 for tonal content).
func spectralFlatness(spectrum *mat.Dense) float64 {
	data := denseData(spectrum)
	if len(data) == 0 {
		return 0
	}
	var logSum, sum float64
	for _, v := range data {
		logSum += math.Log(v + 1e-10)
		sum += v
	}
	n := float64(len(data))
	geometricMean := math.Exp(logSum / n)
	arithmeticMean := sum / n
	return geometricMean / (arithmeticMean + 1e-10)
}

// spectralCentroid is the row-index-weighted center of spectral energy.
func spectralCentroid(spectrum *mat.Dense) float64 {
	rows, cols := spectrum.Dims()
	var weighted, total float64
	for y := 0; y < rows; y++ {
		var rowSum float64
		for x := 0; x < cols; x++ {
			rowSum += spectrum.At(y, x)
		}
		weighted += float64(y) * rowSum
		total += rowSum
	}
	return weighted / (total + 1e-10)
}
