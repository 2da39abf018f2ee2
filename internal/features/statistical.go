package features

import (
	"errors"
	"image"
	"math"

	"go-tracefinder/internal/imaging"

	"gonum.org/v1/gonum/stat"
)

// extractStatistical computes first-order statistics over the 8-bit
// resized grayscale image.
func (e *Extractor) extractStatistical(img *imaging.CanonicalImage) (StatisticalFeatures, error) {
	if img == nil || img.Resized == nil {
		return StatisticalFeatures{}, errors.New("no resized image")
	}

	bounds := img.Resized.Bounds()
	n := bounds.Dx() * bounds.Dy()
	if n == 0 {
		return StatisticalFeatures{}, errors.New("empty image")
	}

	data := make([]float64, 0, n)
	minV, maxV := math.Inf(1), math.Inf(-1)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := float64(img.Resized.GrayAt(x, y).Y)
			data = append(data, v)
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
	}

	return StatisticalFeatures{
		Mean:     stat.Mean(data, nil),
		Std:      popStd(data),
		Variance: popVariance(data),
		Skewness: skewness(data),
		Kurtosis: kurtosis(data),
		Min:      minV,
		Max:      maxV,
		Range:    maxV - minV,
		Entropy:  shannonEntropy(img.Resized),
	}, nil
}

// shannonEntropy is the base-2 entropy of the 256-bin intensity histogram.
// Zero-probability bins are excluded.
func shannonEntropy(gray *image.Gray) float64 {
	hist := imaging.Histogram256(gray)
	var total float64
	for _, count := range hist {
		total += float64(count)
	}
	if total == 0 {
		return 0
	}

	var entropy float64
	for _, count := range hist {
		if count == 0 {
			continue
		}
		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}
