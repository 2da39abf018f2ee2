package features

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// denseData returns the backing slice of a row-major matrix.
func denseData(m *mat.Dense) []float64 {
	return m.RawMatrix().Data
}

// popStd is the population standard deviation (divisor N, matching the
// reference numpy behavior rather than gonum's sample estimator).
func popStd(data []float64) float64 {
	mean := stat.Mean(data, nil)
	return math.Sqrt(stat.MomentAbout(2, data, mean, nil))
}

// popVariance is the population variance.
func popVariance(data []float64) float64 {
	mean := stat.Mean(data, nil)
	return stat.MomentAbout(2, data, mean, nil)
}

// skewness is the population skewness; zero when the data has no spread.
func skewness(data []float64) float64 {
	mean := stat.Mean(data, nil)
	std := math.Sqrt(stat.MomentAbout(2, data, mean, nil))
	if std == 0 {
		return 0
	}
	return stat.MomentAbout(3, data, mean, nil) / (std * std * std)
}

// kurtosis is the population excess kurtosis; zero when the data has no
// spread.
func kurtosis(data []float64) float64 {
	mean := stat.Mean(data, nil)
	std := math.Sqrt(stat.MomentAbout(2, data, mean, nil))
	if std == 0 {
		return 0
	}
	return stat.MomentAbout(4, data, mean, nil)/(std*std*std*std) - 3
}

// meanAbs is the mean absolute value.
func meanAbs(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range data {
		sum += math.Abs(v)
	}
	return sum / float64(len(data))
}

// meanSquares is the mean of squared values.
func meanSquares(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range data {
		sum += v * v
	}
	return sum / float64(len(data))
}
