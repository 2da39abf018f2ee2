package noisemap

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PatternMatch is the similarity verdict for two noise maps.
type PatternMatch struct {
	Correlation          float64 `json:"correlation"`
	StructuralSimilarity float64 `json:"structural_similarity"`
	MatchScore           float64 `json:"match_score"`
}

// ComparePatterns measures how closely two noise maps agree. Inputs of
// different sizes are compared over their common top-left square.
func (a *Analyzer) ComparePatterns(n1, n2 *mat.Dense) PatternMatch {
	r1, c1 := n1.Dims()
	r2, c2 := n2.Dims()
	size := minInt(minInt(r1, r2), minInt(c1, c2))

	flat1 := make([]float64, 0, size*size)
	flat2 := make([]float64, 0, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			flat1 = append(flat1, n1.At(y, x))
			flat2 = append(flat2, n2.At(y, x))
		}
	}

	correlation := safeCorrelation(flat1, flat2)
	ssim := structuralSimilarity(flat1, flat2)

	return PatternMatch{
		Correlation:          correlation,
		StructuralSimilarity: ssim,
		MatchScore:           (correlation + ssim) / 2,
	}
}

// structuralSimilarity is the global SSIM index with the standard
// stabilization constants, using the first input's dynamic range.
func structuralSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	meanA := stat.Mean(a, nil)
	meanB := stat.Mean(b, nil)
	varA := stat.MomentAbout(2, a, meanA, nil)
	varB := stat.MomentAbout(2, b, meanB, nil)

	var cov float64
	for i := range a {
		cov += (a[i] - meanA) * (b[i] - meanB)
	}
	cov /= float64(len(a))

	dataRange := rangeOf(a)
	if dataRange == 0 {
		// Flat reference: identical inputs are a perfect match
		if equalSlices(a, b) {
			return 1
		}
		dataRange = 1
	}
	c1 := (0.01 * dataRange) * (0.01 * dataRange)
	c2 := (0.03 * dataRange) * (0.03 * dataRange)

	num := (2*meanA*meanB + c1) * (2*cov + c2)
	den := (meanA*meanA + meanB*meanB + c1) * (varA + varB + c2)
	return num / den
}

func rangeOf(data []float64) float64 {
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, v := range data {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	return maxV - minV
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
