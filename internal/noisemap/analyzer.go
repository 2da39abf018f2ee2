package noisemap

import (
	"math"
	"sort"

	"go-tracefinder/internal/imaging"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Profile is the deep noise characterization of one image.
type Profile struct {
	Estimates    SigmaEstimates `json:"estimates"`
	Distribution Distribution   `json:"distribution_type"`
	SpatialCorr  SpatialCorr    `json:"spatial_correlation"`
	Frequency    FrequencyBands `json:"frequency_characteristics"`
	Homogeneity  Homogeneity    `json:"homogeneity"`
}

// SigmaEstimates are four independent noise level estimators.
type SigmaEstimates struct {
	MedianAbsoluteDeviation float64 `json:"median_absolute_deviation"`
	WaveletBased            float64 `json:"wavelet_based"`
	LocalVariance           float64 `json:"local_variance"`
	GradientBased           float64 `json:"gradient_based"`
}

// Distribution reports the best-fitting noise distribution.
type Distribution struct {
	Type       string             `json:"type"`
	Confidence float64            `json:"confidence"`
	AllScores  map[string]float64 `json:"all_scores"`
}

// SpatialCorr is the autocorrelation of the noise residual at small pixel
// offsets.
type SpatialCorr struct {
	MeanCorrelation float64   `json:"mean_correlation"`
	MaxCorrelation  float64   `json:"max_correlation"`
	Correlations    []float64 `json:"correlations"`
}

// FrequencyBands split the residual spectrum into radial bands.
type FrequencyBands struct {
	LowFreqEnergy    float64 `json:"low_freq_energy"`
	MidFreqEnergy    float64 `json:"mid_freq_energy"`
	HighFreqEnergy   float64 `json:"high_freq_energy"`
	SpectralFlatness float64 `json:"spectral_flatness"`
}

// Homogeneity measures how evenly the noise level is spread across the
// image.
type Homogeneity struct {
	Score             float64 `json:"homogeneity_score"`
	RegionStdVariance float64 `json:"region_std_variance"`
	NumRegions        int     `json:"num_regions"`
}

// Analyzer performs supplementary deep noise profiling.
type Analyzer struct{}

// NewAnalyzer creates a noise analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// AnalyzeProfile runs every estimator and characterization over a [0,1]
// normalized grayscale image.
func (a *Analyzer) AnalyzeProfile(img *mat.Dense) Profile {
	residual := imaging.Sub(img, imaging.GaussianBlur5(img))

	return Profile{
		Estimates: SigmaEstimates{
			MedianAbsoluteDeviation: a.estimateMAD(img),
			WaveletBased:            a.estimateWavelet(img),
			LocalVariance:           a.estimateLocalVariance(img),
			GradientBased:           a.estimateGradient(img),
		},
		Distribution: a.identifyDistribution(residual),
		SpatialCorr:  a.spatialCorrelation(residual),
		Frequency:    a.frequencyBands(residual),
		Homogeneity:  a.homogeneity(residual),
	}
}

// estimateMAD derives sigma from the median absolute deviation of the
// Sobel gradient magnitude.
func (a *Analyzer) estimateMAD(img *mat.Dense) float64 {
	gx := imaging.SobelX(img)
	gy := imaging.SobelY(img)

	rows, cols := img.Dims()
	magnitude := make([]float64, 0, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			magnitude = append(magnitude, math.Hypot(gx.At(y, x), gy.At(y, x)))
		}
	}

	med := median(magnitude)
	deviations := make([]float64, len(magnitude))
	for i, v := range magnitude {
		deviations[i] = math.Abs(v - med)
	}
	return 1.4826 * median(deviations)
}

// estimateWavelet derives sigma from the diagonal detail sub-band of a
// single-level db4 decomposition.
func (a *Analyzer) estimateWavelet(img *mat.Dense) float64 {
	_, _, _, cD := imaging.DWT2(img)
	data := cD.RawMatrix().Data
	absValues := make([]float64, len(data))
	for i, v := range data {
		absValues[i] = math.Abs(v)
	}
	return median(absValues) / 0.6745
}

// estimateLocalVariance takes the 5th percentile of per-block variance as
// the noise floor.
func (a *Analyzer) estimateLocalVariance(img *mat.Dense) float64 {
	const blockSize = 8
	rows, cols := img.Dims()

	var variances []float64
	for i := 0; i+blockSize < rows; i += blockSize {
		for j := 0; j+blockSize < cols; j += blockSize {
			block := make([]float64, 0, blockSize*blockSize)
			for y := i; y < i+blockSize; y++ {
				for x := j; x < j+blockSize; x++ {
					block = append(block, img.At(y, x))
				}
			}
			mean := stat.Mean(block, nil)
			variances = append(variances, stat.MomentAbout(2, block, mean, nil))
		}
	}

	if len(variances) == 0 {
		return 0
	}
	return math.Sqrt(percentile(variances, 5))
}

// estimateGradient measures the Laplacian spread inside the smoothest
// quartile of the image.
func (a *Analyzer) estimateGradient(img *mat.Dense) float64 {
	laplacian := imaging.Laplacian(img)
	data := laplacian.RawMatrix().Data

	absValues := make([]float64, len(data))
	for i, v := range data {
		absValues[i] = math.Abs(v)
	}
	threshold := percentile(absValues, 25)

	var smooth []float64
	for i, v := range data {
		if absValues[i] < threshold {
			smooth = append(smooth, v)
		}
	}
	if len(smooth) == 0 {
		return 0
	}
	mean := stat.Mean(smooth, nil)
	return math.Sqrt(stat.MomentAbout(2, smooth, mean, nil))
}

// spatialCorrelation measures vertical autocorrelation of the residual at
// small offsets.
func (a *Analyzer) spatialCorrelation(residual *mat.Dense) SpatialCorr {
	flat := residual.RawMatrix().Data
	offsets := []int{1, 2, 3, 5}

	correlations := make([]float64, 0, len(offsets))
	for _, offset := range offsets {
		shifted := rollRows(residual, offset)
		corr := safeCorrelation(flat, shifted.RawMatrix().Data)
		correlations = append(correlations, math.Abs(corr))
	}

	maxCorr := 0.0
	for _, c := range correlations {
		if c > maxCorr {
			maxCorr = c
		}
	}
	return SpatialCorr{
		MeanCorrelation: stat.Mean(correlations, nil),
		MaxCorrelation:  maxCorr,
		Correlations:    correlations,
	}
}

// frequencyBands splits the residual spectrum into radial low/mid/high
// bands.
func (a *Analyzer) frequencyBands(residual *mat.Dense) FrequencyBands {
	magnitude := imaging.MagnitudeSpectrum(residual)
	rows, cols := magnitude.Dims()
	cy, cx := rows/2, cols/2

	minDim := rows
	if cols < minDim {
		minDim = cols
	}
	radiusLow := float64(minDim / 8)
	radiusMid := float64(minDim / 4)

	var lowSum, midSum, highSum float64
	var lowN, midN, highN int
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			d := math.Hypot(float64(x-cx), float64(y-cy))
			v := magnitude.At(y, x)
			switch {
			case d < radiusLow:
				lowSum += v
				lowN++
			case d < radiusMid:
				midSum += v
				midN++
			default:
				highSum += v
				highN++
			}
		}
	}

	return FrequencyBands{
		LowFreqEnergy:    safeMean(lowSum, lowN),
		MidFreqEnergy:    safeMean(midSum, midN),
		HighFreqEnergy:   safeMean(highSum, highN),
		SpectralFlatness: flatness(magnitude),
	}
}

// homogeneity compares noise spread across a coarse region grid.
func (a *Analyzer) homogeneity(residual *mat.Dense) Homogeneity {
	rows, cols := residual.Dims()
	minDim := rows
	if cols < minDim {
		minDim = cols
	}
	regionSize := minDim / 4
	if regionSize < 1 {
		regionSize = 1
	}

	var regionStds []float64
	for i := 0; i+regionSize < rows; i += regionSize {
		for j := 0; j+regionSize < cols; j += regionSize {
			region := make([]float64, 0, regionSize*regionSize)
			for y := i; y < i+regionSize; y++ {
				for x := j; x < j+regionSize; x++ {
					region = append(region, residual.At(y, x))
				}
			}
			mean := stat.Mean(region, nil)
			regionStds = append(regionStds, math.Sqrt(stat.MomentAbout(2, region, mean, nil)))
		}
	}

	score := 1.0
	variance := 0.0
	if len(regionStds) > 1 {
		mean := stat.Mean(regionStds, nil)
		variance = stat.MomentAbout(2, regionStds, mean, nil)
		score = 1.0 / (1.0 + math.Sqrt(variance))
	}
	return Homogeneity{
		Score:             score,
		RegionStdVariance: variance,
		NumRegions:        len(regionStds),
	}
}

// rollRows cyclically shifts matrix rows downward by offset.
func rollRows(m *mat.Dense, offset int) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		src := ((y-offset)%rows + rows) % rows
		for x := 0; x < cols; x++ {
			out.Set(y, x, m.At(src, x))
		}
	}
	return out
}

// safeCorrelation is a Pearson correlation that treats a pair of
// zero-variance inputs as perfectly correlated when they are equal.
func safeCorrelation(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	stdA := math.Sqrt(stat.MomentAbout(2, a, stat.Mean(a, nil), nil))
	stdB := math.Sqrt(stat.MomentAbout(2, b, stat.Mean(b, nil), nil))
	if stdA < 1e-15 || stdB < 1e-15 {
		if equalSlices(a, b) {
			return 1
		}
		return 0
	}
	return stat.Correlation(a, b, nil)
}

func equalSlices(a, b []float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-12 {
			return false
		}
	}
	return true
}

func safeMean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func flatness(spectrum *mat.Dense) float64 {
	data := spectrum.RawMatrix().Data
	if len(data) == 0 {
		return 0
	}
	var logSum, sum float64
	for _, v := range data {
		logSum += math.Log(v + 1e-10)
		sum += v + 1e-10
	}
	n := float64(len(data))
	return math.Exp(logSum/n) / (sum / n)
}

// median returns the middle value; the input slice is not preserved.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}

// percentile computes the p-th percentile with linear interpolation; the
// input slice is not preserved.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	if len(values) == 1 {
		return values[0]
	}
	rank := p / 100 * float64(len(values)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return values[lower]
	}
	frac := rank - float64(lower)
	return values[lower]*(1-frac) + values[upper]*frac
}
