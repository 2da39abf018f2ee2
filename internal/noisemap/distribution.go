package noisemap

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const maxDistributionSample = 10000

// identifyDistribution fit-tests the noise residual against Gaussian and
// Laplacian models and reports the better fit. Sampling is strided rather
// than random so results are reproducible.
func (a *Analyzer) identifyDistribution(residual *mat.Dense) Distribution {
	flat := residual.RawMatrix().Data
	sample := stridedSample(flat, maxDistributionSample)

	scores := map[string]float64{
		"gaussian":  normalTestPValue(sample),
		"laplacian": ksLaplacePValue(sample),
	}

	best := "gaussian"
	if scores["laplacian"] > scores["gaussian"] {
		best = "laplacian"
	}
	return Distribution{
		Type:       best,
		Confidence: scores[best],
		AllScores:  scores,
	}
}

func stridedSample(data []float64, maxN int) []float64 {
	if len(data) <= maxN {
		out := make([]float64, len(data))
		copy(out, data)
		return out
	}
	step := float64(len(data)) / float64(maxN)
	out := make([]float64, 0, maxN)
	for i := 0; i < maxN; i++ {
		out = append(out, data[int(float64(i)*step)])
	}
	return out
}

// normalTestPValue is the D'Agostino-Pearson omnibus normality test:
// skewness and kurtosis z-scores combined into a chi-squared statistic
// with two degrees of freedom.
func normalTestPValue(sample []float64) float64 {
	n := float64(len(sample))
	if n < 20 {
		return 0
	}

	zs := skewTestZ(sample)
	zk := kurtosisTestZ(sample)
	k2 := zs*zs + zk*zk

	chi2 := distuv.ChiSquared{K: 2}
	return chi2.Survival(k2)
}

func skewTestZ(sample []float64) float64 {
	n := float64(len(sample))
	mean := stat.Mean(sample, nil)
	m2 := stat.MomentAbout(2, sample, mean, nil)
	m3 := stat.MomentAbout(3, sample, mean, nil)
	if m2 == 0 {
		return 0
	}
	b1 := m3 / math.Pow(m2, 1.5)

	y := b1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := 3 * (n*n + 27*n - 70) * (n + 1) * (n + 3) /
		((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	if w2 <= 1 {
		return 0
	}
	delta := 1 / math.Sqrt(0.5*math.Log(w2))
	alpha := math.Sqrt(2 / (w2 - 1))
	if alpha == 0 {
		return 0
	}
	t := y / alpha
	return delta * math.Log(t+math.Sqrt(t*t+1))
}

func kurtosisTestZ(sample []float64) float64 {
	n := float64(len(sample))
	mean := stat.Mean(sample, nil)
	m2 := stat.MomentAbout(2, sample, mean, nil)
	m4 := stat.MomentAbout(4, sample, mean, nil)
	if m2 == 0 {
		return 0
	}
	b2 := m4 / (m2 * m2)

	expected := 3 * (n - 1) / (n + 1)
	variance := 24 * n * (n - 2) * (n - 3) /
		((n + 1) * (n + 1) * (n + 3) * (n + 5))
	if variance <= 0 {
		return 0
	}
	x := (b2 - expected) / math.Sqrt(variance)

	sqrtBeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) *
		math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	if sqrtBeta1 == 0 {
		return 0
	}
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))
	if a <= 4 {
		return 0
	}
	term := (1 - 2/a) / (1 + x*math.Sqrt(2/(a-4)))
	if term < 0 {
		term = -math.Pow(-term, 1.0/3.0)
	} else {
		term = math.Pow(term, 1.0/3.0)
	}
	return ((1 - 2/(9*a)) - term) / math.Sqrt(2/(9*a))
}

// ksLaplacePValue is a one-sample Kolmogorov-Smirnov test against the
// standard Laplace distribution, with the usual asymptotic p-value
// approximation.
func ksLaplacePValue(sample []float64) float64 {
	n := len(sample)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, sample)
	sort.Float64s(sorted)

	laplace := distuv.Laplace{Mu: 0, Scale: 1}
	var d float64
	for i, x := range sorted {
		cdf := laplace.CDF(x)
		upper := math.Abs(float64(i+1)/float64(n) - cdf)
		lower := math.Abs(cdf - float64(i)/float64(n))
		if upper > d {
			d = upper
		}
		if lower > d {
			d = lower
		}
	}

	return kolmogorovPValue(d, float64(n))
}

func kolmogorovPValue(d, n float64) float64 {
	t := (math.Sqrt(n) + 0.12 + 0.11/math.Sqrt(n)) * d
	var sum float64
	sign := 1.0
	for k := 1.0; k <= 100; k++ {
		term := sign * math.Exp(-2*k*k*t*t)
		sum += term
		if math.Abs(term) < 1e-12 {
			break
		}
		sign = -sign
	}
	p := 2 * sum
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
