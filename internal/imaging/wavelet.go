package imaging

import "gonum.org/v1/gonum/mat"

// Daubechies-4 decomposition filters (8 taps).
var (
	db4DecLo = []float64{
		-0.010597401785069032, 0.0328830116668852, 0.030841381835560764,
		-0.18703481171909309, -0.027983769416859854, 0.6308807679298589,
		0.7148465705529157, 0.2303778133088965,
	}
	db4DecHi = []float64{
		-0.2303778133088965, 0.7148465705529157, -0.6308807679298589,
		-0.027983769416859854, 0.18703481171909309, 0.030841381835560764,
		-0.0328830116668852, -0.010597401785069032,
	}
)

// WaveletLevel2D holds the detail sub-bands of one decomposition level.
type WaveletLevel2D struct {
	Horizontal *mat.Dense
	Vertical   *mat.Dense
	Diagonal   *mat.Dense
}

// WaveletDecomposition is a multilevel 2D DWT result. Levels are ordered
// from coarsest (index 0) to finest, matching the conventional wavedec2
// coefficient ordering.
type WaveletDecomposition struct {
	Approximation *mat.Dense
	Levels        []WaveletLevel2D
}

// dwt1D convolves a symmetric extension of x with the filter and keeps
// every second sample, producing floor((n+L-1)/2) coefficients.
func dwt1D(x, filter []float64) []float64 {
	n := len(x)
	l := len(filter)
	pad := l - 1

	ext := make([]float64, n+2*pad)
	for i := range ext {
		src := i - pad
		// Half-sample symmetric extension: ... x1 x0 | x0 x1 ...
		for src < 0 || src >= n {
			if src < 0 {
				src = -src - 1
			}
			if src >= n {
				src = 2*n - src - 1
			}
		}
		ext[i] = x[src]
	}

	outLen := (n + l - 1) / 2
	out := make([]float64, outLen)
	for k := 0; k < outLen; k++ {
		base := 2*k + 1
		var acc float64
		for j := 0; j < l; j++ {
			acc += ext[base+j] * filter[l-1-j]
		}
		out[k] = acc
	}
	return out
}

// DWT2 performs a single-level 2D discrete wavelet transform using db4,
// returning the approximation and the three detail sub-bands.
func DWT2(m *mat.Dense) (cA, cH, cV, cD *mat.Dense) {
	rows, cols := m.Dims()

	// Transform rows
	lowLen := (cols + len(db4DecLo) - 1) / 2
	rowLo := mat.NewDense(rows, lowLen, nil)
	rowHi := mat.NewDense(rows, lowLen, nil)
	rowBuf := make([]float64, cols)
	for y := 0; y < rows; y++ {
		mat.Row(rowBuf, y, m)
		rowLo.SetRow(y, dwt1D(rowBuf, db4DecLo))
		rowHi.SetRow(y, dwt1D(rowBuf, db4DecHi))
	}

	// Transform columns of each half
	outRows := (rows + len(db4DecLo) - 1) / 2
	cA = mat.NewDense(outRows, lowLen, nil)
	cH = mat.NewDense(outRows, lowLen, nil)
	cV = mat.NewDense(outRows, lowLen, nil)
	cD = mat.NewDense(outRows, lowLen, nil)

	colBuf := make([]float64, rows)
	for x := 0; x < lowLen; x++ {
		mat.Col(colBuf, x, rowLo)
		setCol(cA, x, dwt1D(colBuf, db4DecLo))
		setCol(cH, x, dwt1D(colBuf, db4DecHi))

		mat.Col(colBuf, x, rowHi)
		setCol(cV, x, dwt1D(colBuf, db4DecLo))
		setCol(cD, x, dwt1D(colBuf, db4DecHi))
	}
	return cA, cH, cV, cD
}

// WaveDec2 performs a multilevel 2D wavelet decomposition. The returned
// levels run from the coarsest scale to the finest.
func WaveDec2(m *mat.Dense, level int) WaveletDecomposition {
	approx := m
	levels := make([]WaveletLevel2D, 0, level)
	for i := 0; i < level; i++ {
		cA, cH, cV, cD := DWT2(approx)
		approx = cA
		// Prepend so the coarsest level ends up first
		levels = append([]WaveletLevel2D{{Horizontal: cH, Vertical: cV, Diagonal: cD}}, levels...)
	}
	return WaveletDecomposition{Approximation: approx, Levels: levels}
}

func setCol(m *mat.Dense, col int, values []float64) {
	for i, v := range values {
		m.Set(i, col, v)
	}
}
