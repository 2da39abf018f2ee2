package imaging

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// FFT2D computes the two-dimensional discrete Fourier transform by running
// complex FFTs over every row and then over every column.
func FFT2D(m *mat.Dense) [][]complex128 {
	rows, cols := m.Dims()

	out := make([][]complex128, rows)
	rowFFT := fourier.NewCmplxFFT(cols)
	rowBuf := make([]complex128, cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			rowBuf[x] = complex(m.At(y, x), 0)
		}
		out[y] = rowFFT.Coefficients(nil, rowBuf)
	}

	colFFT := fourier.NewCmplxFFT(rows)
	colBuf := make([]complex128, rows)
	for x := 0; x < cols; x++ {
		for y := 0; y < rows; y++ {
			colBuf[y] = out[y][x]
		}
		transformed := colFFT.Coefficients(nil, colBuf)
		for y := 0; y < rows; y++ {
			out[y][x] = transformed[y]
		}
	}
	return out
}

// FFTShift moves the zero-frequency component to the center of the spectrum.
func FFTShift(freq [][]complex128) [][]complex128 {
	rows := len(freq)
	if rows == 0 {
		return freq
	}
	cols := len(freq[0])
	shiftR := (rows + 1) / 2
	shiftC := (cols + 1) / 2

	out := make([][]complex128, rows)
	for y := 0; y < rows; y++ {
		out[y] = make([]complex128, cols)
		for x := 0; x < cols; x++ {
			out[y][x] = freq[(y+shiftR)%rows][(x+shiftC)%cols]
		}
	}
	return out
}

// Magnitude converts a complex spectrum to its magnitude matrix.
func Magnitude(freq [][]complex128) *mat.Dense {
	rows := len(freq)
	if rows == 0 {
		return mat.NewDense(1, 1, nil)
	}
	cols := len(freq[0])
	out := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			out.Set(y, x, cmplx.Abs(freq[y][x]))
		}
	}
	return out
}

// MagnitudeSpectrum is the shifted FFT magnitude of m.
func MagnitudeSpectrum(m *mat.Dense) *mat.Dense {
	return Magnitude(FFTShift(FFT2D(m)))
}
