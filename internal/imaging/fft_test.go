package imaging

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestFFT2DConstantImage(t *testing.T) {
	// A constant image concentrates all energy in the DC coefficient.
	m := constantMatrix(8, 8, 1)
	freq := FFT2D(m)

	dc := cmplx.Abs(freq[0][0])
	if math.Abs(dc-64) > 1e-9 {
		t.Errorf("expected DC magnitude 64, got %v", dc)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if y == 0 && x == 0 {
				continue
			}
			if cmplx.Abs(freq[y][x]) > 1e-9 {
				t.Fatalf("unexpected energy at (%d,%d): %v", y, x, cmplx.Abs(freq[y][x]))
			}
		}
	}
}

func TestFFTShiftCentersDC(t *testing.T) {
	m := constantMatrix(8, 8, 1)
	shifted := FFTShift(FFT2D(m))

	if mag := cmplx.Abs(shifted[4][4]); math.Abs(mag-64) > 1e-9 {
		t.Errorf("expected DC at center after shift, got magnitude %v", mag)
	}
	if mag := cmplx.Abs(shifted[0][0]); mag > 1e-9 {
		t.Errorf("expected corner to be empty after shift, got %v", mag)
	}
}

func TestFFTShiftOddDimensions(t *testing.T) {
	m := constantMatrix(5, 7, 1)
	shifted := FFTShift(FFT2D(m))

	// For odd n the DC lands at n/2 after shifting by (n+1)/2
	if mag := cmplx.Abs(shifted[2][3]); math.Abs(mag-35) > 1e-9 {
		t.Errorf("expected DC magnitude 35 at center, got %v", mag)
	}
}

func TestFFT2DParseval(t *testing.T) {
	m := gradientMatrix(8, 8)
	freq := FFT2D(m)

	var spatial, spectral float64
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			spatial += m.At(y, x) * m.At(y, x)
			mag := cmplx.Abs(freq[y][x])
			spectral += mag * mag
		}
	}
	// Parseval: sum |X|^2 = N * sum |x|^2 for an unnormalized transform
	if math.Abs(spectral-64*spatial) > 1e-6 {
		t.Errorf("energy mismatch: spatial=%v spectral/N=%v", spatial, spectral/64)
	}
}

func TestMagnitudeSpectrumNonNegative(t *testing.T) {
	spectrum := MagnitudeSpectrum(gradientMatrix(16, 16))
	rows, cols := spectrum.Dims()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if v := spectrum.At(y, x); v < 0 || math.IsNaN(v) {
				t.Fatalf("invalid magnitude at (%d,%d): %v", y, x, v)
			}
		}
	}
}
