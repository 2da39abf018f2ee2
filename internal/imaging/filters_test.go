package imaging

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func constantMatrix(rows, cols int, v float64) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			m.Set(y, x, v)
		}
	}
	return m
}

func gradientMatrix(rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			m.Set(y, x, float64(x+y)/float64(rows+cols))
		}
	}
	return m
}

func TestReflectIndex(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{-1, 5, 1},
		{-2, 5, 2},
		{5, 5, 3},
		{6, 5, 2},
		{0, 1, 0},
		{-3, 1, 0},
	}
	for _, tt := range tests {
		if got := reflectIndex(tt.i, tt.n); got != tt.want {
			t.Errorf("reflectIndex(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestGaussianKernelNormalized(t *testing.T) {
	for _, radius := range []int{1, 2, 5} {
		kernel := gaussianKernel1D(radius, 1.1)
		if len(kernel) != 2*radius+1 {
			t.Errorf("radius %d: expected %d taps, got %d", radius, 2*radius+1, len(kernel))
		}
		var sum float64
		for _, v := range kernel {
			sum += v
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("radius %d: kernel sums to %v, want 1", radius, sum)
		}
		// Symmetry around the center tap
		for i := 0; i < radius; i++ {
			if math.Abs(kernel[i]-kernel[len(kernel)-1-i]) > 1e-15 {
				t.Errorf("radius %d: kernel not symmetric at tap %d", radius, i)
			}
		}
	}
}

func TestGaussianBlurPreservesConstant(t *testing.T) {
	m := constantMatrix(16, 16, 0.5)
	blurred := GaussianBlur5(m)
	rows, cols := blurred.Dims()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if math.Abs(blurred.At(y, x)-0.5) > 1e-12 {
				t.Fatalf("blur changed constant image at (%d,%d): %v", y, x, blurred.At(y, x))
			}
		}
	}
}

func TestNLMDenoiseConstantImage(t *testing.T) {
	m := constantMatrix(12, 12, 0.25)
	denoised := NLMDenoise(m, 10.0/255.0)
	residual := Sub(m, denoised)
	rows, cols := residual.Dims()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if math.Abs(residual.At(y, x)) > 1e-12 {
				t.Fatalf("constant image produced nonzero residual at (%d,%d)", y, x)
			}
		}
	}
}

func TestNLMDenoiseBounded(t *testing.T) {
	m := gradientMatrix(16, 16)
	denoised := NLMDenoise(m, 10.0/255.0)
	rows, cols := denoised.Dims()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := denoised.At(y, x)
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Fatalf("denoised value out of range at (%d,%d): %v", y, x, v)
			}
		}
	}
}

func TestSobelOnConstantImage(t *testing.T) {
	m := constantMatrix(10, 10, 0.7)
	for name, grad := range map[string]*mat.Dense{
		"sobel_x":   SobelX(m),
		"sobel_y":   SobelY(m),
		"laplacian": Laplacian(m),
	} {
		rows, cols := grad.Dims()
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				if math.Abs(grad.At(y, x)) > 1e-12 {
					t.Fatalf("%s nonzero on constant image at (%d,%d)", name, y, x)
				}
			}
		}
	}
}

func TestSobelXDetectsVerticalEdge(t *testing.T) {
	m := mat.NewDense(8, 8, nil)
	for y := 0; y < 8; y++ {
		for x := 4; x < 8; x++ {
			m.Set(y, x, 1)
		}
	}
	gx := SobelX(m)
	if math.Abs(gx.At(4, 3)) < 1 {
		t.Errorf("expected strong horizontal gradient at the edge, got %v", gx.At(4, 3))
	}
	if math.Abs(gx.At(4, 1)) > 1e-12 {
		t.Errorf("expected zero gradient far from the edge, got %v", gx.At(4, 1))
	}
}
