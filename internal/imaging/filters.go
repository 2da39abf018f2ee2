package imaging

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// reflectIndex maps an out-of-range index back into [0,n) by mirroring
// around the border without repeating the edge sample.
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}

func gaussianKernel1D(radius int, sigma float64) []float64 {
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func convolveSeparable(m *mat.Dense, kernel []float64) *mat.Dense {
	rows, cols := m.Dims()
	radius := len(kernel) / 2

	// Horizontal pass
	tmp := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			var acc float64
			for k := -radius; k <= radius; k++ {
				acc += kernel[k+radius] * m.At(y, reflectIndex(x+k, cols))
			}
			tmp.Set(y, x, acc)
		}
	}

	// Vertical pass
	out := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			var acc float64
			for k := -radius; k <= radius; k++ {
				acc += kernel[k+radius] * tmp.At(reflectIndex(y+k, rows), x)
			}
			out.Set(y, x, acc)
		}
	}
	return out
}

// GaussianBlur5 applies a 5x5 Gaussian blur with the sigma the OpenCV
// convention derives from the kernel size (0.3*((k-1)*0.5-1)+0.8 = 1.1).
func GaussianBlur5(m *mat.Dense) *mat.Dense {
	return convolveSeparable(m, gaussianKernel1D(2, 1.1))
}

// GaussianBlurSigma applies a Gaussian blur whose kernel radius follows from
// the given sigma (4 sigma per side).
func GaussianBlurSigma(m *mat.Dense, sigma float64) *mat.Dense {
	radius := int(math.Ceil(4 * sigma))
	if radius < 1 {
		radius = 1
	}
	return convolveSeparable(m, gaussianKernel1D(radius, sigma))
}

// NLMDenoise is a simplified non-local-means denoiser: every pixel is
// replaced by a patch-similarity weighted average over a local search
// window. h controls the decay of patch weights; for [0,1] images the
// conventional strength is 10/255.
func NLMDenoise(m *mat.Dense, h float64) *mat.Dense {
	const (
		patchRadius  = 1 // 3x3 patches
		searchRadius = 3 // 7x7 search window
	)
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	h2 := h * h
	patchArea := float64((2*patchRadius + 1) * (2*patchRadius + 1))

	patchDistance := func(y1, x1, y2, x2 int) float64 {
		var d float64
		for py := -patchRadius; py <= patchRadius; py++ {
			for px := -patchRadius; px <= patchRadius; px++ {
				a := m.At(reflectIndex(y1+py, rows), reflectIndex(x1+px, cols))
				b := m.At(reflectIndex(y2+py, rows), reflectIndex(x2+px, cols))
				d += (a - b) * (a - b)
			}
		}
		return d / patchArea
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			var weightSum, valueSum float64
			for sy := -searchRadius; sy <= searchRadius; sy++ {
				for sx := -searchRadius; sx <= searchRadius; sx++ {
					ny := reflectIndex(y+sy, rows)
					nx := reflectIndex(x+sx, cols)
					w := math.Exp(-patchDistance(y, x, ny, nx) / h2)
					weightSum += w
					valueSum += w * m.At(ny, nx)
				}
			}
			out.Set(y, x, valueSum/weightSum)
		}
	}
	return out
}

// Sub returns a-b element-wise.
func Sub(a, b *mat.Dense) *mat.Dense {
	rows, cols := a.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Sub(a, b)
	return out
}

// SobelX applies the horizontal 3x3 Sobel operator.
func SobelX(m *mat.Dense) *mat.Dense {
	return convolve3x3(m, [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	})
}

// SobelY applies the vertical 3x3 Sobel operator.
func SobelY(m *mat.Dense) *mat.Dense {
	return convolve3x3(m, [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	})
}

// Laplacian applies the 3x3 Laplacian kernel.
func Laplacian(m *mat.Dense) *mat.Dense {
	return convolve3x3(m, [3][3]float64{
		{0, 1, 0},
		{1, -4, 1},
		{0, 1, 0},
	})
}

func convolve3x3(m *mat.Dense, kernel [3][3]float64) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			var acc float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					acc += kernel[ky+1][kx+1] * m.At(reflectIndex(y+ky, rows), reflectIndex(x+kx, cols))
				}
			}
			out.Set(y, x, acc)
		}
	}
	return out
}
