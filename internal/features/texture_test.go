package features

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestTextureOnSolidImage(t *testing.T) {
	bundle := NewExtractor().ExtractAll(solidImage(64, 77))

	// One gray level means all co-occurrence mass sits in a single cell
	tex := bundle.Texture
	if tex.Contrast != 0 || tex.Dissimilarity != 0 {
		t.Errorf("expected zero contrast on solid image, got contrast=%v dissimilarity=%v",
			tex.Contrast, tex.Dissimilarity)
	}
	if math.Abs(tex.Energy-1) > 1e-12 {
		t.Errorf("expected energy 1 on solid image, got %v", tex.Energy)
	}
	if math.Abs(tex.Homogeneity-1) > 1e-12 {
		t.Errorf("expected homogeneity 1 on solid image, got %v", tex.Homogeneity)
	}
	if math.Abs(tex.Correlation-1) > 1e-12 {
		t.Errorf("expected degenerate correlation 1, got %v", tex.Correlation)
	}
}

func TestStretchTo8Bit(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(0, 0, color.Gray{Y: 100})
	gray.SetGray(1, 0, color.Gray{Y: 150})
	gray.SetGray(0, 1, color.Gray{Y: 200})
	gray.SetGray(1, 1, color.Gray{Y: 100})

	pixels, w, h := stretchTo8Bit(gray)
	if w != 2 || h != 2 {
		t.Fatalf("expected 2x2, got %dx%d", w, h)
	}
	if pixels[0] != 0 {
		t.Errorf("minimum should map to 0, got %d", pixels[0])
	}
	if pixels[2] != 255 {
		t.Errorf("maximum should map to 255, got %d", pixels[2])
	}
	if pixels[1] != 128 {
		t.Errorf("midpoint should map to 128, got %d", pixels[1])
	}
}

func TestStretchTo8BitConstant(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			gray.SetGray(x, y, color.Gray{Y: 42})
		}
	}
	pixels, _, _ := stretchTo8Bit(gray)
	for i, v := range pixels {
		if v != 0 {
			t.Fatalf("constant image should map to zeros, got %d at %d", v, i)
		}
	}
}

func TestComputeGLCMIsNormalizedAndSymmetric(t *testing.T) {
	pixels := []uint8{
		0, 1, 0, 1,
		1, 0, 1, 0,
		0, 1, 0, 1,
		1, 0, 1, 0,
	}
	p := computeGLCM(pixels, 4, 4, 1, 0)

	var sum float64
	for _, v := range p {
		sum += v
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("GLCM should be normalized, sums to %v", sum)
	}
	for i := 0; i < glcmLevels; i++ {
		for j := i + 1; j < glcmLevels; j++ {
			if p[i*glcmLevels+j] != p[j*glcmLevels+i] {
				t.Fatalf("GLCM not symmetric at (%d,%d)", i, j)
			}
		}
	}

	// A perfect checkerboard pairs 0 with 1 horizontally, never 0 with 0
	if p[0] != 0 || p[1*glcmLevels+1] != 0 {
		t.Error("checkerboard should have no same-level horizontal pairs")
	}
	if p[1] == 0 {
		t.Error("checkerboard should pair 0 with 1 horizontally")
	}
}
