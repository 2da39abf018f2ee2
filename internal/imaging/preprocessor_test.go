package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func testImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8((x*7 + y*13) % 256)
			img.Set(x, y, color.RGBA{R: v, G: v / 2, B: 255 - v, A: 255})
		}
	}
	return img
}

func TestPreprocessorFromImage(t *testing.T) {
	p := NewPreprocessor(128)
	canonical := p.FromImage(testImage(300, 200))

	if canonical.Width != 300 || canonical.Height != 200 {
		t.Errorf("expected original dims 300x200, got %dx%d", canonical.Width, canonical.Height)
	}

	bounds := canonical.Resized.Bounds()
	if bounds.Dx() != 128 || bounds.Dy() != 128 {
		t.Errorf("expected 128x128 resized image, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	rows, cols := canonical.Normalized.Dims()
	if rows != 128 || cols != 128 {
		t.Fatalf("expected 128x128 normalized matrix, got %dx%d", rows, cols)
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := canonical.Normalized.At(y, x)
			if v < 0 || v > 1 {
				t.Fatalf("normalized value out of [0,1] at (%d,%d): %v", y, x, v)
			}
		}
	}
}

func TestPreprocessorDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(64, 64)); err != nil {
		t.Fatalf("encode test image: %v", err)
	}

	p := NewPreprocessor(32)
	canonical, err := p.Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if canonical.Width != 64 || canonical.Height != 64 {
		t.Errorf("expected 64x64 source, got %dx%d", canonical.Width, canonical.Height)
	}
}

func TestPreprocessorDecodeGarbage(t *testing.T) {
	p := NewPreprocessor(32)
	if _, err := p.Decode([]byte("not an image")); err == nil {
		t.Fatal("expected decode error for garbage input")
	}
}

func TestGrayToDenseRoundTrip(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			gray.SetGray(x, y, color.Gray{Y: uint8(y*4 + x)})
		}
	}

	m := GrayToDense(gray)
	rows, cols := m.Dims()
	if rows != 3 || cols != 4 {
		t.Fatalf("expected 3x4 matrix, got %dx%d", rows, cols)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if m.At(y, x) != float64(y*4+x) {
				t.Errorf("value mismatch at (%d,%d): %v", y, x, m.At(y, x))
			}
		}
	}
}

func TestHistogram256(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := 0; i < 16; i++ {
		gray.SetGray(i%4, i/4, color.Gray{Y: uint8(i % 2 * 255)})
	}

	hist := Histogram256(gray)
	if hist[0] != 8 || hist[255] != 8 {
		t.Errorf("expected 8 black and 8 white pixels, got %d and %d", hist[0], hist[255])
	}
}
