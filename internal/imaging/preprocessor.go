package imaging

import (
	"bytes"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	apperrors "go-tracefinder/internal/errors"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	"gonum.org/v1/gonum/mat"
)

// CanonicalImage is the preprocessed representation consumed by every
// downstream analysis component. It is built once per request and never
// mutated afterwards.
type CanonicalImage struct {
	Original   image.Image
	Grayscale  *image.Gray
	Resized    *image.Gray // TargetSize x TargetSize
	Normalized *mat.Dense  // Resized scaled to [0,1]
	Width      int
	Height     int
}

// Preprocessor loads raw bytes or files into a CanonicalImage.
type Preprocessor struct {
	targetSize int
}

// NewPreprocessor creates a preprocessor producing targetSize x targetSize
// canonical images.
func NewPreprocessor(targetSize int) *Preprocessor {
	if targetSize <= 0 {
		targetSize = 512
	}
	return &Preprocessor{targetSize: targetSize}
}

// Load reads and preprocesses an image file.
func (p *Preprocessor) Load(path string) (*CanonicalImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewImageLoadError("failed to read image file", err)
	}
	return p.Decode(data)
}

// Decode preprocesses raw image bytes.
func (p *Preprocessor) Decode(data []byte) (*CanonicalImage, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewImageLoadError("failed to decode image", err)
	}
	return p.FromImage(img), nil
}

// FromImage builds the canonical representation from a decoded image.
func (p *Preprocessor) FromImage(img image.Image) *CanonicalImage {
	bounds := img.Bounds()

	// Grayscale at original resolution
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)

	// Resize to the fixed analysis size
	resized := image.NewGray(image.Rect(0, 0, p.targetSize, p.targetSize))
	xdraw.CatmullRom.Scale(resized, resized.Bounds(), gray, bounds, xdraw.Over, nil)

	// Normalize to [0,1] float
	normalized := mat.NewDense(p.targetSize, p.targetSize, nil)
	for y := 0; y < p.targetSize; y++ {
		for x := 0; x < p.targetSize; x++ {
			normalized.Set(y, x, float64(resized.GrayAt(x, y).Y)/255.0)
		}
	}

	return &CanonicalImage{
		Original:   img,
		Grayscale:  gray,
		Resized:    resized,
		Normalized: normalized,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
	}
}

// GrayToDense converts a grayscale image to a float64 matrix with raw pixel
// values in [0,255].
func GrayToDense(gray *image.Gray) *mat.Dense {
	bounds := gray.Bounds()
	h, w := bounds.Dy(), bounds.Dx()
	m := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(y, x, float64(gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y))
		}
	}
	return m
}

// Histogram256 computes the 256-bin intensity histogram of a grayscale image.
func Histogram256(gray *image.Gray) [256]int {
	var hist [256]int
	bounds := gray.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[gray.GrayAt(x, y).Y]++
		}
	}
	return hist
}
