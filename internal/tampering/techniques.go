package tampering

import (
	"bytes"
	"image"
	"image/draw"
	"image/jpeg"
	"math"
	"strings"

	"go-tracefinder/internal/imaging"
	"go-tracefinder/pkg/models"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// errorLevelAnalysis re-saves the image as JPEG and measures per-pixel
// error levels. Genuine single-pass images compress uniformly; spliced
// regions stand out.
func errorLevelAnalysis(img image.Image) models.ELAResult {
	recompressed, err := recompress(img, 90)
	if err != nil {
		return models.ELAResult{Error: err.Error(), Analysis: "Error level analysis could not run"}
	}

	diffs := channelDifferences(img, recompressed)
	if len(diffs) == 0 {
		return models.ELAResult{Error: "empty image", Analysis: "Error level analysis could not run"}
	}

	mean := stat.Mean(diffs, nil)
	std := math.Sqrt(stat.MomentAbout(2, diffs, mean, nil))
	maxErr := 0.0
	for _, v := range diffs {
		if v > maxErr {
			maxErr = v
		}
	}

	suspicious := std > 15 || (maxErr > 100 && mean < 10)
	analysis := "Error level distribution appears uniform"
	if suspicious {
		analysis = "Error levels vary strongly, possible splicing or local edits"
	}
	return models.ELAResult{
		Suspicious: suspicious,
		MeanError:  mean,
		StdError:   std,
		MaxError:   maxErr,
		Analysis:   analysis,
	}
}

// noiseConsistency compares the noise floor across 64x64 blocks. Patched
// regions typically carry a different noise level than the rest of the
// scan.
func noiseConsistency(gray *image.Gray) models.NoiseConsistencyResult {
	const blockSize = 64

	pixels := imaging.GrayToDense(gray)
	residual := imaging.Sub(pixels, imaging.GaussianBlur5(pixels))
	rows, cols := residual.Dims()

	var blockStds []float64
	for i := 0; i+blockSize <= rows; i += blockSize {
		for j := 0; j+blockSize <= cols; j += blockSize {
			block := make([]float64, 0, blockSize*blockSize)
			for y := i; y < i+blockSize; y++ {
				for x := j; x < j+blockSize; x++ {
					block = append(block, residual.At(y, x))
				}
			}
			mean := stat.Mean(block, nil)
			blockStds = append(blockStds, math.Sqrt(stat.MomentAbout(2, block, mean, nil)))
		}
	}

	if len(blockStds) < 4 {
		return models.NoiseConsistencyResult{
			Analysis: "Image too small for block-wise noise analysis",
		}
	}

	mean := stat.Mean(blockStds, nil)
	std := math.Sqrt(stat.MomentAbout(2, blockStds, mean, nil))
	cv := std / (mean + 1e-10)

	suspicious := cv > 0.4
	analysis := "Noise distribution is consistent across the image"
	if suspicious {
		analysis = "Noise levels differ between regions, possible local manipulation"
	}
	return models.NoiseConsistencyResult{
		Suspicious:           suspicious,
		VariationCoefficient: cv,
		MeanNoiseLevel:       mean,
		Analysis:             analysis,
	}
}

// jpegGhost re-saves the image at descending qualities. An image that was
// already JPEG compressed shows a dip at its original quality, visible as
// a plateau in the score curve.
func jpegGhost(img image.Image) models.JPEGGhostResult {
	qualities := []int{95, 90, 85, 80, 75}
	original := toGray(img)
	origPixels := imaging.GrayToDense(original)

	scores := make([]float64, 0, len(qualities))
	for _, q := range qualities {
		recompressed, err := recompress(img, q)
		if err != nil {
			return models.JPEGGhostResult{Error: err.Error(), Analysis: "Compression history analysis could not run"}
		}
		ghostPixels := imaging.GrayToDense(toGray(recompressed))
		scores = append(scores, meanAbsDiff(origPixels, ghostPixels))
	}

	suspicious := ghostPlateau(scores)
	analysis := "Compression response is smooth across qualities"
	if suspicious {
		analysis = "Compression response shows a plateau, image was likely re-saved"
	}
	return models.JPEGGhostResult{
		Suspicious:  suspicious,
		GhostScores: scores,
		Analysis:    analysis,
	}
}

// ghostPlateau reports whether the quality score curve has both a flat or
// falling step and a large rise. Steps are signed successive differences;
// a previously compressed image dips near its original quality while
// climbing sharply elsewhere.
func ghostPlateau(scores []float64) bool {
	minStep, maxStep := math.Inf(1), math.Inf(-1)
	for i := 1; i < len(scores); i++ {
		step := scores[i] - scores[i-1]
		if step < minStep {
			minStep = step
		}
		if step > maxStep {
			maxStep = step
		}
	}
	return minStep < 0.5 && maxStep > 2.0
}

// editingSoftware are markers whose presence in EXIF software tags flags
// post-processing.
var editingSoftware = []string{"photoshop", "gimp", "paint.net", "pixlr", "affinity"}

// metadataCheck inspects EXIF tags for traces of editing software. A bare
// modification timestamp is recorded but not considered suspicious on its
// own.
func metadataCheck(metadata *models.Metadata) models.MetadataCheckResult {
	if metadata == nil || metadata.Error != "" {
		analysis := "No metadata available for inspection"
		return models.MetadataCheckResult{Analysis: analysis}
	}

	var indicators []string
	suspicious := false
	for _, tag := range []string{"Software", "ProcessingSoftware"} {
		value, ok := metadata.ExifData[tag]
		if !ok {
			continue
		}
		lower := strings.ToLower(value)
		for _, name := range editingSoftware {
			if strings.Contains(lower, name) {
				indicators = append(indicators, "Image edited with "+value)
				suspicious = true
				break
			}
		}
	}
	if _, ok := metadata.ExifData["DateTime"]; ok {
		indicators = append(indicators, "Modification timestamp present")
	}

	analysis := "Metadata shows no editing traces"
	if suspicious {
		analysis = "Metadata references known image editing software"
	}
	return models.MetadataCheckResult{
		Suspicious: suspicious,
		Indicators: indicators,
		Analysis:   analysis,
	}
}

// recompress encodes and re-decodes the image as JPEG at the given
// quality.
func recompress(img image.Image, quality int) (image.Image, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return jpeg.Decode(&buf)
}

// channelDifferences flattens the per-channel 8-bit absolute differences
// of two images over their common bounds.
func channelDifferences(a, b image.Image) []float64 {
	bounds := a.Bounds().Intersect(b.Bounds())
	diffs := make([]float64, 0, bounds.Dx()*bounds.Dy()*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ra, ga, ba, _ := a.At(x, y).RGBA()
			rb, gb, bb, _ := b.At(x, y).RGBA()
			diffs = append(diffs,
				absDiff8(ra, rb),
				absDiff8(ga, gb),
				absDiff8(ba, bb),
			)
		}
	}
	return diffs
}

func absDiff8(a, b uint32) float64 {
	return math.Abs(float64(a>>8) - float64(b>>8))
}

func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

func meanAbsDiff(a, b *mat.Dense) float64 {
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	rows, cols := min(ra, rb), min(ca, cb)
	if rows == 0 || cols == 0 {
		return 0
	}
	var sum float64
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			sum += math.Abs(a.At(y, x) - b.At(y, x))
		}
	}
	return sum / float64(rows*cols)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
