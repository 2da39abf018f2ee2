package features

import (
	"errors"
	"image"
	"math"

	"go-tracefinder/internal/imaging"

	"gonum.org/v1/gonum/stat"
)

const glcmLevels = 256

// glcmProps are the five co-occurrence properties of one distance/angle
// pair.
type glcmProps struct {
	contrast      float64
	dissimilarity float64
	homogeneity   float64
	energy        float64
	correlation   float64
}

// extractTexture computes GLCM statistics over every configured
// distance/angle pair and averages them, mirroring the usual symmetric
// normalized co-occurrence analysis.
func (e *Extractor) extractTexture(img *imaging.CanonicalImage) (TextureFeatures, error) {
	if img == nil || img.Resized == nil {
		return TextureFeatures{}, errors.New("no resized image")
	}

	pixels, w, h := stretchTo8Bit(img.Resized)
	if w == 0 || h == 0 {
		return TextureFeatures{}, errors.New("empty image")
	}

	var contrasts, dissimilarities, homogeneities, energies, correlations []float64
	for _, distance := range e.glcmDistances {
		for _, angleDeg := range e.glcmAngles {
			p := computeGLCM(pixels, w, h, distance, angleDeg)
			props := glcmProperties(p)
			contrasts = append(contrasts, props.contrast)
			dissimilarities = append(dissimilarities, props.dissimilarity)
			homogeneities = append(homogeneities, props.homogeneity)
			energies = append(energies, props.energy)
			correlations = append(correlations, props.correlation)
		}
	}

	return TextureFeatures{
		Contrast:      stat.Mean(contrasts, nil),
		Dissimilarity: stat.Mean(dissimilarities, nil),
		Homogeneity:   stat.Mean(homogeneities, nil),
		Energy:        stat.Mean(energies, nil),
		Correlation:   stat.Mean(correlations, nil),
		ContrastStd:   popStd(contrasts),
	}, nil
}

// stretchTo8Bit min-max rescales the grayscale image over the full 8-bit
// range. A constant image maps to all zeros.
func stretchTo8Bit(gray *image.Gray) ([]uint8, int, int) {
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := make([]uint8, w*h)

	minV, maxV := uint8(255), uint8(0)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := gray.GrayAt(x, y).Y
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
	}

	span := float64(maxV) - float64(minV)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if span == 0 {
				out[i] = 0
			} else {
				out[i] = uint8(math.Round(float64(gray.GrayAt(x, y).Y-minV) / span * 255))
			}
			i++
		}
	}
	return out, w, h
}

// computeGLCM builds a symmetric, normalized co-occurrence matrix for one
// distance and angle. Angle conventions: 0 pairs east, 45 northeast,
// 90 north, 135 northwest.
func computeGLCM(pixels []uint8, w, h, distance int, angleDeg float64) []float64 {
	var dy, dx int
	switch angleDeg {
	case 0:
		dy, dx = 0, distance
	case 45:
		dy, dx = -distance, distance
	case 90:
		dy, dx = -distance, 0
	case 135:
		dy, dx = -distance, -distance
	default:
		rad := angleDeg * math.Pi / 180
		dy, dx = -int(math.Round(math.Sin(rad)*float64(distance))), int(math.Round(math.Cos(rad)*float64(distance)))
	}

	p := make([]float64, glcmLevels*glcmLevels)
	var total float64
	for y := 0; y < h; y++ {
		ny := y + dy
		if ny < 0 || ny >= h {
			continue
		}
		for x := 0; x < w; x++ {
			nx := x + dx
			if nx < 0 || nx >= w {
				continue
			}
			a := pixels[y*w+x]
			b := pixels[ny*w+nx]
			// Symmetric: count both orderings
			p[int(a)*glcmLevels+int(b)]++
			p[int(b)*glcmLevels+int(a)]++
			total += 2
		}
	}
	if total > 0 {
		for i := range p {
			p[i] /= total
		}
	}
	return p
}

// glcmProperties derives the texture descriptors of a normalized GLCM.
func glcmProperties(p []float64) glcmProps {
	var props glcmProps
	var meanI, meanJ float64

	for i := 0; i < glcmLevels; i++ {
		for j := 0; j < glcmLevels; j++ {
			v := p[i*glcmLevels+j]
			if v == 0 {
				continue
			}
			d := float64(i - j)
			props.contrast += v * d * d
			props.dissimilarity += v * math.Abs(d)
			props.homogeneity += v / (1 + d*d)
			props.energy += v * v
			meanI += v * float64(i)
			meanJ += v * float64(j)
		}
	}
	props.energy = math.Sqrt(props.energy)

	var varI, varJ, cov float64
	for i := 0; i < glcmLevels; i++ {
		for j := 0; j < glcmLevels; j++ {
			v := p[i*glcmLevels+j]
			if v == 0 {
				continue
			}
			di := float64(i) - meanI
			dj := float64(j) - meanJ
			varI += v * di * di
			varJ += v * dj * dj
			cov += v * di * dj
		}
	}

	denom := math.Sqrt(varI * varJ)
	if denom < 1e-15 {
		// Convention for degenerate (constant) images
		props.correlation = 1
	} else {
		props.correlation = cov / denom
	}
	return props
}
