package features

import (
	"go-tracefinder/internal/imaging"
	"go-tracefinder/internal/logger"
)

// Extractor computes the six-category forensic feature bundle from a
// canonical image.
type Extractor struct {
	glcmDistances []int
	glcmAngles    []float64
	waveletLevel  int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithGLCMGrid overrides the co-occurrence distances and angles (degrees).
func WithGLCMGrid(distances []int, angles []float64) Option {
	return func(e *Extractor) {
		e.glcmDistances = distances
		e.glcmAngles = angles
	}
}

// WithWaveletLevel overrides the DWT decomposition depth.
func WithWaveletLevel(level int) Option {
	return func(e *Extractor) {
		e.waveletLevel = level
	}
}

// NewExtractor creates a feature extractor with the standard analysis grid.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		glcmDistances: []int{1, 3, 5},
		glcmAngles:    []float64{0, 45, 90, 135},
		waveletLevel:  3,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractAll computes the full feature bundle. It never fails: a
// sub-category that cannot be computed is left at its zero value and the
// failure is logged, so every consumer always sees all six categories.
func (e *Extractor) ExtractAll(img *imaging.CanonicalImage) *Bundle {
	bundle := &Bundle{}

	if prnu, err := e.extractPRNU(img); err != nil {
		logger.WithError(err).Warn("PRNU extraction failed, using defaults")
	} else {
		bundle.PRNU = prnu
	}

	if texture, err := e.extractTexture(img); err != nil {
		logger.WithError(err).Warn("texture extraction failed, using defaults")
	} else {
		bundle.Texture = texture
	}

	if frequency, err := e.extractFrequency(img); err != nil {
		logger.WithError(err).Warn("frequency extraction failed, using defaults")
	} else {
		bundle.Frequency = frequency
	}

	if wavelet, err := e.extractWavelet(img); err != nil {
		logger.WithError(err).Warn("wavelet extraction failed, using defaults")
	} else {
		bundle.Wavelet = wavelet
	}

	if statistical, err := e.extractStatistical(img); err != nil {
		logger.WithError(err).Warn("statistical extraction failed, using defaults")
	} else {
		bundle.Statistical = statistical
	}

	if noise, err := e.extractNoise(img); err != nil {
		logger.WithError(err).Warn("noise extraction failed, using defaults")
	} else {
		bundle.Noise = noise
	}

	return bundle
}
