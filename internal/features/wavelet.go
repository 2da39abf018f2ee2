package features

import (
	"errors"

	"go-tracefinder/internal/imaging"

	"gonum.org/v1/gonum/stat"
)

// extractWavelet runs a multilevel db4 decomposition and summarizes the
// approximation and detail sub-bands. Level 1 is the coarsest scale.
func (e *Extractor) extractWavelet(img *imaging.CanonicalImage) (WaveletFeatures, error) {
	if img == nil || img.Normalized == nil {
		return WaveletFeatures{}, errors.New("no normalized image")
	}

	dec := imaging.WaveDec2(img.Normalized, e.waveletLevel)

	approxData := denseData(dec.Approximation)
	out := WaveletFeatures{
		ApproxEnergy: meanAbs(approxData),
		ApproxStd:    popStd(approxData),
	}

	for i, level := range dec.Levels {
		energy := meanAbs(denseData(level.Horizontal)) +
			meanAbs(denseData(level.Vertical)) +
			meanAbs(denseData(level.Diagonal))
		if i < len(out.DetailEnergies) {
			out.DetailEnergies[i] = energy
		}
		out.TotalDetailEnergy += energy
	}

	// Coarsest-level sub-band statistics for the trained classifier vector
	if len(dec.Levels) > 0 {
		coarsest := dec.Levels[0]
		out.Subbands[0] = subbandStats(approxData)
		out.Subbands[1] = subbandStats(denseData(coarsest.Horizontal))
		out.Subbands[2] = subbandStats(denseData(coarsest.Vertical))
		out.Subbands[3] = subbandStats(denseData(coarsest.Diagonal))
	}

	return out, nil
}

func subbandStats(data []float64) SubbandStats {
	return SubbandStats{
		Mean:   stat.Mean(data, nil),
		Std:    popStd(data),
		Energy: meanAbs(data),
	}
}
