package imaging

import (
	"math"
	"testing"
)

func TestDWT2OutputDimensions(t *testing.T) {
	m := gradientMatrix(64, 64)
	cA, cH, cV, cD := DWT2(m)

	// floor((64 + 8 - 1) / 2) = 35 coefficients per axis for db4
	for name, sub := range map[string]interface {
		Dims() (int, int)
	}{"cA": cA, "cH": cH, "cV": cV, "cD": cD} {
		rows, cols := sub.Dims()
		if rows != 35 || cols != 35 {
			t.Errorf("%s: expected 35x35, got %dx%d", name, rows, cols)
		}
	}
}

func TestDWT2ConstantImage(t *testing.T) {
	// A constant signal has no detail energy; the low-pass filter carries
	// all of it with gain sqrt(2) per axis.
	m := constantMatrix(32, 32, 1)
	cA, cH, cV, cD := DWT2(m)

	for name, sub := range map[string]interface {
		Dims() (int, int)
		At(int, int) float64
	}{"cH": cH, "cV": cV, "cD": cD} {
		rows, cols := sub.Dims()
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				if math.Abs(sub.At(y, x)) > 1e-9 {
					t.Fatalf("%s: nonzero detail %v at (%d,%d)", name, sub.At(y, x), y, x)
				}
			}
		}
	}

	rows, cols := cA.Dims()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if math.Abs(cA.At(y, x)-2) > 1e-9 {
				t.Fatalf("cA: expected 2.0, got %v at (%d,%d)", cA.At(y, x), y, x)
			}
		}
	}
}

func TestWaveDec2LevelOrdering(t *testing.T) {
	m := gradientMatrix(64, 64)
	dec := WaveDec2(m, 3)

	if len(dec.Levels) != 3 {
		t.Fatalf("expected 3 levels, got %d", len(dec.Levels))
	}

	// Levels run coarsest first, so sub-band sizes must increase
	prevRows := 0
	for i, level := range dec.Levels {
		rows, _ := level.Horizontal.Dims()
		if rows <= prevRows {
			t.Errorf("level %d has %d rows, expected more than %d", i, rows, prevRows)
		}
		prevRows = rows
	}

	aRows, _ := dec.Approximation.Dims()
	cRows, _ := dec.Levels[0].Horizontal.Dims()
	if aRows != cRows {
		t.Errorf("approximation (%d rows) should match coarsest detail (%d rows)", aRows, cRows)
	}
}

func TestDWT1DHaarLikeCheck(t *testing.T) {
	// Energy is preserved across the analysis filter bank for db4
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	lo := dwt1D(x, db4DecLo)
	hi := dwt1D(x, db4DecHi)
	if len(lo) != len(hi) {
		t.Fatalf("sub-band length mismatch: %d vs %d", len(lo), len(hi))
	}
	for i, v := range lo {
		if math.IsNaN(v) || math.IsNaN(hi[i]) {
			t.Fatalf("NaN coefficient at %d", i)
		}
	}
}
