package depth

import "testing"

func rasterFrom(w, h int, values []float64) *Raster {
	r := NewRaster(w, h)
	copy(r.Values, values)
	return r
}

func TestExpandFillsHoles(t *testing.T) {
	// Single bright interior pixel spreads into its 8 neighbours.
	r := NewRaster(5, 5)
	r.Values[2*5+2] = 0.9

	r.Expand(1)

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			got := r.At(2+dx, 2+dy)
			if got != 0.9 {
				t.Errorf("pixel (%d,%d) = %v, want 0.9", 2+dx, 2+dy, got)
			}
		}
	}
	if got := r.At(0, 0); got != 0 {
		t.Errorf("corner = %v, want 0 after radius 1", got)
	}
}

func TestExpandZeroIsNoOp(t *testing.T) {
	values := []float64{0.1, 0.5, 0.9, 0.2, 0, 0.7, 0.3, 0.8, 0.4}
	r := rasterFrom(3, 3, values)

	r.Expand(0)

	for i, v := range values {
		if r.Values[i] != v {
			t.Fatalf("Values[%d] = %v, want %v", i, r.Values[i], v)
		}
	}
}

func TestExpandIdempotentAtFixedPoint(t *testing.T) {
	r := NewRaster(7, 7)
	r.Values[3*7+3] = 0.6
	r.Expand(10) // Far beyond saturation for a 7x7 grid.

	before := make([]float64, len(r.Values))
	copy(before, r.Values)

	r.Expand(1)

	for i := range before {
		if r.Values[i] != before[i] {
			t.Fatalf("Values[%d] changed after saturation: %v -> %v", i, before[i], r.Values[i])
		}
	}
}

func TestExpandNeverDecreasesDepth(t *testing.T) {
	r := NewRaster(9, 9)
	r.Values[1*9+1] = 0.3
	r.Values[4*9+4] = 0.8
	r.Values[7*9+7] = 0.05 // Below noise floor, must not spread.

	before := make([]float64, len(r.Values))
	copy(before, r.Values)

	r.Expand(2)

	for i := range before {
		if r.Values[i] < before[i] {
			t.Fatalf("Values[%d] decreased: %v -> %v", i, before[i], r.Values[i])
		}
	}
}

func TestExpandRespectsNoiseFloor(t *testing.T) {
	r := NewRaster(5, 5)
	r.Values[2*5+2] = 0.02 // Under 10/255.

	r.Expand(3)

	if got := r.At(1, 2); got != 0 {
		t.Errorf("neighbour = %v, want 0 (noise must not dilate)", got)
	}
	if got := r.At(2, 2); got != 0.02 {
		t.Errorf("source pixel = %v, want 0.02 untouched", got)
	}
}

func TestExpandHasNoDirectionBias(t *testing.T) {
	// Two sources mirrored around the center must produce mirrored
	// results; an in-place scan would drag values along scan order.
	r := NewRaster(9, 9)
	r.Values[4*9+2] = 0.5
	r.Values[4*9+6] = 0.5

	r.Expand(1)

	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			mirrored := r.At(8-x, y)
			if r.At(x, y) != mirrored {
				t.Fatalf("asymmetry at (%d,%d): %v vs %v", x, y, r.At(x, y), mirrored)
			}
		}
	}
}
