package core

import (
	"math"
	"testing"
)

func TestBoxOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Box
		expected bool
	}{
		{
			name:     "overlapping boxes",
			a:        BoxAt(0, 0, 10, 10),
			b:        BoxAt(5, 5, 10, 10),
			expected: true,
		},
		{
			name:     "non-overlapping horizontal",
			a:        BoxAt(0, 0, 10, 10),
			b:        BoxAt(15, 0, 10, 10),
			expected: false,
		},
		{
			name:     "non-overlapping vertical",
			a:        BoxAt(0, 0, 10, 10),
			b:        BoxAt(0, 15, 10, 10),
			expected: false,
		},
		{
			name:     "adjacent horizontal (no overlap)",
			a:        BoxAt(0, 0, 10, 10),
			b:        BoxAt(10, 0, 10, 10),
			expected: false,
		},
		{
			name:     "contained box",
			a:        BoxAt(0, 0, 20, 20),
			b:        BoxAt(5, 5, 5, 5),
			expected: true,
		},
		{
			name:     "fractional overlap",
			a:        BoxAt(0, 0, 1.5, 1.5),
			b:        BoxAt(1.25, 1.25, 1, 1),
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.expected {
				t.Errorf("Overlaps() = %v, expected %v", got, tc.expected)
			}
			// Also test symmetry
			if got := tc.b.Overlaps(tc.a); got != tc.expected {
				t.Errorf("Overlaps() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestBoxContains(t *testing.T) {
	b := BoxAt(10, 10, 20, 15)

	tests := []struct {
		name     string
		p        Vec
		expected bool
	}{
		{"inside", V(15, 15), true},
		{"top-left corner", V(10, 10), true},
		{"bottom-right edge (exclusive)", V(30, 25), false},
		{"outside left", V(5, 15), false},
		{"outside bottom", V(15, 30), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.Contains(tc.p); got != tc.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tc.p, got, tc.expected)
			}
		})
	}
}

func TestBoxHelpers(t *testing.T) {
	b := BoxAround(V(10, 20), 4, 6)

	if b.W() != 4 || b.H() != 6 {
		t.Errorf("size = %vx%v, expected 4x6", b.W(), b.H())
	}
	if c := b.Center(); c != V(10, 20) {
		t.Errorf("Center() = %v, expected (10, 20)", c)
	}

	moved := b.Translate(V(1, -2))
	if moved.Min != V(9, 15) || moved.Max != V(13, 21) {
		t.Errorf("Translate() = %+v", moved)
	}
}

func TestVecMath(t *testing.T) {
	v := V(3, 4)

	if v.Len() != 5 {
		t.Errorf("Len() = %v, expected 5", v.Len())
	}
	if got := v.Scale(2); got != V(6, 8) {
		t.Errorf("Scale(2) = %v", got)
	}
	if got := v.Add(V(1, 1)).Sub(V(4, 5)); got != V(0, 0) {
		t.Errorf("Add/Sub = %v, expected zero", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		if got := ClampF(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestSign(t *testing.T) {
	if Sign(2.5) != 1 || Sign(-0.1) != -1 || Sign(0) != 0 {
		t.Error("Sign should return -1, 0 or 1")
	}
	if Sign(math.Inf(-1)) != -1 {
		t.Error("Sign(-Inf) should be -1")
	}
}
