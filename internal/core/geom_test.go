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
			a:        Box{Left: 0, Right: 10, Top: 0, Bottom: 10},
			b:        Box{Left: 5, Right: 15, Top: 5, Bottom: 15},
			expected: true,
		},
		{
			name:     "disjoint horizontal",
			a:        Box{Left: 0, Right: 10, Top: 0, Bottom: 10},
			b:        Box{Left: 15, Right: 25, Top: 0, Bottom: 10},
			expected: false,
		},
		{
			name:     "touching edges do not overlap",
			a:        Box{Left: 0, Right: 10, Top: 0, Bottom: 10},
			b:        Box{Left: 10, Right: 20, Top: 0, Bottom: 10},
			expected: false,
		},
		{
			name:     "contained box",
			a:        Box{Left: 0, Right: 20, Top: 0, Bottom: 20},
			b:        Box{Left: 5, Right: 6, Top: 5, Bottom: 6},
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.expected {
				t.Errorf("Overlaps() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.expected {
				t.Errorf("Overlaps() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestBoxAt(t *testing.T) {
	b := BoxAt(10, 5, 4, 2)

	if b.Left != 8 || b.Right != 12 || b.Top != 4 || b.Bottom != 6 {
		t.Errorf("BoxAt(10, 5, 4, 2) = %+v", b)
	}
	if b.Width() != 4 || b.Height() != 2 {
		t.Errorf("Width/Height = %v/%v, expected 4/2", b.Width(), b.Height())
	}

	cx, cy := b.Center()
	if cx != 10 || cy != 5 {
		t.Errorf("Center() = (%v, %v), expected (10, 5)", cx, cy)
	}
}

func TestBoxCellSpan(t *testing.T) {
	tests := []struct {
		name           string
		box            Box
		x0, y0, x1, y1 int
	}{
		{"aligned", Box{Left: 2, Right: 5, Top: 1, Bottom: 2}, 2, 1, 5, 2},
		{"fractional", Box{Left: 2.5, Right: 3.5, Top: 1.2, Bottom: 1.8}, 2, 1, 4, 2},
		{"degenerate keeps one cell", Box{Left: 3, Right: 3, Top: 4, Bottom: 4}, 3, 4, 4, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x0, y0, x1, y1 := tc.box.CellSpan()
			if x0 != tc.x0 || y0 != tc.y0 || x1 != tc.x1 || y1 != tc.y1 {
				t.Errorf("CellSpan() = (%d,%d,%d,%d), expected (%d,%d,%d,%d)",
					x0, y0, x1, y1, tc.x0, tc.y0, tc.x1, tc.y1)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.lo, tc.hi); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, got, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	if got := ClampF(-1.5, 0, 1); got != 0 {
		t.Errorf("ClampF below = %v, expected 0", got)
	}
	if got := ClampF(1.5, 0, 1); got != 1 {
		t.Errorf("ClampF above = %v, expected 1", got)
	}
	if got := ClampF(0.25, 0, 1); got != 0.25 {
		t.Errorf("ClampF inside = %v, expected 0.25", got)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		v        float64
		digits   int
		expected float64
	}{
		{0.123456, 2, 0.12},
		{-0.125, 2, -0.13},
		{1.5, 0, 2},
		{0.0049, 2, 0},
	}

	for _, tc := range tests {
		if got := Round(tc.v, tc.digits); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("Round(%v, %d) = %v, expected %v", tc.v, tc.digits, got, tc.expected)
		}
	}
}
