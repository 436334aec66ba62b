package core

import "testing"

func TestRectIntersects(t *testing.T) {
	screen := NewRect(0, 0, 80, 24)

	tests := []struct {
		name   string
		sprite Rect
		want   bool
	}{
		{"fully on screen", NewRect(10, 5, 3, 2), true},
		{"straddles left edge", NewRect(-2, 5, 3, 1), true},
		{"straddles bottom edge", NewRect(40, 23, 1, 4), true},
		{"left of screen", NewRect(-3, 5, 3, 1), false},
		{"right of screen", NewRect(80, 5, 1, 1), false},
		{"above screen", NewRect(10, -2, 1, 2), false},
		{"below screen", NewRect(10, 24, 1, 1), false},
		{"covers screen", NewRect(-5, -5, 100, 40), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.sprite.Intersects(screen); got != tc.want {
				t.Errorf("Intersects() = %v, want %v", got, tc.want)
			}
			if got := screen.Intersects(tc.sprite); got != tc.want {
				t.Errorf("reversed Intersects() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRectIntersect(t *testing.T) {
	screen := NewRect(0, 0, 80, 24)

	tests := []struct {
		name string
		r    Rect
		want Rect
	}{
		{"inside", NewRect(10, 5, 3, 2), NewRect(10, 5, 3, 2)},
		{"overhangs top left", NewRect(-4, -2, 6, 4), NewRect(0, 0, 2, 2)},
		{"covers screen", NewRect(-5000, -5000, 40000, 40000), screen},
		{"disjoint", NewRect(90, 0, 5, 5), Rect{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.Intersect(screen); got != tc.want {
				t.Errorf("Intersect() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(4, 2, 3, 2)

	tests := []struct {
		x, y int
		want bool
	}{
		{4, 2, true},
		{6, 3, true},
		{7, 3, false},
		{6, 4, false},
		{3, 2, false},
		{4, 1, false},
	}

	for _, tc := range tests {
		if got := r.Contains(tc.x, tc.y); got != tc.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
	if r.Empty() {
		t.Error("Empty() = true for a 20x15 rect")
	}
	if !NewRect(0, 0, 0, 3).Empty() {
		t.Error("Empty() = false for zero width")
	}
}

func TestRectTranslate(t *testing.T) {
	r := NewRect(1, 2, 3, 4).Translate(10, -2)
	if r != NewRect(11, 0, 3, 4) {
		t.Errorf("Translate() = %+v", r)
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
		result := Clamp(tc.val, tc.lo, tc.hi)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected float32
	}{
		{0.5, 0, 1, 0.5},
		{-0.5, 0, 1, 0},
		{1.5, 0, 1, 1},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.lo, tc.hi)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.lo, tc.hi, result, tc.expected)
		}
	}
}
