package geom

import (
	"math"
	"testing"
)

func TestRectNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"already normal", Rect{1, 2, 3, 4}, Rect{1, 2, 3, 4}},
		{"negative width", Rect{10, 0, -4, 2}, Rect{6, 0, 4, 2}},
		{"negative height", Rect{0, 10, 2, -5}, Rect{0, 5, 2, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundingRect(t *testing.T) {
	r, ok := BoundingRect([]Point{{1, 5}, {4, 2}, {3, 3}})
	if !ok {
		t.Fatal("BoundingRect should succeed for non-empty input")
	}
	if want := (Rect{1, 2, 3, 3}); r != want {
		t.Errorf("BoundingRect = %v, want %v", r, want)
	}

	if _, ok := BoundingRect(nil); ok {
		t.Error("BoundingRect(nil) should report false")
	}
}

func TestMargin(t *testing.T) {
	m := Margin{Top: 1, Right: 2, Bottom: 3, Left: 4}
	if m.Horizontal() != 6 {
		t.Errorf("Horizontal() = %v, want 6", m.Horizontal())
	}
	if m.Vertical() != 4 {
		t.Errorf("Vertical() = %v, want 4", m.Vertical())
	}
	if u := Uniform(5); u != (Margin{5, 5, 5, 5}) {
		t.Errorf("Uniform(5) = %v", u)
	}
}

func TestPointValid(t *testing.T) {
	if !(Point{1, 2}).Valid() {
		t.Error("finite point should be valid")
	}
	if (Point{math.NaN(), 2}).Valid() {
		t.Error("NaN point should be invalid")
	}
	if (Point{1, math.Inf(-1)}).Valid() {
		t.Error("infinite point should be invalid")
	}
}

func TestEnclose(t *testing.T) {
	tests := []struct {
		name string
		pts  []Point
		want Circle
	}{
		{"single point", []Point{{3, 4}}, Circle{3, 4, 0}},
		{"two points", []Point{{0, 0}, {4, 0}}, Circle{2, 0, 2}},
		{"square", []Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}}, Circle{1, 1, math.Sqrt2}},
		{"interior point ignored", []Point{{0, 0}, {10, 0}, {5, 1}}, Circle{5, 0, 5}},
		{"collinear", []Point{{0, 0}, {1, 0}, {3, 0}}, Circle{1.5, 0, 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Enclose(tt.pts)
			if !ok {
				t.Fatal("Enclose should succeed")
			}
			const eps = 1e-9
			if math.Abs(got.X-tt.want.X) > eps || math.Abs(got.Y-tt.want.Y) > eps || math.Abs(got.R-tt.want.R) > eps {
				t.Errorf("Enclose = %+v, want %+v", got, tt.want)
			}
			for _, p := range tt.pts {
				if !got.Contains(p) {
					t.Errorf("circle %+v does not contain %+v", got, p)
				}
			}
		})
	}

	if _, ok := Enclose(nil); ok {
		t.Error("Enclose(nil) should report false")
	}
}
