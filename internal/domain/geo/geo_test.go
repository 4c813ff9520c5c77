package geo

import (
	"math"
	"testing"
)

func TestDistance_SamePointIsZero(t *testing.T) {
	points := []Coordinates{
		{47.6062, -122.3321},
		{0, 0},
		{-33.8688, 151.2093},
	}

	for _, p := range points {
		if d := Distance(p, p); d != 0 {
			t.Fatalf("Distance(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := Coordinates{47.6062, -122.3321} // Seattle
	b := Coordinates{33.7490, -84.3880}  // Atlanta

	ab := Distance(a, b)
	ba := Distance(b, a)
	if math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("Distance not symmetric: %v vs %v", ab, ba)
	}
}

func TestDistance_KnownPair(t *testing.T) {
	// Seattle -> Portland, ~145 millas en línea recta.
	a := Coordinates{47.6062, -122.3321}
	b := Coordinates{45.5152, -122.6784}

	d := Distance(a, b)
	if d < 140 || d > 150 {
		t.Fatalf("Seattle-Portland distance = %v, want ~145", d)
	}
}

func TestDistance_MonotonicWithLatitude(t *testing.T) {
	origin := Coordinates{40.0, -100.0}

	prev := 0.0
	for i := 1; i <= 10; i++ {
		p := Coordinates{40.0 + float64(i), -100.0}
		d := Distance(origin, p)
		if d <= prev {
			t.Fatalf("distance not increasing at step %d: %v <= %v", i, d, prev)
		}
		prev = d
	}
}

func TestDistanceBetween_MissingPoint(t *testing.T) {
	a := &Coordinates{47.6062, -122.3321}

	if _, ok := DistanceBetween(a, nil); ok {
		t.Fatal("expected ok=false with nil point")
	}
	if _, ok := DistanceBetween(nil, a); ok {
		t.Fatal("expected ok=false with nil point")
	}
	if d, ok := DistanceBetween(a, a); !ok || d != 0 {
		t.Fatalf("DistanceBetween(a, a) = %v, %v", d, ok)
	}
}

func TestCachedCoordinates_NormalizesKey(t *testing.T) {
	cases := []struct {
		city, state string
	}{
		{"Seattle", "WA"},
		{"seattle", "wa"},
		{"SEATTLE", "Wa"},
		{"  seattle  ", " wa "},
		{"new york", "ny"},
		{"SAN FRANCISCO", "ca"},
	}

	for _, tc := range cases {
		if _, ok := cachedCoordinates(tc.city, tc.state); !ok {
			t.Fatalf("expected cache hit for %q, %q", tc.city, tc.state)
		}
	}

	if _, ok := cachedCoordinates("Springfield", "IL"); ok {
		t.Fatal("unexpected cache hit for Springfield, IL")
	}
}
