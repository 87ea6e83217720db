package core

import (
	"testing"

	"github.com/martinlindhe/unit"

	"github.com/orreryworks/apparent/internal/logging"
)

func TestPlacementBoundIsInclusive(t *testing.T) {
	layout := NewLayout(5, 1000*unit.Kilometer)
	shape := Sphere{Radius: 1000 * unit.Kilometer}

	cases := []struct {
		x    int64
		want bool
	}{
		{0, true},
		{5, true},
		{-4, true},
		{-5, true},
		{6, false},
		{-6, false},
	}

	for _, tc := range cases {
		ok := layout.AddObject(NewObject(NewCoordinate(tc.x, 0, 0), shape))
		if ok != tc.want {
			t.Errorf("AddObject at x=%d = %v, want %v", tc.x, ok, tc.want)
		}
	}

	// Rejections must not have been stored.
	if got := layout.NumObjects(); got != 4 {
		t.Errorf("NumObjects = %d, want 4", got)
	}
}

func TestAddObjectChecksEveryAxis(t *testing.T) {
	layout := NewLayout(5, 1000*unit.Kilometer, WithLogger(logging.Noop()))
	shape := Sphere{Radius: 1 * unit.Kilometer}

	for _, pos := range []Coordinate{
		NewCoordinate(6, 0, 0),
		NewCoordinate(0, -6, 0),
		NewCoordinate(0, 0, 6),
		NewCoordinate(6, 6, 6),
	} {
		if layout.AddObject(NewObject(pos, shape)) {
			t.Errorf("AddObject accepted out-of-bounds position %+v", pos)
		}
	}
	if layout.NumObjects() != 0 {
		t.Errorf("rejected placements must not mutate the layout")
	}
}

func TestUnitLength(t *testing.T) {
	layout := NewLayout(5, 1000*unit.Kilometer)

	if got := layout.UnitLength().Kilometers(); got != 100 {
		t.Errorf("UnitLength = %v km, want 100 km", got)
	}
}

func TestDistanceScalesGridToReal(t *testing.T) {
	dimension := 1000 * unit.Kilometer
	layout := NewLayout(5, dimension)

	// Half the grid span maps onto exactly half the dimension.
	got := layout.Distance(NewCoordinate(0, 0, 0), NewCoordinate(5, 0, 0))
	if got.Kilometers() != 500 {
		t.Errorf("Distance = %v km, want exactly 500 km", got.Kilometers())
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	layout := NewLayout(1000, 1*unit.LightYear)

	p := NewCoordinate(12, -34, 56)
	q := NewCoordinate(-78, 90, -12)

	if a, b := layout.Distance(p, q), layout.Distance(q, p); a != b {
		t.Errorf("Distance not symmetric: %v vs %v", a, b)
	}
}

func TestDefaultLayout(t *testing.T) {
	layout := DefaultLayout()

	if got := layout.CoordinateBound(); got != 1000 {
		t.Errorf("CoordinateBound = %d, want 1000", got)
	}
	if got := layout.Dimension().LightYears(); !approxEqual(got, 1, 9) {
		t.Errorf("Dimension = %v ly, want 1 ly", got)
	}
	if got := layout.NumObjects(); got != 0 {
		t.Errorf("default layout should start empty, has %d objects", got)
	}
}

func TestMoonVisualAngle(t *testing.T) {
	// Grid of ±5 steps spanning ten lunar distances: one step is one
	// lunar distance of 384,400 km.
	layout := NewLayout(5, 3844000*unit.Kilometer)
	moon := NewObject(
		NewCoordinate(1, 0, 0),
		Sphere{Radius: 3474.8 * unit.Kilometer},
	)
	if !layout.AddObject(moon) {
		t.Fatalf("failed to place moon")
	}

	distance := layout.Distance(NewCoordinate(0, 0, 0), NewCoordinate(1, 0, 0))
	if got := distance.Kilometers(); got != 384400 {
		t.Fatalf("moon distance = %v km, want 384400 km", got)
	}

	observed := layout.Observe(NewCoordinate(0, 0, 0))
	if len(observed) != 1 {
		t.Fatalf("observed %d objects, want 1", len(observed))
	}

	want := unit.Angle(0.517924) * unit.Degree
	if got := observed[0].VisualAngle; !approxEqual(got.Radians(), want.Radians(), 6) {
		t.Errorf("moon visual angle = %v°, want ≈0.517924°", got.Degrees())
	}
}

func TestObserveCardinalityAndOrder(t *testing.T) {
	layout := NewLayout(100, 1000*unit.Kilometer)
	positions := []Coordinate{
		NewCoordinate(10, 0, 0),
		NewCoordinate(0, 20, 0),
		NewCoordinate(0, 0, -30),
		NewCoordinate(10, 0, 0), // duplicates are kept, not deduplicated
	}
	for _, pos := range positions {
		if !layout.AddObject(NewObject(pos, Sphere{Radius: 1 * unit.Kilometer})) {
			t.Fatalf("failed to place object at %+v", pos)
		}
	}

	origin := NewCoordinate(1, 2, 3)
	observed := layout.Observe(origin)

	if len(observed) != len(positions) {
		t.Fatalf("observed %d objects, want %d", len(observed), len(positions))
	}
	for i, obs := range observed {
		if !obs.Coordinates.Equal(positions[i]) {
			t.Errorf("observation %d at %+v, want insertion-order %+v", i, obs.Coordinates, positions[i])
		}
		if !obs.ObservedFrom.Equal(origin) {
			t.Errorf("observation %d recorded origin %+v, want %+v", i, obs.ObservedFrom, origin)
		}
	}

	// A second identical call must return equal results and leave the
	// layout untouched.
	again := layout.Observe(origin)
	if len(again) != len(observed) {
		t.Fatalf("second Observe returned %d objects, want %d", len(again), len(observed))
	}
	for i := range observed {
		if again[i] != observed[i] {
			t.Errorf("observation %d differs between identical calls", i)
		}
	}
	if layout.NumObjects() != len(positions) {
		t.Errorf("Observe mutated the layout")
	}
}

func TestObserveLargeGrid(t *testing.T) {
	// The full solar-system scale scenario: a grid fine enough that one
	// step is a kilometre, spanning twice the Neptune orbit.
	layout := NewLayout(2992000000, 5.984e9*unit.Kilometer)

	if !layout.AddObject(NewObject(NewCoordinate(384399, 0, 0), Sphere{Radius: 3474.8 * unit.Kilometer})) {
		t.Fatalf("failed to place moon")
	}
	if !layout.AddObject(NewObject(NewCoordinate(149597870, 0, 0), Sphere{Radius: 1392700 * unit.Kilometer})) {
		t.Fatalf("failed to place sun")
	}

	observed := layout.Observe(NewCoordinate(0, 0, 0))
	if len(observed) != 2 {
		t.Fatalf("observed %d objects, want 2", len(observed))
	}
	for i, obs := range observed {
		if got := obs.VisualAngle.Radians(); got <= 0 {
			t.Errorf("observation %d has non-positive angle %v", i, got)
		}
	}
	// From Earth both bodies famously subtend about half a degree.
	moonDeg := observed[0].VisualAngle.Degrees()
	sunDeg := observed[1].VisualAngle.Degrees()
	if moonDeg < 0.4 || moonDeg > 0.6 {
		t.Errorf("moon angle = %v°, want ≈0.5°", moonDeg)
	}
	if sunDeg < 0.4 || sunDeg > 0.6 {
		t.Errorf("sun angle = %v°, want ≈0.5°", sunDeg)
	}
}
