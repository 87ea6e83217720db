package core

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/martinlindhe/unit"
)

// Scenario is a parsed layout description: grid resolution, real
// dimension, and the named bodies to place. It is the file-level input
// of simulation drivers; the core types themselves never touch files.
type Scenario struct {
	CoordinateBound int64
	Dimension       unit.Length
	Bodies          []ScenarioBody
}

// ScenarioBody pairs a display name with the object to place.
type ScenarioBody struct {
	Name   string
	Object Object
}

// PlacementSummary records which bodies a BuildLayout call accepted and
// which were rejected for being out of bounds. Mainly useful for
// logging from main().
type PlacementSummary struct {
	Placed   []string
	Rejected []string
}

// internal JSON shapes – keep them unexported so we're free to evolve them.
type scenarioJSON struct {
	CoordinateBound int64        `json:"coordinate_bound"`
	Dimension       quantityJSON `json:"dimension"`
	Bodies          []bodyJSON   `json:"bodies"`
}

type bodyJSON struct {
	Name     string       `json:"name"`
	Position positionJSON `json:"position"`
	Shape    shapeJSON    `json:"shape"`
}

type positionJSON struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
	Z int64 `json:"z"`
}

type shapeJSON struct {
	Kind   string       `json:"kind"` // currently only "sphere"
	Radius quantityJSON `json:"radius"`
}

type quantityJSON struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// LoadScenario reads a JSON scenario from r. It fails on structural
// errors, a non-positive coordinate bound, unknown shape kinds, and
// unknown units: supplying an untagged or mistagged quantity is exactly
// the caller error the boundary exists to catch. Out-of-bound body
// positions are not an error here; they surface as rejections when the
// scenario is built into a Layout.
func LoadScenario(r io.Reader) (*Scenario, error) {
	var payload scenarioJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenario: decode failed: %w", err)
	}

	if payload.CoordinateBound <= 0 {
		return nil, fmt.Errorf("LoadScenario: coordinate_bound must be positive, got %d", payload.CoordinateBound)
	}
	dimension, err := lengthFromJSON(payload.Dimension)
	if err != nil {
		return nil, fmt.Errorf("LoadScenario: dimension: %w", err)
	}

	scenario := &Scenario{
		CoordinateBound: payload.CoordinateBound,
		Dimension:       dimension,
		Bodies:          make([]ScenarioBody, 0, len(payload.Bodies)),
	}

	for _, body := range payload.Bodies {
		if body.Name == "" {
			return nil, fmt.Errorf("LoadScenario: body with empty name")
		}
		shape, err := shapeFromJSON(body.Shape)
		if err != nil {
			return nil, fmt.Errorf("LoadScenario: body %q: %w", body.Name, err)
		}
		scenario.Bodies = append(scenario.Bodies, ScenarioBody{
			Name: body.Name,
			Object: NewObject(
				NewCoordinate(body.Position.X, body.Position.Y, body.Position.Z),
				shape,
			),
		})
	}

	return scenario, nil
}

// BuildLayout constructs a Layout from the scenario and places every
// body, collecting accepted and rejected names in insertion order.
func (s *Scenario) BuildLayout(opts ...Option) (*Layout, *PlacementSummary) {
	layout := NewLayout(s.CoordinateBound, s.Dimension, opts...)
	summary := &PlacementSummary{}
	for _, body := range s.Bodies {
		if layout.AddObject(body.Object) {
			summary.Placed = append(summary.Placed, body.Name)
		} else {
			summary.Rejected = append(summary.Rejected, body.Name)
		}
	}
	return layout, summary
}

func shapeFromJSON(js shapeJSON) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(js.Kind)) {
	case "sphere", "":
		// Spheres are the only variant so far, and the default.
		radius, err := lengthFromJSON(js.Radius)
		if err != nil {
			return nil, fmt.Errorf("radius: %w", err)
		}
		return Sphere{Radius: radius}, nil
	default:
		return nil, fmt.Errorf("unsupported shape kind: %q", js.Kind)
	}
}

// lengthFromJSON maps a {value, unit} pair to a tagged length. Unknown
// units are errors rather than defaults.
func lengthFromJSON(q quantityJSON) (unit.Length, error) {
	switch strings.ToLower(strings.TrimSpace(q.Unit)) {
	case "m", "meter", "meters":
		return unit.Length(q.Value) * unit.Meter, nil
	case "km", "kilometer", "kilometers":
		return unit.Length(q.Value) * unit.Kilometer, nil
	case "au":
		return unit.Length(q.Value) * unit.AstronomicalUnit, nil
	case "ly", "lightyear", "lightyears":
		return unit.Length(q.Value) * unit.LightYear, nil
	case "":
		return 0, fmt.Errorf("missing unit for value %v", q.Value)
	default:
		return 0, fmt.Errorf("unsupported length unit: %q", q.Unit)
	}
}
