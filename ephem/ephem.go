// Package ephem places TLE-described satellites onto a layout grid.
//
// It is a thin bridge between SGP4 propagation and the integer grid
// model: propagate once for a chosen instant, quantize the ECEF
// position to grid units, and hand the resulting coordinate to a
// layout. There is no motion loop here; callers wanting another epoch
// ask again.
package ephem

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
	"github.com/martinlindhe/unit"

	"github.com/orreryworks/apparent/core"
)

// SGP4Ephemeris propagates a satellite from its TLE.
type SGP4Ephemeris struct {
	sat satellite.Satellite
}

// NewSGP4FromTLE constructs an ephemeris from TLE lines.
func NewSGP4FromTLE(line1, line2 string) *SGP4Ephemeris {
	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	return &SGP4Ephemeris{sat: sat}
}

// ECEFPosition propagates to the given instant and returns the ECEF
// position as tagged lengths. go-satellite works in kilometres.
func (e *SGP4Ephemeris) ECEFPosition(at time.Time) (x, y, z unit.Length) {
	year, month, day := at.Date()
	hour, min, sec := at.Clock()

	posECI, _ := satellite.Propagate(e.sat, year, int(month), day, hour, min, sec)
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	posECEF := satellite.ECIToECEF(posECI, gmst)

	x = unit.Length(posECEF.X) * unit.Kilometer
	y = unit.Length(posECEF.Y) * unit.Kilometer
	z = unit.Length(posECEF.Z) * unit.Kilometer
	return x, y, z
}

// GridCoordinate propagates to the given instant and quantizes the
// ECEF position onto a grid whose steps represent unitLength each,
// rounding to the nearest grid point. Whether the coordinate actually
// fits a particular layout is decided by that layout's AddObject.
func (e *SGP4Ephemeris) GridCoordinate(at time.Time, unitLength unit.Length) core.Coordinate {
	x, y, z := e.ECEFPosition(at)
	step := unitLength.Meters()
	return core.NewCoordinate(
		int64(math.Round(x.Meters()/step)),
		int64(math.Round(y.Meters()/step)),
		int64(math.Round(z.Meters()/step)),
	)
}
