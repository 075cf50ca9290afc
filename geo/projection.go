package geo

import "math"

// MetersPerDegreeLat is the flat-earth scale used to project geographic
// coordinates onto the local plane. The longitude scale shrinks with
// cos(latitude); both match the constants the simulation scenarios were
// calibrated against.
const MetersPerDegreeLat = 111320.0

// Projection maps (lon, lat) degrees to local planar metres relative to a
// fixed origin. The origin is normally the mean of all geographic rows in
// the input file so offsets stay small.
type Projection struct {
	OriginLonDeg float64
	OriginLatDeg float64
}

// NewProjection builds a projection centred on the given origin.
func NewProjection(originLonDeg, originLatDeg float64) Projection {
	return Projection{OriginLonDeg: originLonDeg, OriginLatDeg: originLatDeg}
}

// MetersPerDegreeLon returns the longitude scale at the projection origin.
func (p Projection) MetersPerDegreeLon() float64 {
	return MetersPerDegreeLat * math.Cos(p.OriginLatDeg*math.Pi/180.0)
}

// ToMeters converts one geographic point to planar metres.
func (p Projection) ToMeters(lonDeg, latDeg float64) (x, y float64) {
	x = (lonDeg - p.OriginLonDeg) * p.MetersPerDegreeLon()
	y = (latDeg - p.OriginLatDeg) * MetersPerDegreeLat
	return x, y
}
