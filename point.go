package geocorpus

import (
	"math"

	"github.com/golang/geo/s2"
)

// GeoPoint is a coordinate pair in degrees, normalized on creation so that
// lat is in [-90,90] and lon in (-180,180]. Immutable once produced.
type GeoPoint struct {
	Lat float64
	Lon float64
}

// NewGeoPoint normalizes lat/lon by repeated wraparound into the canonical
// ranges. Normalization is idempotent. Degenerate inputs (NaN, Inf) clamp to
// the pole convention (lat=90, lon=180) so generation never stalls.
func NewGeoPoint(lat, lon float64) GeoPoint {
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		lat = 90
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		lon = 180
	}
	for lon > 180 {
		lon -= 360
	}
	for lon <= -180 {
		lon += 360
	}
	for lat > 90 {
		lat -= 180
	}
	for lat < -90 {
		lat += 180
	}
	return GeoPoint{Lat: lat, Lon: lon}
}

// SphereXYZ is a Cartesian point on the unit sphere (radius 1).
type SphereXYZ struct {
	X, Y, Z float64
}

// XYZ converts the point to Cartesian coordinates on the unit sphere. The
// result is meant for visualization output, not for verification.
func (p GeoPoint) XYZ() SphereXYZ {
	v := s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lon))
	return SphereXYZ{X: v.X, Y: v.Y, Z: v.Z}
}

// UnitSquareToSphere maps a sample from the unit square (u1, u2 in [0,1)) to
// a uniformly distributed point on the sphere, returned as lat/lon degrees.
//
// The polar angle is drawn through the inverse CDF (acos(1-2u)) so that area
// density is uniform; sampling lat/lon uniformly instead would cluster points
// at the poles. Degenerate asin/atan2 results clamp to lat=90, lon=180, the
// same convention existing reference corpora use.
func UnitSquareToSphere(u1, u2 float64) GeoPoint {
	theta0 := 2 * math.Pi * u1
	theta1 := math.Acos(1 - 2*u2)
	x := math.Sin(theta0) * math.Sin(theta1)
	y := math.Cos(theta0) * math.Sin(theta1)
	z := math.Cos(theta1)

	lat := 90.0
	if latRad := math.Asin(z); !math.IsNaN(latRad) {
		lat = radToDeg(latRad)
	}
	lon := 180.0
	if lonRad := math.Atan2(y, x); !math.IsNaN(lonRad) {
		lon = radToDeg(lonRad)
	}
	return NewGeoPoint(lat, lon)
}

func radToDeg(rad float64) float64 {
	return rad / math.Pi * 180
}
