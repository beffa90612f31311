// Package geo converts a circular search radius into an axis-aligned
// latitude/longitude bounding box.
//
// The conversion is a flat-degree approximation: one degree of latitude is
// treated as a constant 111km and the longitude span is widened by
// 1/cos(latitude) to account for meridian convergence. The approximation
// degrades near the poles (cos(latitude) approaches zero and the longitude
// span blows up) and does not wrap across the antimeridian. This is an
// accepted limitation, not a geodesic calculation.
package geo

import "math"

// MetersPerDegree is the approximate length of one degree of latitude.
const MetersPerDegree = 111000.0

// BoundingBox is an axis-aligned lat/long rectangle with inclusive bounds.
type BoundingBox struct {
	LatMin float64
	LatMax float64
	LonMin float64
	LonMax float64
}

// BoxAround returns the bounding box approximating a circle of radiusMeters
// centered on (latitude, longitude).
func BoxAround(latitude, longitude, radiusMeters float64) BoundingBox {
	radiusDegrees := radiusMeters / MetersPerDegree
	lonRadius := radiusDegrees / math.Cos(latitude*math.Pi/180)

	return BoundingBox{
		LatMin: latitude - radiusDegrees,
		LatMax: latitude + radiusDegrees,
		LonMin: longitude - lonRadius,
		LonMax: longitude + lonRadius,
	}
}

// Contains reports whether the point falls inside the box, bounds inclusive.
func (b BoundingBox) Contains(latitude, longitude float64) bool {
	return latitude >= b.LatMin && latitude <= b.LatMax &&
		longitude >= b.LonMin && longitude <= b.LonMax
}
