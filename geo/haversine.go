// Package geo provides great-circle distance between GPS points.
package geo

import "math"

// WGS84 semi-axes in meters.
const (
	axisA  = 6378137.0
	axisB  = 6356752.314245
	radius = 6378137.0
)

// Distance returns the great-circle distance in meters between two
// lat/lon points given in decimal degrees.
//
// Latitudes are first converted to their WGS84 reduced form via
// atan((1-f)*tan(lat)), f being the ellipsoid flattening, before the
// standard haversine chord formula is applied. Symmetric in its two
// points, zero iff they are identical; NaN coordinates propagate.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	flattening := (axisA - axisB) / axisA
	phi1 := math.Atan((1 - flattening) * math.Tan(radians(lat1)))
	phi2 := math.Atan((1 - flattening) * math.Tan(radians(lat2)))
	lambda1 := radians(lon1)
	lambda2 := radians(lon2)

	sinPhi := math.Sin((phi2 - phi1) / 2)
	sinLambda := math.Sin((lambda2 - lambda1) / 2)
	h := math.Sqrt(sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda)
	return 2 * radius * math.Asin(h)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
