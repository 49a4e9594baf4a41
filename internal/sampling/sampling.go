// Package sampling draws candidate points inside a solid sphere.
package sampling

import (
	"math"
	"math/rand"
)

// Point is a sample in both Cartesian and spherical form. Theta is the
// azimuth and Phi the polar angle.
type Point struct {
	X, Y, Z         float64
	Rho, Theta, Phi float64
}

// FromSpherical builds a point from fixed spherical coordinates.
func FromSpherical(rho, theta, phi float64) Point {
	sinPhi := math.Sin(phi)
	return Point{
		X:     rho * sinPhi * math.Cos(theta),
		Y:     rho * sinPhi * math.Sin(theta),
		Z:     rho * math.Cos(phi),
		Rho:   rho,
		Theta: theta,
		Phi:   phi,
	}
}

// Sample draws count points with rho uniform in [0, maxRadius), theta
// uniform in [0, 2π) and phi = acos(2u-1). The radial draw is uniform in rho,
// not in volume, so clouds are denser near the origin.
func Sample(rng *rand.Rand, count int, maxRadius float64) []Point {
	if count <= 0 {
		return []Point{}
	}

	points := make([]Point, count)
	for i := range points {
		rho := rng.Float64() * maxRadius
		theta := rng.Float64() * 2 * math.Pi
		phi := math.Acos(2*rng.Float64() - 1)
		points[i] = FromSpherical(rho, theta, phi)
	}
	return points
}
