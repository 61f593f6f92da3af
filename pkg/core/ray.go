package core

import "errors"

// ErrDegenerateRay is returned for rays whose direction has zero length
var ErrDegenerateRay = errors.New("ray direction has zero length")

// Ray represents a ray with an origin and direction.
// The direction is not required to be normalized.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Validate reports ErrDegenerateRay when the ray cannot be traced
func (r Ray) Validate() error {
	if r.Direction.LengthSquared() == 0 {
		return ErrDegenerateRay
	}
	return nil
}
