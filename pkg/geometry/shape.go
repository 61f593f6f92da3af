package geometry

import "github.com/df07/go-pinhole-raytracer/pkg/core"

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal, always facing against the ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Shape interface for objects that can be hit by rays.
//
// Hit reports whether the ray meets the shape at some t with tMin <= t <= tMax.
// On success rec holds the nearest such intersection; on failure rec is
// left in an unspecified state.
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64, rec *HitRecord) bool
}
