// Package lighting holds the directional sun and the point lights uploaded
// to the scene shader.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/funpark/pkg/math"
)

// Sun is a directional light.
type Sun struct {
	Direction math.Vec3 // Points towards the sun
	Color     math.Vec3
	Ambient   math.Vec3
}

// SunDirection converts an azimuth around Y and an elevation above the
// horizon, both in degrees, to a unit vector pointing at the sun.
func SunDirection(azimuth, elevation float32) math.Vec3 {
	az := azimuth * math.Pi / 180
	el := elevation * math.Pi / 180
	sa, ca := math32.Sincos(az)
	se, ce := math32.Sincos(el)
	return math.Vec3{X: ce * sa, Y: se, Z: ce * ca}
}

// NewSun creates a white sun with a soft ambient term.
func NewSun(azimuth, elevation float32) Sun {
	return Sun{
		Direction: SunDirection(azimuth, elevation),
		Color:     math.Vec3{X: 0.8, Y: 0.8, Z: 0.75},
		Ambient:   math.Vec3{X: 0.35, Y: 0.35, Z: 0.4},
	}
}
