package lighting

import "github.com/Faultbox/funpark/pkg/math"

// MaxPointLights is the number of point lights the shader holds.
const MaxPointLights = 32

// PointLight is a point light source for GPU upload.
type PointLight struct {
	Position  math.Vec3
	Color     math.Vec3
	Range     float32
	Intensity float32
}

// LampColor is the warm tint of park lamps.
var LampColor = math.Vec3{X: 1, Y: 0.85, Z: 0.6}

// FromPositions creates lamp lights of the given range at each position.
func FromPositions(positions []math.Vec3, rng float32) []PointLight {
	if rng <= 0 {
		rng = 10
	}
	lights := make([]PointLight, len(positions))
	for i, p := range positions {
		lights[i] = PointLight{Position: p, Color: LampColor, Range: rng, Intensity: 1}
	}
	return lights
}

// PointLightBuffer holds lights laid out for uniform arrays.
type PointLightBuffer struct {
	Lights []PointLight
}

// NewPointLightBuffer creates an empty buffer.
func NewPointLightBuffer() *PointLightBuffer {
	return &PointLightBuffer{Lights: make([]PointLight, 0, MaxPointLights)}
}

// Count returns the number of lights held.
func (b *PointLightBuffer) Count() int {
	return len(b.Lights)
}

// Clear removes all lights.
func (b *PointLightBuffer) Clear() {
	b.Lights = b.Lights[:0]
}

// AddLight appends a light. It returns false when the buffer is full.
func (b *PointLightBuffer) AddLight(light PointLight) bool {
	if len(b.Lights) >= MaxPointLights {
		return false
	}
	b.Lights = append(b.Lights, light)
	return true
}

// SetLights replaces the buffer contents, truncating to MaxPointLights.
func (b *PointLightBuffer) SetLights(lights []PointLight) {
	b.Clear()
	b.Lights = append(b.Lights, lights[:min(len(lights), MaxPointLights)]...)
}

// Nearest keeps the MaxPointLights lights closest to eye, for scenes with
// more lamps than the shader holds.
func (b *PointLightBuffer) Nearest(all []PointLight, eye math.Vec3) {
	if len(all) <= MaxPointLights {
		b.SetLights(all)
		return
	}
	b.Clear()
	for _, l := range all {
		d := l.Position.Distance(eye)
		if len(b.Lights) < MaxPointLights {
			b.Lights = append(b.Lights, l)
			continue
		}
		far, farDist := 0, float32(-1)
		for i, k := range b.Lights {
			if kd := k.Position.Distance(eye); kd > farDist {
				far, farDist = i, kd
			}
		}
		if d < farDist {
			b.Lights[far] = l
		}
	}
}

// Positions returns xyz triples padded to MaxPointLights.
func (b *PointLightBuffer) Positions() []float32 {
	out := make([]float32, MaxPointLights*3)
	for i, l := range b.Lights {
		copy(out[i*3:], []float32{l.Position.X, l.Position.Y, l.Position.Z})
	}
	return out
}

// Colors returns rgb triples scaled by intensity, padded to MaxPointLights.
func (b *PointLightBuffer) Colors() []float32 {
	out := make([]float32, MaxPointLights*3)
	for i, l := range b.Lights {
		c := l.Color.Scale(l.Intensity)
		copy(out[i*3:], []float32{c.X, c.Y, c.Z})
	}
	return out
}

// Ranges returns light ranges padded to MaxPointLights.
func (b *PointLightBuffer) Ranges() []float32 {
	out := make([]float32, MaxPointLights)
	for i, l := range b.Lights {
		out[i] = l.Range
	}
	return out
}
