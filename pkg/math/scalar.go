package math

import (
	gomath "math"

	"github.com/chewxy/math32"
)

// Pi as float32.
const Pi = float32(gomath.Pi)

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}
