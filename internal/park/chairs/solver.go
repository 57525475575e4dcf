// Package chairs implements the flying chairs ride: a rotor turning on a
// pole with chairs hanging from chains that swing out as the ride speeds up.
package chairs

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/funpark/pkg/math"
)

// maxSwing is the open upper bound of the swing angle. tan diverges at pi/2.
const maxSwing = math.Pi/2 - 1e-4

// ErrInvalidInput is returned for non-physical solver inputs.
var ErrInvalidInput = errors.New("chairs: invalid swing input")

// ConvergenceError reports that SolveSwing ran out of iterations.
type ConvergenceError struct {
	Omega      float32
	Iterations int
	Theta      float32 // Last iterate
	Residual   float32
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("chairs: swing angle did not converge for omega %.4f after %d iterations (theta %.5f, residual %.3g)",
		e.Omega, e.Iterations, e.Theta, e.Residual)
}

// SolveSwing returns the steady swing angle theta in [0, pi/2) of a chair on
// a chain of length chain hung at radius from an axis turning at omega:
//
//	gravity * tan(theta) = omega^2 * (radius + chain*sin(theta))
//
// It runs Newton iteration kept inside a shrinking bracket and stops when a
// step is smaller than tol. After maxIter steps it returns a
// *ConvergenceError; there is no fallback angle.
func SolveSwing(omega, radius, chain, gravity float32, maxIter int, tol float32) (float32, error) {
	if gravity <= 0 || radius < 0 || chain < 0 || maxIter < 1 || tol <= 0 {
		return 0, fmt.Errorf("gravity %g radius %g chain %g: %w", gravity, radius, chain, ErrInvalidInput)
	}
	w2 := omega * omega
	if w2 == 0 || radius+chain == 0 {
		return 0, nil
	}

	f := func(theta float32) float32 {
		return gravity*math32.Tan(theta) - w2*(radius+chain*math32.Sin(theta))
	}
	df := func(theta float32) float32 {
		c := math32.Cos(theta)
		return gravity/(c*c) - w2*chain*c
	}

	lo, hi := float32(0), float32(maxSwing)
	if f(hi) <= 0 {
		return 0, &ConvergenceError{Omega: omega, Theta: hi, Residual: f(hi)}
	}

	// sin(theta) <= 1 bounds the root from above, which makes this a good
	// starting point for a convex f.
	theta := min(math32.Atan(w2*(radius+chain)/gravity), hi)
	for i := 0; i < maxIter; i++ {
		fv := f(theta)
		if fv > 0 {
			hi = theta
		} else {
			lo = theta
		}

		next := lo + (hi-lo)/2
		if d := df(theta); d != 0 {
			if n := theta - fv/d; n > lo && n < hi {
				next = n
			}
		}
		if math32.Abs(next-theta) < tol {
			return next, nil
		}
		theta = next
	}
	return 0, &ConvergenceError{Omega: omega, Iterations: maxIter, Theta: theta, Residual: f(theta)}
}
