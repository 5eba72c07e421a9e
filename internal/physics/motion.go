package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Vec3 = mgl64.Vec3

// DirectionOffset turns the input axes into an angle relative to the camera
// heading: 0 forward, +pi/2 left, -pi/2 right, pi backward, and the diagonals
// in between. ok is false for a zero vector so callers never see an
// undefined angle.
func DirectionOffset(forward, strafe float64) (angle float64, ok bool) {
	if nearlyZero(forward) && nearlyZero(strafe) {
		return 0, false
	}
	return math.Atan2(strafe, forward), true
}

// Heading returns the unit XZ vector for a yaw angle. Yaw 0 points along +Z,
// positive yaw turns toward +X.
func Heading(yaw float64) Vec3 {
	return Vec3{math.Sin(yaw), 0, math.Cos(yaw)}
}

// YawOf is the inverse of Heading for the XZ projection of v.
func YawOf(v Vec3) (float64, bool) {
	if nearlyZero(v.X()) && nearlyZero(v.Z()) {
		return 0, false
	}
	return math.Atan2(v.X(), v.Z()), true
}

// ApproachAngle moves current toward target along the shortest arc by the
// fraction 1-exp(-rate*dt), which is frame-rate independent.
func ApproachAngle(current, target, rate, dt float64) float64 {
	if dt <= 0 || rate <= 0 {
		return NormalizeAngle(current)
	}
	alpha := 1 - math.Exp(-rate*dt)
	return NormalizeAngle(current + SignedAngleDelta(current, target)*alpha)
}

func SignedAngleDelta(from, to float64) float64 {
	return NormalizeAngle(to - from)
}

func AngleDiff(a, b float64) float64 {
	return math.Abs(SignedAngleDelta(a, b))
}

// NormalizeAngle maps v into (-pi, pi].
func NormalizeAngle(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	v = math.Mod(v, 2*math.Pi)
	if v <= -math.Pi {
		v += 2 * math.Pi
	} else if v > math.Pi {
		v -= 2 * math.Pi
	}
	return v
}

// ClampDelta bounds an elapsed-time step to [0, max]. Negative or NaN steps
// become zero.
func ClampDelta(dt, max float64) float64 {
	if math.IsNaN(dt) || dt <= 0 {
		return 0
	}
	if max > 0 && dt > max {
		return max
	}
	return dt
}

// Lerp interpolates each axis independently.
func Lerp(from, to Vec3, t float64) Vec3 {
	return Vec3{
		from.X() + (to.X()-from.X())*t,
		from.Y() + (to.Y()-from.Y())*t,
		from.Z() + (to.Z()-from.Z())*t,
	}
}

func nearlyZero(v float64) bool {
	return math.Abs(v) < AngleEpsilon
}
