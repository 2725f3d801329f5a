package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// World axes. Y is up and yaw 0 faces +Z.
var (
	Up      = mgl64.Vec3{0, 1, 0}
	Right   = mgl64.Vec3{1, 0, 0}
	Forward = mgl64.Vec3{0, 0, 1}
)

const directionEpsilon = 1e-9

// Euler builds a rotation from degrees, applied yaw then pitch then roll.
// Positive pitch tips the forward axis downward.
func Euler(pitch, yaw, roll float64) mgl64.Quat {
	qYaw := mgl64.QuatRotate(mgl64.DegToRad(yaw), Up)
	qPitch := mgl64.QuatRotate(mgl64.DegToRad(pitch), Right)
	qRoll := mgl64.QuatRotate(mgl64.DegToRad(roll), Forward)
	return qYaw.Mul(qPitch).Mul(qRoll)
}

// YawRotation is Euler(0, yaw, 0).
func YawRotation(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(yaw), Up)
}

// ForwardFromYaw returns the unit horizontal direction for a yaw in degrees.
func ForwardFromYaw(yaw float64) mgl64.Vec3 {
	rad := mgl64.DegToRad(yaw)
	return mgl64.Vec3{math.Sin(rad), 0, math.Cos(rad)}
}

// YawOf returns the yaw in degrees of dir projected onto the horizontal
// plane. ok is false when the projection is degenerate.
func YawOf(dir mgl64.Vec3) (yaw float64, ok bool) {
	if math.Hypot(dir.X(), dir.Z()) < directionEpsilon {
		return 0, false
	}
	return mgl64.RadToDeg(math.Atan2(dir.X(), dir.Z())), true
}

// Horizontal drops the vertical component of v.
func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// Normalized returns v scaled to unit length, or ok=false for a zero vector.
func Normalized(v mgl64.Vec3) (mgl64.Vec3, bool) {
	l := v.Len()
	if l < directionEpsilon || !finite(l) {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// LookRotation returns the rotation whose local +Z points along forward and
// whose local +Y is as close to up as possible. A degenerate forward yields
// the identity.
func LookRotation(forward, up mgl64.Vec3) mgl64.Quat {
	z, ok := Normalized(forward)
	if !ok {
		return mgl64.QuatIdent()
	}
	x, ok := Normalized(up.Cross(z))
	if !ok {
		// forward is parallel to up; pick any perpendicular.
		x, ok = Normalized(Forward.Cross(z))
		if !ok {
			x = Right
		}
	}
	y := z.Cross(x)
	return mgl64.Mat4ToQuat(mgl64.Mat3FromCols(x, y, z).Mat4()).Normalize()
}

// LookAt is LookRotation from a point toward another.
func LookAt(from, to mgl64.Vec3) mgl64.Quat {
	return LookRotation(to.Sub(from), Up)
}

// Slerp blends a toward b with t clamped to [0, 1].
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	t = Clamp01(t)
	if t == 0 {
		return a
	}
	if t == 1 {
		return b
	}
	return mgl64.QuatSlerp(a, b, t).Normalize()
}
