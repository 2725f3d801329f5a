package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// maxDampRatio bounds omega*dt so a single huge frame cannot overflow the
// polynomial below. Past this point the decay term is already ~0.
const maxDampRatio = 1e4

// minTimeConstant is the smallest time constant used when a positive but
// tiny value is supplied.
const minTimeConstant = 1e-4

// dampStep returns omega, the effective step and the Padé approximation of
// exp(-omega*dt).
func dampStep(timeConstant, dt float64) (omega, step, decay float64) {
	omega = 2 / math.Max(minTimeConstant, timeConstant)
	step = math.Min(dt, maxDampRatio/omega)
	x := omega * step
	decay = 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)
	return omega, step, decay
}

func unlimited(maxSpeed float64) bool {
	return maxSpeed <= 0 || math.IsInf(maxSpeed, 1) || math.IsNaN(maxSpeed)
}

// SmoothDamp advances current toward target with a critically damped
// spring. velocity carries state between calls and must be reused for the
// same value. maxSpeed <= 0 or +Inf means unlimited.
//
// A non-positive timeConstant snaps to target and zeroes velocity. A
// non-positive dt returns current untouched.
func SmoothDamp(current, target float64, velocity *float64, timeConstant, dt, maxSpeed float64) float64 {
	var scratch float64
	if velocity == nil {
		velocity = &scratch
	}
	if !(timeConstant > 0) {
		*velocity = 0
		return target
	}
	if !(dt > 0) {
		return current
	}
	if !finite(*velocity) {
		*velocity = 0
	}

	omega, dt, decay := dampStep(timeConstant, dt)

	goal := target
	change := current - target
	if !unlimited(maxSpeed) {
		maxChange := maxSpeed * math.Max(minTimeConstant, timeConstant)
		change = Clamp(change, -maxChange, maxChange)
	}
	target = current - change

	temp := (*velocity + omega*change) * dt
	*velocity = (*velocity - omega*temp) * decay
	out := target + (change+temp)*decay

	if (goal-current > 0) == (out > goal) {
		out = goal
		*velocity = 0
	}
	return out
}

// SmoothDampAngle is SmoothDamp over degrees. The target is rewritten to the
// nearest equivalent angle so the value takes the short way across the
// 0/360 seam. The result is not wrapped.
func SmoothDampAngle(current, target float64, velocity *float64, timeConstant, dt, maxSpeed float64) float64 {
	target = current + DeltaAngle(current, target)
	return SmoothDamp(current, target, velocity, timeConstant, dt, maxSpeed)
}

// SmoothDampVec3 is the vector form of SmoothDamp. maxSpeed limits the
// length of the change, not each axis.
func SmoothDampVec3(current, target mgl64.Vec3, velocity *mgl64.Vec3, timeConstant, dt, maxSpeed float64) mgl64.Vec3 {
	var scratch mgl64.Vec3
	if velocity == nil {
		velocity = &scratch
	}
	if !(timeConstant > 0) {
		*velocity = mgl64.Vec3{}
		return target
	}
	if !(dt > 0) {
		return current
	}
	for i := range velocity {
		if !finite(velocity[i]) {
			*velocity = mgl64.Vec3{}
			break
		}
	}

	omega, dt, decay := dampStep(timeConstant, dt)

	goal := target
	change := current.Sub(target)
	if !unlimited(maxSpeed) {
		maxChange := maxSpeed * math.Max(minTimeConstant, timeConstant)
		if l := change.Len(); l > maxChange && l > 0 {
			change = change.Mul(maxChange / l)
		}
	}
	target = current.Sub(change)

	temp := velocity.Add(change.Mul(omega)).Mul(dt)
	*velocity = velocity.Sub(temp.Mul(omega)).Mul(decay)
	out := target.Add(change.Add(temp).Mul(decay))

	if goal.Sub(current).Dot(out.Sub(goal)) > 0 {
		out = goal
		*velocity = mgl64.Vec3{}
	}
	return out
}
