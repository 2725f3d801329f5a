package common

import "math"

// Lerp blends a toward b by t without clamping t.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to [lo, hi]. The bounds are swapped when lo > hi.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Repeat loops t into [0, length).
func Repeat(t, length float64) float64 {
	if length <= 0 {
		return 0
	}
	r := t - math.Floor(t/length)*length
	if r < 0 || r >= length {
		return 0
	}
	return r
}

// WrapAngle maps degrees into [0, 360).
func WrapAngle(deg float64) float64 {
	return Repeat(deg, 360)
}

// DeltaAngle returns the shortest signed difference target-current in
// degrees, in the range (-180, 180].
func DeltaAngle(current, target float64) float64 {
	d := Repeat(target-current, 360)
	if d > 180 {
		d -= 360
	}
	return d
}

// MoveTowards steps current toward target by at most maxDelta.
func MoveTowards(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	return current + math.Copysign(maxDelta, target-current)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
