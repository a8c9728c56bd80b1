package physics

import "math"

// Vertical is the heading of a vehicle standing nose-up.
const Vertical = math.Pi / 2

// WrapAngle returns the equivalent angle in (-pi, pi].
func WrapAngle(a float64) float64 {
	w := math.Atan2(math.Sin(a), math.Cos(a))
	if w <= -math.Pi {
		w += 2 * math.Pi
	}
	return w
}

// AngleError returns the shortest signed rotation from current to desired.
// Positive means desired lies counter-clockwise (rotate left).
func AngleError(desired, current float64) float64 {
	return WrapAngle(desired - current)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MapRange linearly maps v from [inLo, inHi] onto [outLo, outHi].
// Values outside the input range extrapolate.
func MapRange(v, inLo, inHi, outLo, outHi float64) float64 {
	if inHi == inLo {
		return outLo
	}
	return outLo + (v-inLo)*(outHi-outLo)/(inHi-inLo)
}
