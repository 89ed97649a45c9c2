package math

import (
	m "math"

	"golang.org/x/exp/constraints"
)

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Max returns the largest of the given values.
func Max[T constraints.Ordered](first T, rest ...T) T {
	out := first
	for _, v := range rest {
		if v > out {
			out = v
		}
	}
	return out
}

// AlignUp rounds value up to the next multiple of alignment. An alignment of 0 or 1 is a no-op.
func AlignUp[T constraints.Unsigned](value, alignment T) T {
	if alignment <= 1 {
		return value
	}
	if rem := value % alignment; rem != 0 {
		return value + alignment - rem
	}
	return value
}

func Sqrt(x float32) float32 {
	return float32(m.Sqrt(float64(x)))
}
