// Package mathx holds the small numeric helpers shared by the lamp packages.
package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
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

// Unit clamps v to [0, 1]. NaN maps to 0.
func Unit[T constraints.Float](v T) T {
	if v != v {
		return 0
	}
	return Clamp(v, 0, 1)
}

// InvLerp returns where v sits between lo and hi as a fraction clamped to
// [0, 1]. A degenerate range returns 0.
func InvLerp[T constraints.Integer | constraints.Float](v, lo, hi T) float32 {
	if hi == lo {
		return 0
	}
	return Unit(float32(v-lo) / float32(hi-lo))
}

// Abs for signed integers.
func Abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
