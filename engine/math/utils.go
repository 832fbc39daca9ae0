package math

import "golang.org/x/exp/constraints"

// Clamp limits v to [low, high]. low must not exceed high.
func Clamp[T constraints.Ordered](v, low, high T) T {
	switch {
	case v < low:
		return low
	case v > high:
		return high
	}
	return v
}
