// Package rating converts between the stored 1-10 integer scale and the
// 0.5-5 star scale shown to users.
//
// Storage uses integers so half-star resolution never touches floating-point
// persistence: display = stored/2, and the conversion round-trips for all
// ten stored values.
package rating

import "math"

const (
	// Min and Max bound the stored integer scale.
	Min = 1
	Max = 10
)

// Clamp coerces a stored rating into the closed range [Min, Max].
// Out-of-range input is coerced, not rejected.
func Clamp(stored int) int {
	if stored < Min {
		return Min
	}
	if stored > Max {
		return Max
	}
	return stored
}

// ToStars converts a stored 1-10 rating to its 0.5-5 star display value.
func ToStars(stored int) float64 {
	return float64(Clamp(stored)) / 2
}

// FromStars converts a 0.5-5 star input to the stored integer scale,
// rounding to the nearest half step and clamping to at least Min.
func FromStars(stars float64) int {
	return Clamp(int(math.Round(stars * 2)))
}
