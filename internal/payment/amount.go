package payment

import "math"

// ToMinorUnits converts a major-unit amount to integer minor currency units
// (cents for euro): multiply by 100 and round to the nearest unit.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
