package common

import (
	"fmt"
	"math"
)

// SafeIntToUint32 safely converts int to uint32 with bounds checking
func SafeIntToUint32(value int) (uint32, error) {
	if value < 0 {
		return 0, fmt.Errorf("value %d is negative, cannot convert to uint32", value)
	}
	if value > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of range for uint32 (0-%d)", value, math.MaxUint32)
	}
	return uint32(value), nil
}

// SafeInt64ToInt safely converts int64 to int with bounds checking
func SafeInt64ToInt(value int64) (int, error) {
	if value < math.MinInt || value > math.MaxInt {
		return 0, fmt.Errorf("value %d out of range for int", value)
	}
	return int(value), nil
}
