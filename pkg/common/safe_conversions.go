package common

import (
	"fmt"
	"math"
)

// SafeUint64ToInt64 safely converts uint64 to int64 with bounds checking.
// Track payload offsets are stored unsigned but seeking needs int64.
func SafeUint64ToInt64(value uint64) (int64, error) {
	if value > math.MaxInt64 {
		return 0, fmt.Errorf("value %d out of range for int64 (0-%d)", value, int64(math.MaxInt64))
	}
	return int64(value), nil
}

// SafeMulInt64 multiplies two non-negative int64 values, failing on overflow
func SafeMulInt64(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("cannot multiply negative values %d and %d", a, b)
	}
	if a != 0 && b > math.MaxInt64/a {
		return 0, fmt.Errorf("product of %d and %d overflows int64", a, b)
	}
	return a * b, nil
}
