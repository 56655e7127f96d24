package abi

import "math"

// CoerceUnsigned converts Go integers into an unsigned scalar of the given byte width.
// Negative values and values that do not fit are rejected.
func CoerceUnsigned(value any, width uint32) (uint64, bool) {
	var v uint64
	switch val := value.(type) {
	case uint8:
		v = uint64(val)
	case uint16:
		v = uint64(val)
	case uint32:
		v = uint64(val)
	case uint64:
		v = val
	case uint:
		v = uint64(val)
	case int8:
		if val < 0 {
			return 0, false
		}
		v = uint64(val)
	case int16:
		if val < 0 {
			return 0, false
		}
		v = uint64(val)
	case int32:
		if val < 0 {
			return 0, false
		}
		v = uint64(val)
	case int64:
		if val < 0 {
			return 0, false
		}
		v = uint64(val)
	case int:
		if val < 0 {
			return 0, false
		}
		v = uint64(val)
	default:
		return 0, false
	}
	if v > MaxUnsigned(width) {
		return 0, false
	}
	return v, true
}

// MaxUnsigned returns the largest value representable in width bytes.
func MaxUnsigned(width uint32) uint64 {
	if width >= 8 {
		return math.MaxUint64
	}
	return 1<<(8*width) - 1
}

// CoerceSigned converts Go integers into a signed scalar of the given byte width.
func CoerceSigned(value any, width uint32) (int64, bool) {
	var v int64
	switch val := value.(type) {
	case int8:
		v = int64(val)
	case int16:
		v = int64(val)
	case int32:
		v = int64(val)
	case int64:
		v = val
	case int:
		v = int64(val)
	case uint8:
		v = int64(val)
	case uint16:
		v = int64(val)
	case uint32:
		v = int64(val)
	case uint64:
		if val > math.MaxInt64 {
			return 0, false
		}
		v = int64(val)
	default:
		return 0, false
	}
	if width < 8 {
		limit := int64(1) << (8*width - 1)
		if v < -limit || v >= limit {
			return 0, false
		}
	}
	return v, true
}
