package config

import (
	"fmt"
	"math"
)

func validateValue(option *Option, value interface{}) (interface{}, error) { //nolint:gocyclo
	switch v := value.(type) {
	case string:
		if option.OptType != OptTypeString {
			return nil, newInvalidValueError(option.Key, fmt.Sprintf("%T", v), "expected type "+getTypeName(option.OptType))
		}
		if option.compiledRegex != nil {
			if !option.compiledRegex.MatchString(v) {
				return nil, newInvalidValueError(option.Key, v, "validation regex failed")
			}
		}
		return v, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		if option.OptType != OptTypeInt {
			return nil, newInvalidValueError(option.Key, fmt.Sprintf("%T", v), "expected type "+getTypeName(option.OptType))
		}
		intValue, ok := toInt64(v)
		if !ok {
			return nil, newInvalidValueError(option.Key, v, "number out of range")
		}
		if option.compiledRegex != nil {
			if !option.compiledRegex.MatchString(fmt.Sprintf("%d", intValue)) {
				return nil, newInvalidValueError(option.Key, v, "validation regex failed")
			}
		}
		return intValue, nil
	case bool:
		if option.OptType != OptTypeBool {
			return nil, newInvalidValueError(option.Key, fmt.Sprintf("%T", v), "expected type "+getTypeName(option.OptType))
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%s: %w: %T", option.Key, ErrUnsupportedType, v)
	}
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), uint64(v) <= math.MaxInt64
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), v <= math.MaxInt64
	case float32:
		if v != float32(int64(v)) {
			return 0, false
		}
		return int64(v), true
	case float64:
		if v > math.MaxInt64 || v < math.MinInt64 || v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	}
	return 0, false
}
