package value

import (
	"fmt"
	"math"
)

// FromGo converts a host value to a Value. Integers that fit in 32 bits
// become Integer, larger ones Long. Slices convert element-wise.
func FromGo(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return None, nil
	case Value:
		return v, nil
	case int:
		return fromInt(int64(v)), nil
	case int32:
		return Int(v), nil
	case int64:
		return fromInt(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows Long", v)
		}
		return fromInt(int64(v)), nil
	case float32:
		return Float(v), nil
	case float64:
		return Double(v), nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case []any:
		list := make(List, len(v))
		for i, e := range v {
			ev, err := FromGo(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			list[i] = ev
		}
		return list, nil
	}
	return nil, fmt.Errorf("unsupported host value %v (%T)", v, v)
}

func fromInt(n int64) Value {
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		return Int(int32(n))
	}
	return Long(n)
}

// FromLit converts a parsed constant to a Value.
func FromLit(v any) Value {
	switch v := v.(type) {
	case int32:
		return Int(v)
	case int64:
		return Long(v)
	case float32:
		return Float(v)
	case float64:
		return Double(v)
	case bool:
		return Bool(v)
	case string:
		return String(v)
	}
	return None
}
