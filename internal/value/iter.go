package value

import (
	"fmt"
	"iter"
	"unicode/utf8"
)

// Iterate returns the elements a for loop visits: each integer of a
// Range in order, each element of a List, or each character of a String.
func Iterate(v Value) (iter.Seq[Value], error) {
	switch v := v.(type) {
	case Range:
		return func(yield func(Value) bool) {
			for i := v.Lo; i <= v.Hi; i++ {
				var e Value = Int(int32(i))
				if v.Long {
					e = Long(i)
				}
				if !yield(e) || i == v.Hi {
					return
				}
			}
		}, nil

	case List:
		return func(yield func(Value) bool) {
			for _, e := range v {
				if !yield(e) {
					return
				}
			}
		}, nil

	case String:
		return func(yield func(Value) bool) {
			for _, r := range string(v) {
				if !yield(String(r)) {
					return
				}
			}
		}, nil
	}
	return nil, fmt.Errorf("%s (%s) is not iterable", v, v.Kind())
}

// Len returns the number of elements Iterate yields.
func Len(v Value) (int, error) {
	switch v := v.(type) {
	case Range:
		if v.Hi < v.Lo {
			return 0, nil
		}
		return int(v.Hi - v.Lo + 1), nil
	case List:
		return len(v), nil
	case String:
		return utf8.RuneCountInString(string(v)), nil
	}
	return 0, fmt.Errorf("%s (%s) has no length", v, v.Kind())
}
