package value

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/you-not-fish/nerve/internal/syntax"
)

// ErrDivisionByZero is returned for integral / or % with a zero divisor,
// and for zero raised to a negative integral power.
var ErrDivisionByZero = errors.New("division by zero")

// OpError reports operands an operator cannot be applied to.
type OpError struct {
	Op   syntax.Token
	X, Y Value
	Msg  string
	Err  error // underlying cause, may be nil
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func (e *OpError) Error() string {
	return fmt.Sprintf("operator %s cannot be applied to %s (%s) and %s (%s): %s",
		e.Op, e.X, e.X.Kind(), e.Y, e.Y.Kind(), e.Msg)
}

// Binary applies a binary operator.
//
// Arithmetic keeps the kind of its operands when both have the same kind.
// Mixed integral operands compute as Long, and any mix involving a Float
// or Double computes as Double. + also concatenates two strings.
func Binary(op syntax.Token, x, y Value) (Value, error) {
	switch op {
	case syntax.Eql:
		return Bool(Equal(x, y)), nil
	case syntax.Neq:
		return Bool(!Equal(x, y)), nil
	case syntax.Lss, syntax.Gtr:
		c, err := Compare(x, y)
		if err != nil {
			return nil, &OpError{Op: op, X: x, Y: y, Msg: err.Error()}
		}
		if op == syntax.Lss {
			return Bool(c < 0), nil
		}
		return Bool(c > 0), nil
	case syntax.Range:
		return makeRange(x, y)
	case syntax.Add:
		if xs, ok := x.(String); ok {
			if ys, ok := y.(String); ok {
				return xs + ys, nil
			}
		}
	}

	kind, ok := promote(x, y)
	if !ok {
		return nil, &OpError{Op: op, X: x, Y: y, Msg: "operands must be numbers" + stringsHint(op)}
	}

	var v Value
	var err error
	if kind.IsIntegral() {
		var n int64
		n, err = integral(op, toInt64(x), toInt64(y))
		v = fromInt64(kind, n)
	} else {
		var f float64
		f, err = floating(op, toFloat64(x), toFloat64(y))
		v = fromFloat64(kind, f)
	}
	if err != nil {
		return nil, &OpError{Op: op, X: x, Y: y, Msg: err.Error(), Err: err}
	}
	return v, nil
}

func stringsHint(op syntax.Token) string {
	if op == syntax.Add {
		return " or strings"
	}
	return ""
}

func integral(op syntax.Token, a, b int64) (int64, error) {
	switch op {
	case syntax.Add:
		return a + b, nil
	case syntax.Sub:
		return a - b, nil
	case syntax.Mul:
		return a * b, nil
	case syntax.Div:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	case syntax.Rem:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a % b, nil
	case syntax.Pow:
		if b < 0 {
			if a == 0 {
				return 0, ErrDivisionByZero
			}
			return int64(math.Trunc(math.Pow(float64(a), float64(b)))), nil
		}
		r := int64(1)
		for ; b > 0; b >>= 1 {
			if b&1 == 1 {
				r *= a
			}
			a *= a
		}
		return r, nil
	}
	return 0, fmt.Errorf("unknown operator %s", op)
}

func floating(op syntax.Token, a, b float64) (float64, error) {
	switch op {
	case syntax.Add:
		return a + b, nil
	case syntax.Sub:
		return a - b, nil
	case syntax.Mul:
		return a * b, nil
	case syntax.Div:
		return a / b, nil
	case syntax.Rem:
		return math.Mod(a, b), nil
	case syntax.Pow:
		return math.Pow(a, b), nil
	}
	return 0, fmt.Errorf("unknown operator %s", op)
}

// promote returns the kind arithmetic on x and y computes in.
func promote(x, y Value) (Kind, bool) {
	xk, yk := x.Kind(), y.Kind()
	switch {
	case !xk.IsNumeric() || !yk.IsNumeric():
		return 0, false
	case xk == yk:
		return xk, true
	case xk.IsIntegral() && yk.IsIntegral():
		return LongKind, true
	}
	return DoubleKind, true
}

func toInt64(v Value) int64 {
	switch v := v.(type) {
	case Int:
		return int64(v)
	case Long:
		return int64(v)
	case Float:
		return int64(v)
	case Double:
		return int64(v)
	}
	return 0
}

func toFloat64(v Value) float64 {
	switch v := v.(type) {
	case Int:
		return float64(v)
	case Long:
		return float64(v)
	case Float:
		return float64(v)
	case Double:
		return float64(v)
	}
	return 0
}

func fromInt64(k Kind, n int64) Value {
	if k == IntKind {
		return Int(int32(n))
	}
	return Long(n)
}

func fromFloat64(k Kind, f float64) Value {
	if k == FloatKind {
		return Float(float32(f))
	}
	return Double(f)
}

func makeRange(x, y Value) (Value, error) {
	xk, yk := x.Kind(), y.Kind()
	if !xk.IsIntegral() || !yk.IsIntegral() {
		return nil, &OpError{Op: syntax.Range, X: x, Y: y, Msg: "range bounds must be Integer or Long"}
	}
	return Range{Lo: toInt64(x), Hi: toInt64(y), Long: xk == LongKind || yk == LongKind}, nil
}

// Equal reports whether x and y are equal. Numbers of different kinds are
// compared by value; other values of different kinds are never equal.
func Equal(x, y Value) bool {
	if IsNull(x) || IsNull(y) {
		return IsNull(x) && IsNull(y)
	}
	if kind, ok := promote(x, y); ok {
		if kind.IsIntegral() {
			return toInt64(x) == toInt64(y)
		}
		return toFloat64(x) == toFloat64(y)
	}
	if x.Kind() != y.Kind() {
		return false
	}

	switch x := x.(type) {
	case List:
		y := y.(List)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Range:
		y := y.(Range)
		return x.Lo == y.Lo && x.Hi == y.Hi
	case Bool:
		return x == y.(Bool)
	case String:
		return x == y.(String)
	case Type:
		return x == y.(Type)
	}
	return false
}

// Compare orders two numbers or two strings, returning -1, 0 or +1.
func Compare(x, y Value) (int, error) {
	if kind, ok := promote(x, y); ok {
		if kind.IsIntegral() {
			a, b := toInt64(x), toInt64(y)
			switch {
			case a < b:
				return -1, nil
			case a > b:
				return 1, nil
			}
			return 0, nil
		}
		a, b := toFloat64(x), toFloat64(y)
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		}
		return 0, nil
	}

	if xs, ok := x.(String); ok {
		if ys, ok := y.(String); ok {
			return strings.Compare(string(xs), string(ys)), nil
		}
	}
	return 0, errors.New("operands are not comparable")
}

// Truthy interprets v as a condition. Only Booleans are accepted unless
// numeric is set, in which case non-zero numbers are true as well.
func Truthy(v Value, numeric bool) (bool, error) {
	if b, ok := v.(Bool); ok {
		return bool(b), nil
	}
	if numeric && v.Kind().IsNumeric() {
		return toFloat64(v) != 0, nil
	}
	return false, fmt.Errorf("condition %s (%s) is not a Boolean", v, v.Kind())
}
