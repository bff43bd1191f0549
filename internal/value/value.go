// Package value defines the runtime values of Nerve scripts and the
// operations the evaluator applies to them.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the type of a Value.
type Kind uint8

const (
	NullKind Kind = iota
	IntKind
	LongKind
	FloatKind
	DoubleKind
	BoolKind
	StringKind
	ListKind
	RangeKind
	TypeKind
)

var kindNames = [...]string{
	NullKind:   "Null",
	IntKind:    "Integer",
	LongKind:   "Long",
	FloatKind:  "Float",
	DoubleKind: "Double",
	BoolKind:   "Boolean",
	StringKind: "String",
	ListKind:   "List",
	RangeKind:  "Range",
	TypeKind:   "Type",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsNumeric reports whether k is one of the four number kinds.
func (k Kind) IsNumeric() bool {
	return k >= IntKind && k <= DoubleKind
}

// IsIntegral reports whether k is Integer or Long.
func (k Kind) IsIntegral() bool {
	return k == IntKind || k == LongKind
}

// Value is a runtime value.
type Value interface {
	Kind() Kind
	// String returns the form used by print and string templates.
	String() string
}

// Null is the absence of a value. Functions that finish without
// returning a value produce Null.
type Null struct{}

// None is the Null value.
var None Value = Null{}

type (
	Int    int32
	Long   int64
	Float  float32
	Double float64
	Bool   bool
	String string
	List   []Value
)

// Range is an inclusive integer range, written lo...hi.
type Range struct {
	Lo, Hi int64
	Long   bool // elements are Long rather than Integer
}

// Type is the value bound to a declared type name.
type Type struct {
	Name string
}

func (Null) Kind() Kind   { return NullKind }
func (Int) Kind() Kind    { return IntKind }
func (Long) Kind() Kind   { return LongKind }
func (Float) Kind() Kind  { return FloatKind }
func (Double) Kind() Kind { return DoubleKind }
func (Bool) Kind() Kind   { return BoolKind }
func (String) Kind() Kind { return StringKind }
func (List) Kind() Kind   { return ListKind }
func (Range) Kind() Kind  { return RangeKind }
func (Type) Kind() Kind   { return TypeKind }

func (Null) String() string     { return "null" }
func (v Int) String() string    { return strconv.FormatInt(int64(v), 10) }
func (v Long) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v Float) String() string  { return formatFloat(float64(v), 32) }
func (v Double) String() string { return formatFloat(float64(v), 64) }
func (v Bool) String() string   { return strconv.FormatBool(bool(v)) }
func (v String) String() string { return string(v) }
func (v Range) String() string  { return fmt.Sprintf("%d...%d", v.Lo, v.Hi) }
func (v Type) String() string   { return v.Name }

func (v List) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range v {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.String())
	}
	b.WriteByte(']')
	return b.String()
}

// formatFloat prints a floating point number so that it always reads as
// one: integral values keep a ".0", very large or small magnitudes use an
// exponent (1.0E10).
func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	if abs := math.Abs(f); abs == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(f, 'f', -1, bits)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'E', -1, bits), "E")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	n, _ := strconv.Atoi(exp)
	return mant + "E" + strconv.Itoa(n)
}

// IsNull reports whether v is Null. A nil Value counts as Null.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}
