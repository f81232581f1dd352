package value

import (
	"strings"
)

// ArrValue is the dynamic-typing array, mirroring JS array semantics for
// Cast (an empty array casts to 0, a single-element array casts through its
// element, and a longer array is not a number).
type ArrValue []Value

func Arr(elems ...any) ArrValue {
	out := make(ArrValue, len(elems))
	for i, e := range elems {
		out[i] = New(e)
	}
	return out
}

func (a ArrValue) Type() ValueType {
	return ArrType
}

func IsArr(v Value) bool {
	return v.Type() == ArrType
}

func (a ArrValue) Cast(t ValueType) Value {
	switch t {
	case BoolType:
		return True()
	case NumType:
		return arrAsNum(a)
	case StrType:
		return Str(a.String())
	case ArrType:
		return a
	default:
		return Null()
	}
}

func arrAsNum(a ArrValue) Value {
	switch len(a) {
	case 0:
		return Num(0)
	case 1:
		return a[0].Cast(NumType)
	default:
		return Null()
	}
}

func (a ArrValue) String() string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = v.String()
	}
	return strings.Join(parts, ",")
}
