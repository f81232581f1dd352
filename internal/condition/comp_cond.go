package condition

import (
	"github.com/growthbook/growthbook-golang/internal/value"
)

// CompCond implements $eq/$ne/$lt/$lte/$gt/$gte using JS-style comparison
// semantics (jsCompare), not Go's native operator rules.
type CompCond struct {
	op       Operator
	expected value.Value
}

func NewCompCond(op Operator, arg any) CompCond {
	return CompCond{op, value.New(arg)}
}

func (c CompCond) Eval(actual value.Value, _ SavedGroups) bool {
	if c.op == eqOp {
		return value.Equal(c.expected, actual)
	}
	if c.op == neOp {
		return !value.Equal(c.expected, actual)
	}

	switch cmp := jsCompare(actual, c.expected); c.op {
	case ltOp:
		return cmp == -1
	case lteOp:
		return cmp == -1 || cmp == 0
	case gtOp:
		return cmp == 1
	case gteOp:
		return cmp == 1 || cmp == 0
	default:
		return false
	}
}

// jsCompare implements JS's relational comparison algorithm. Returns 0 for
// equal, 1 for a > b, -1 for a < b, and 2 when the two values cannot be
// compared (e.g. mismatched, non-numeric types).
func jsCompare(a, b value.Value) int {
	if value.IsNull(a) && value.IsNull(b) {
		return 0
	}
	sa, oka := a.(value.StrValue)
	sb, okb := b.(value.StrValue)
	if oka && okb {
		switch {
		case sa < sb:
			return -1
		case sa == sb:
			return 0
		default:
			return 1
		}
	}
	a, b = a.Cast(value.NumType), b.Cast(value.NumType)
	na, oka := a.(value.NumValue)
	nb, okb := b.(value.NumValue)
	if oka && okb {
		switch {
		case na < nb:
			return -1
		case na == nb:
			return 0
		default:
			return 1
		}
	}
	return 2
}
