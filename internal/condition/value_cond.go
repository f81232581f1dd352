package condition

import (
	"strings"

	"github.com/growthbook/growthbook-golang/internal/value"
)

// ValueCond used when field compared with another value directly, without any operator
// Growthbook implementation casts field value to expected type in that case before comparison.
type ValueCond struct {
	expected value.Value
}

func NewValueCond(arg any) ValueCond {
	return ValueCond{value.New(arg)}
}

func (c ValueCond) Eval(actual value.Value, _ SavedGroups) bool {
	return valueCompare(actual, c.expected)
}

// ValueCondCI is the case-insensitive counterpart of ValueCond, used by $alli.
type ValueCondCI struct {
	expected value.Value
}

func NewValueCondCI(arg any) ValueCondCI {
	return ValueCondCI{value.New(arg)}
}

func (c ValueCondCI) Eval(actual value.Value, _ SavedGroups) bool {
	as, aok := actual.(value.StrValue)
	es, eok := c.expected.(value.StrValue)
	if aok && eok {
		return strings.EqualFold(string(as), string(es))
	}
	return valueCompare(actual, c.expected)
}
