package condition

import (
	"strings"

	"github.com/growthbook/growthbook-golang/internal/value"
)

func valueCompare(actual, expected value.Value) bool {
	switch expected.Type() {
	case value.StrType, value.NumType, value.BoolType:
		casted := actual.Cast(expected.Type())
		return value.Equal(expected, casted)
	case value.NullType:
		return value.IsNull(actual)
	default:
		return value.Equal(actual, expected)
	}
}

func isIn(fieldVal value.Value, expected value.ArrValue) bool {
	for _, ev := range expected {
		if valueCompare(fieldVal, ev) {
			return true
		}
	}
	return false
}

// isInCI is the case-insensitive counterpart of isIn, used by $ini/$nini.
// Non-string values fall back to the regular equality check.
func isInCI(fieldVal value.Value, expected value.ArrValue) bool {
	fs, fok := fieldVal.(value.StrValue)
	for _, ev := range expected {
		if es, eok := ev.(value.StrValue); fok && eok {
			if strings.EqualFold(string(fs), string(es)) {
				return true
			}
			continue
		}
		if value.Equal(fieldVal, ev) {
			return true
		}
	}
	return false
}
