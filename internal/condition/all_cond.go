package condition

import "github.com/growthbook/growthbook-golang/internal/value"

// AllConds implements $all: every listed condition must be satisfied by
// at least one element of the target array (each independently, not all
// by the same element).
type AllConds []Condition

func (cs AllConds) Eval(actual value.Value, groups SavedGroups) bool {
	arr, ok := actual.(value.ArrValue)
	if !ok {
		return false
	}
	for _, c := range cs {
		if !anyElementMatches(c, arr, groups) {
			return false
		}
	}
	return true
}

func anyElementMatches(c Condition, arr value.ArrValue, groups SavedGroups) bool {
	for _, v := range arr {
		if c.Eval(v, groups) {
			return true
		}
	}
	return false
}
