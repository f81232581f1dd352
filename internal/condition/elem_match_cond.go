package condition

import "github.com/growthbook/growthbook-golang/internal/value"

// ElemMatchCond implements $elemMatch: true when at least one element of
// the target array satisfies the nested condition.
type ElemMatchCond struct {
	elemCond Condition
}

func NewElemMatchCond(elemCond Condition) ElemMatchCond {
	return ElemMatchCond{elemCond}
}

func (c ElemMatchCond) Eval(actual value.Value, groups SavedGroups) bool {
	arr, ok := actual.(value.ArrValue)
	if !ok {
		return false
	}
	return anyElementMatches(c.elemCond, arr, groups)
}
