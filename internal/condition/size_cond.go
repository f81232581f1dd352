package condition

import "github.com/growthbook/growthbook-golang/internal/value"

// SizeCond implements $size: runs a nested numeric condition against the
// length of an array field rather than its contents.
type SizeCond struct {
	lengthCond Condition
}

func NewSizeCond(lengthCond Condition) SizeCond {
	return SizeCond{lengthCond}
}

func (c SizeCond) Eval(actual value.Value, groups SavedGroups) bool {
	arr, ok := actual.(value.ArrValue)
	if !ok {
		return false
	}
	return c.lengthCond.Eval(value.New(len(arr)), groups)
}
