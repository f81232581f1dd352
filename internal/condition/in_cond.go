package condition

import "github.com/growthbook/growthbook-golang/internal/value"

// InCond checks if value is in array
type InCond struct {
	expected      value.ArrValue
	caseInsensive bool
}

func NewInCond(arg value.ArrValue) InCond {
	return InCond{arg, false}
}

func NewNotInCond(arg value.ArrValue) Condition {
	cond := NewInCond(arg)
	return NotCond{cond}
}

// NewInCondCI builds a case-insensitive variant of $in, used for $ini.
func NewInCondCI(arg value.ArrValue) InCond {
	return InCond{arg, true}
}

// NewNotInCondCI builds a case-insensitive variant of $nin, used for $nini.
func NewNotInCondCI(arg value.ArrValue) Condition {
	return NotCond{NewInCondCI(arg)}
}

func (c InCond) Eval(actual value.Value, _ SavedGroups) bool {
	check := isIn
	if c.caseInsensive {
		check = isInCI
	}
	if arr, ok := actual.(value.ArrValue); ok {
		for _, v := range arr {
			if check(v, c.expected) {
				return true
			}
		}
		return false
	}
	return check(actual, c.expected)
}
