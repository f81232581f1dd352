package condition

import "github.com/growthbook/growthbook-golang/internal/value"

// InGroupCond implements $inGroup: membership test against a named saved
// group resolved at evaluation time, not at condition-build time (group
// contents can change between evaluations).
type InGroupCond struct {
	groupID string
}

func NewInGroupCond(groupID string) InGroupCond {
	return InGroupCond{groupID}
}

// NewNotInGroupCond implements $notInGroup as a negated $inGroup.
func NewNotInGroupCond(groupID string) Condition {
	return NotCond{NewInGroupCond(groupID)}
}

func (c InGroupCond) Eval(actual value.Value, groups SavedGroups) bool {
	members, ok := groups[c.groupID]
	if !ok {
		return false
	}
	return isIn(actual, members)
}
