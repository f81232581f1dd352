package condition

import "github.com/growthbook/growthbook-golang/internal/value"

// AndConds is the $and combinator: every child condition must match.
type AndConds []Condition

func (cs AndConds) Eval(actual value.Value, groups SavedGroups) bool {
	return evalAll(cs, actual, groups)
}

// OrConds is the $or combinator: at least one child condition must match.
type OrConds []Condition

func (cs OrConds) Eval(actual value.Value, groups SavedGroups) bool {
	return evalAny(cs, actual, groups)
}

// NorConds is the $nor combinator: no child condition may match.
type NorConds []Condition

func (cs NorConds) Eval(actual value.Value, groups SavedGroups) bool {
	return !evalAny(cs, actual, groups)
}

// NotCond is the $not combinator: negates a single child condition.
type NotCond struct {
	cond Condition
}

func (c NotCond) Eval(actual value.Value, groups SavedGroups) bool {
	return !c.cond.Eval(actual, groups)
}
