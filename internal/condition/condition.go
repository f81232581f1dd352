package condition

import (
	"github.com/growthbook/growthbook-golang/internal/value"
)

// Condition is a single node of the compiled predicate tree: a leaf
// operator (equality, regex, $in, ...) or a combinator ($and/$or/$nor/$not)
// over other Conditions.
type Condition interface {
	Eval(value.Value, SavedGroups) bool
}

// evalAny reports whether any condition in cs matches. An empty list
// matches vacuously, matching Mongo's semantics for an empty $or clause.
func evalAny(cs []Condition, actual value.Value, groups SavedGroups) bool {
	if len(cs) == 0 {
		return true
	}
	for _, c := range cs {
		if c.Eval(actual, groups) {
			return true
		}
	}
	return false
}

// evalAll reports whether every condition in cs matches.
func evalAll(cs []Condition, actual value.Value, groups SavedGroups) bool {
	for _, c := range cs {
		if !c.Eval(actual, groups) {
			return false
		}
	}
	return true
}
