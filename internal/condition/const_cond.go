package condition

import "github.com/growthbook/growthbook-golang/internal/value"

// True and False are constant conditions. The parser produces False for
// inputs it cannot evaluate, such as a non-array $in/$nin/$ini/$nini
// argument, a regex that does not compile or an unknown operator.
type True struct{}
type False struct{}

func (True) Eval(value.Value, SavedGroups) bool  { return true }
func (False) Eval(value.Value, SavedGroups) bool { return false }
