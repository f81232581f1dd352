package condition

import (
	"github.com/growthbook/growthbook-golang/internal/value"
)

// ExistsCond implements $exists: true/false on whether the field is
// present (non-null), per the boolean truthiness of the operator's arg.
type ExistsCond struct {
	wantPresent bool
}

func NewExistsCond(arg any) ExistsCond {
	asBool := value.New(arg).Cast(value.BoolType)
	return ExistsCond{value.Equal(asBool, value.True())}
}

func (c ExistsCond) Eval(actual value.Value, _ SavedGroups) bool {
	if c.wantPresent {
		return !value.IsNull(actual)
	}
	return value.IsNull(actual)
}
