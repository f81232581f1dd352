package condition

import (
	"strings"

	"github.com/growthbook/growthbook-golang/internal/value"
)

// FieldCond steers evaluation to a dotted-path field of an object before
// applying the nested condition, e.g. {"user.plan": {"$eq": "pro"}}.
type FieldCond struct {
	path []string
	cond Condition
}

func NewFieldCond(dottedPath string, cond Condition) FieldCond {
	return FieldCond{strings.Split(dottedPath, "."), cond}
}

func (c FieldCond) Eval(actual value.Value, groups SavedGroups) bool {
	obj, ok := actual.(value.ObjValue)
	if !ok {
		return false
	}
	return c.cond.Eval(obj.Path(c.path...), groups)
}
