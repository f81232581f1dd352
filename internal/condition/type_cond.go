package condition

import "github.com/growthbook/growthbook-golang/internal/value"

// TypeCond implements $type: matches when the field's runtime type name
// equals the expected one (JS's typeof vocabulary, not Go's).
type TypeCond struct {
	want value.ValueType
}

func NewTypeCond(typeName string) TypeCond {
	return TypeCond{typeNameToValueType(typeName)}
}

func typeNameToValueType(typeName string) value.ValueType {
	switch typeName {
	case "string":
		return value.StrType
	case "number":
		return value.NumType
	case "boolean":
		return value.BoolType
	case "object":
		return value.ObjType
	case "array":
		return value.ArrType
	default:
		return value.NullType
	}
}

func (c TypeCond) Eval(actual value.Value, _ SavedGroups) bool {
	return actual.Type() == c.want
}
