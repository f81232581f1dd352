package growthbook

import "github.com/growthbook/growthbook-golang/internal/condition"

// ParentCondition gates evaluation of a feature or experiment on another
// feature's value: Condition is matched against the parent's value, and
// Gate turns a failed match into a final result with a nil value and the
// prerequisite source, rather than a plain fallthrough to the next rule.
type ParentCondition struct {
	Id        string         `json:"id"`
	Condition condition.Base `json:"condition"`
	Gate      bool           `json:"gate"`
}
