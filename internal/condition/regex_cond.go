package condition

import (
	"regexp"

	"github.com/growthbook/growthbook-golang/internal/value"
)

// RegexCond implements $regex/$regexi/$notRegex/$notRegexi: a compiled
// pattern tested against string fields only (non-strings never match).
type RegexCond struct {
	pattern *regexp.Regexp
}

func NewRegexCond(pattern *regexp.Regexp) RegexCond {
	return RegexCond{pattern}
}

func (c RegexCond) Eval(actual value.Value, _ SavedGroups) bool {
	s, ok := actual.(value.StrValue)
	if !ok {
		return false
	}
	return c.pattern.MatchString(string(s))
}
