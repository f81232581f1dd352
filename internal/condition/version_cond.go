package condition

import (
	"regexp"
	"strings"

	"github.com/growthbook/growthbook-golang/internal/value"
)

// VersionCond implements the $veq/$vne/$vgt/$vgte/$vlt/$vlte family:
// semver-ish string comparison where numeric segments are padded so that
// plain string ordering behaves like numeric ordering (so "10" sorts
// after "9").
type VersionCond struct {
	op       Operator
	expected string
}

func NewVersionCond(op Operator, arg any) VersionCond {
	return VersionCond{op, paddedVersionString(value.New(arg))}
}

func (c VersionCond) Eval(actual value.Value, _ SavedGroups) bool {
	got := paddedVersionString(actual)
	switch c.op {
	case veqOp:
		return got == c.expected
	case vneOp:
		return got != c.expected
	case vgtOp:
		return got > c.expected
	case vgteOp:
		return got >= c.expected
	case vltOp:
		return got < c.expected
	case vlteOp:
		return got <= c.expected
	default:
		return false
	}
}

var (
	replaceRe      = regexp.MustCompile(`(^v|\+.*$)`)
	versionSplitRe = regexp.MustCompile(`[-.]`)
	versionNumRe   = regexp.MustCompile(`^[0-9]+$`)
)

func paddedVersionString(input value.Value) string {
	var version string
	switch v := input.(type) {
	case value.NumValue, value.StrValue:
		version = v.String()
	}
	if version == "" {
		version = "0"
	}
	version = replaceRe.ReplaceAllString(version, "")
	parts := versionSplitRe.Split(version, -1)
	if len(parts) == 3 {
		parts = append(parts, "~")
	}
	for i, p := range parts {
		isNumber := versionNumRe.MatchString(p)
		if isNumber && len(p) < 5 {
			val := strings.TrimLeft(p, "0") // remove leading zeros
			parts[i] = strings.Repeat(" ", 5-len(val)) + val
		}
	}
	return strings.Join(parts, "-")
}
