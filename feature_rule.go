package growthbook

import "github.com/growthbook/growthbook-golang/internal/condition"

// FeatureRule overrides the default value of a Feature when its condition
// and gating match. A single shape covers all four rule kinds described by
// the wire format: presence of Force selects the force/rollout path,
// presence of Variations selects the experiment path, and
// ParentConditions gates on another feature's result (prerequisite).
type FeatureRule struct {
	Id                     string            `json:"id"`
	Condition              condition.Base    `json:"condition"`
	Force                  FeatureValue      `json:"force"`
	Variations             []FeatureValue    `json:"variations"`
	Weights                []float64         `json:"weights"`
	Key                    string            `json:"key"`
	HashAttribute          string            `json:"hashAttribute"`
	FallbackAttribute      string            `json:"fallbackAttribute"`
	HashVersion            int               `json:"hashVersion"`
	Range                  *BucketRange      `json:"range"`
	Coverage               *float64          `json:"coverage"`
	Namespace              *Namespace        `json:"namespace"`
	Ranges                 []BucketRange     `json:"ranges"`
	Meta                   []VariationMeta   `json:"meta"`
	Filters                []Filter          `json:"filters"`
	Seed                   string            `json:"seed"`
	Name                   string            `json:"name"`
	Phase                  string            `json:"phase"`
	ParentConditions       []ParentCondition `json:"parentConditions"`
	BucketVersion          int               `json:"bucketVersion"`
	MinBucketVersion       int               `json:"minBucketVersion"`
	DisableStickyBucketing bool              `json:"disableStickyBucketing"`
}
