package growthbook

import "github.com/growthbook/growthbook-golang/internal/condition"

// Experiment defines a single experiment: a set of variations, the
// bucketing scheme that assigns users to them, and the gating that
// determines whether a user participates at all.
type Experiment struct {
	Key                    string           `json:"key"`
	Variations             []FeatureValue   `json:"variations"`
	Weights                []float64        `json:"weights"`
	Active                 bool             `json:"active"`
	Coverage               *float64         `json:"coverage"`
	Condition              condition.Base   `json:"condition"`
	Namespace              *Namespace       `json:"namespace"`
	Force                  *int             `json:"force"`
	HashAttribute          string           `json:"hashAttribute"`
	FallbackAttribute      string           `json:"fallbackAttribute"`
	HashVersion            int              `json:"hashVersion"`
	Seed                   string           `json:"seed"`
	Name                   string           `json:"name"`
	Phase                  string           `json:"phase"`
	Ranges                 []BucketRange    `json:"ranges"`
	Meta                   []VariationMeta  `json:"meta"`
	Filters                []Filter         `json:"filters"`
	ParentConditions       []ParentCondition `json:"parentConditions"`
	BucketVersion          int              `json:"bucketVersion"`
	MinBucketVersion       int              `json:"minBucketVersion"`
	DisableStickyBucketing bool             `json:"disableStickyBucketing"`
}

// NewExperiment creates an experiment with default settings: active,
// but all other fields empty.
func NewExperiment(key string) *Experiment {
	return &Experiment{
		Key:    key,
		Active: true,
	}
}

// WithVariations set the feature variations for an experiment.
func (exp *Experiment) WithVariations(variations ...FeatureValue) *Experiment {
	exp.Variations = variations
	return exp
}

// WithRanges set the ranges for an experiment.
func (exp *Experiment) WithRanges(ranges ...BucketRange) *Experiment {
	exp.Ranges = ranges
	return exp
}

// WithMeta sets the meta information for an experiment.
func (exp *Experiment) WithMeta(meta ...VariationMeta) *Experiment {
	exp.Meta = meta
	return exp
}

// WithWeights set the weights for an experiment.
func (exp *Experiment) WithWeights(weights ...float64) *Experiment {
	exp.Weights = weights
	return exp
}

// WithSeed sets the hash seed for an experiment.
func (exp *Experiment) WithSeed(seed string) *Experiment {
	exp.Seed = seed
	return exp
}

// WithName sets the name for an experiment.
func (exp *Experiment) WithName(name string) *Experiment {
	exp.Name = name
	return exp
}

// WithPhase sets the phase for an experiment.
func (exp *Experiment) WithPhase(phase string) *Experiment {
	exp.Phase = phase
	return exp
}

// WithActive sets the enabled flag for an experiment.
func (exp *Experiment) WithActive(active bool) *Experiment {
	exp.Active = active
	return exp
}

// WithCoverage sets the coverage for an experiment.
func (exp *Experiment) WithCoverage(coverage float64) *Experiment {
	exp.Coverage = &coverage
	return exp
}

// WithCondition sets the condition for an experiment.
func (exp *Experiment) WithCondition(cond condition.Base) *Experiment {
	exp.Condition = cond
	return exp
}

// WithNamespace sets the namespace for an experiment.
func (exp *Experiment) WithNamespace(namespace *Namespace) *Experiment {
	exp.Namespace = namespace
	return exp
}

// WithForce sets the forced value index for an experiment.
func (exp *Experiment) WithForce(force int) *Experiment {
	exp.Force = &force
	return exp
}

// WithHashAttribute sets the hash attribute for an experiment.
func (exp *Experiment) WithHashAttribute(hashAttribute string) *Experiment {
	exp.HashAttribute = hashAttribute
	return exp
}

func (exp *Experiment) getActive() bool {
	return exp.Active
}

func (exp *Experiment) getCoverage() float64 {
	if exp.Coverage == nil {
		return 1
	}
	return *exp.Coverage
}

func (exp *Experiment) getSeed() string {
	if exp.Seed != "" {
		return exp.Seed
	}
	return exp.Key
}

// experimentFromFeatureRule builds the synthetic Experiment a rule's
// variations/weights/ranges/meta describe, so the same runExperiment
// machinery used by explicit experiments also drives experiment-shaped
// feature rules.
func experimentFromFeatureRule(featureId string, rule *FeatureRule) *Experiment {
	key := rule.Key
	if key == "" {
		key = featureId
	}
	return &Experiment{
		Key:                    key,
		Variations:             rule.Variations,
		Weights:                rule.Weights,
		Active:                 true,
		Coverage:               rule.Coverage,
		Condition:              rule.Condition,
		Namespace:              rule.Namespace,
		HashAttribute:          rule.HashAttribute,
		FallbackAttribute:      rule.FallbackAttribute,
		HashVersion:            rule.HashVersion,
		Seed:                   rule.Seed,
		Name:                   rule.Name,
		Phase:                  rule.Phase,
		Ranges:                 rule.Ranges,
		Meta:                   rule.Meta,
		Filters:                rule.Filters,
		ParentConditions:       rule.ParentConditions,
		BucketVersion:          rule.BucketVersion,
		MinBucketVersion:       rule.MinBucketVersion,
		DisableStickyBucketing: rule.DisableStickyBucketing,
	}
}
