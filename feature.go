package growthbook

// Feature is a flag definition: a DefaultValue plus an ordered list of
// Rules, any of which can override that default for a given evaluation
// context.
type Feature struct {
	DefaultValue FeatureValue  `json:"defaultValue"`
	Rules        []FeatureRule `json:"rules"`
}

// FeatureMap indexes Features by their string key, as served by the
// GrowthBook API and consumed by Client.EvalFeature.
type FeatureMap map[string]*Feature
