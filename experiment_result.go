package growthbook

// ExperimentResult is the outcome of running a single experiment for one
// user: which variation they landed in, how that was decided, and enough
// detail to reconstruct the decision for tracking/debugging.
type ExperimentResult struct {
	// InExperiment is false when the user was excluded (e.g. by coverage,
	// targeting, or namespace) and Value just echoes the control.
	InExperiment bool `json:"inExperiment"`
	// VariationId is the index into the experiment's Variations slice.
	VariationId int `json:"variationId"`
	// Value is the assigned variation's value.
	Value FeatureValue `json:"value"`
	// HashUsed is false when the variation was forced rather than
	// computed from a hash (e.g. via Force or a QA override).
	HashUsed      bool   `json:"hashUsed"`
	HashAttribute string `json:"hashAttribute"`
	HashValue     string `json:"hashValue"`
	// FeatureId is set when this experiment was triggered by a feature
	// rule rather than a direct RunExperiment call.
	FeatureId string `json:"featureId"`
	// Key is the assigned variation's unique key.
	Key string `json:"key"`
	// Bucket is the hash bucket (0 to 1) used to assign a variation, nil
	// when HashUsed is false.
	Bucket *float64 `json:"bucket"`
	Name   string   `json:"name"`
	// Passthrough marks a holdout-group variation.
	Passthrough bool `json:"passthrough"`
	// StickyBucketUsed is true when the variation came from a previously
	// persisted assignment rather than a fresh hash computation. It is also
	// true when a persisted assignment for an older bucket version excluded
	// the user from the experiment.
	StickyBucketUsed bool `json:"stickyBucketUsed"`
}
