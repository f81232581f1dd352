package growthbook

// VariationMeta carries the metadata for one experiment variation. It does
// not affect hashing, but Key is what sticky bucketing stores and matches to
// recover a variation, and Passthrough makes a feature rule skip the result.
type VariationMeta struct {
	Key string `json:"key"`
	// Name is a human-readable label, surfaced to tracking callbacks.
	Name string `json:"name"`
	// Passthrough marks a holdout-group variation: assigned but excluded
	// from the experiment's measured effect.
	Passthrough bool `json:"passthrough"`
}
