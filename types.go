package growthbook

// Attributes is an arbitrary JSON object containing user and request
// attributes used to evaluate features and experiments.
type Attributes map[string]interface{}

// ForcedVariationsMap forces an Experiment to always assign a specific
// variation. Useful for QA. Keys are the experiment key, values are the
// array index of the variation.
type ForcedVariationsMap map[string]int
