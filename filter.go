package growthbook

// Filter represents a filter condition for experiment mutual exclusion
// (GrowthBook's "namespace v2" / traffic filter mechanism).
type Filter struct {
	Attribute   string        `json:"attribute"`
	Seed        string        `json:"seed"`
	HashVersion int           `json:"hashVersion"`
	Ranges      []BucketRange `json:"ranges"`
}
