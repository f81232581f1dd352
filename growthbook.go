// Package growthbook implements a GrowthBook-compatible feature flag
// evaluation engine: deterministic hashing, a MongoDB-style condition
// matcher, sticky bucketing for experiments, and a cached, auto-refreshing
// feature repository, wired together behind a single Client facade.
package growthbook
