package growthbook

import "context"

// ExperimentCallback is invoked whenever a user is included in a running
// experiment (result.InExperiment == true).
type ExperimentCallback func(ctx context.Context, exp *Experiment, result *ExperimentResult)

// FeatureUsageCallback is invoked for every feature evaluation, except when
// the result source is unknownFeature, prerequisite or cyclicPrerequisite.
type FeatureUsageCallback func(ctx context.Context, key string, result *FeatureResult)

// RefreshCallback is invoked after each successful repository refresh, once
// the new snapshot has been published.
type RefreshCallback func()
