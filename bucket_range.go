package growthbook

import (
	"encoding/json"
	"log/slog"
)

// BucketRange is a half-open [Min, Max) slice of the unit interval that a
// variation owns once an experiment's weights and coverage are normalized.
type BucketRange struct {
	Min float64
	Max float64
}

// InRange reports whether hash bucket n falls inside this range. The upper
// bound is exclusive, matching the strict "bucket < coverage" rule used to
// decide rollout inclusion.
func (r *BucketRange) InRange(n float64) bool {
	return n >= r.Min && n < r.Max
}

// getBucketRanges turns an experiment's coverage and per-variation weights
// into contiguous bucket ranges, falling back to equal weights whenever the
// supplied weights are missing, mis-sized, or don't sum to ~1.
func (c *Client) getBucketRanges(numVariations int, coverage float64, weights []float64) []BucketRange {
	coverage = clampCoverage(coverage, c.logger)
	weights = normalizeWeights(weights, numVariations, c.logger)

	cumulative := 0.0
	ranges := make([]BucketRange, len(weights))
	for i, w := range weights {
		start := cumulative
		cumulative += w
		ranges[i] = BucketRange{Min: start, Max: start + coverage*w}
	}
	return ranges
}

func clampCoverage(coverage float64, logger *slog.Logger) float64 {
	switch {
	case coverage < 0:
		logger.Warn("Experiment coverage must be greater than or equal to 0")
		return 0
	case coverage > 1:
		logger.Warn("Experiment coverage must be less than or equal to 1")
		return 1
	default:
		return coverage
	}
}

func normalizeWeights(weights []float64, numVariations int, logger *slog.Logger) []float64 {
	if len(weights) == 0 {
		return getEqualWeights(numVariations)
	}
	if len(weights) != numVariations {
		logger.Warn("Experiment weights and variations arrays must be the same length")
		return getEqualWeights(numVariations)
	}

	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum < 0.99 || sum > 1.01 {
		logger.Warn("Experiment weights must add up to 1")
		return getEqualWeights(numVariations)
	}
	return weights
}

// chooseVariation returns the index of the bucket range containing n, or -1
// if n falls in a gap (e.g. outside the experiment's coverage).
func chooseVariation(n float64, ranges []BucketRange) int {
	for i := range ranges {
		if ranges[i].InRange(n) {
			return i
		}
	}
	return -1
}

// getEqualWeights splits the unit interval into numVariations equal shares.
func getEqualWeights(numVariations int) []float64 {
	if numVariations < 0 {
		numVariations = 0
	}
	equal := make([]float64, numVariations)
	for i := range equal {
		equal[i] = 1.0 / float64(numVariations)
	}
	return equal
}

func (br *BucketRange) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	err := json.Unmarshal(data, &pair)
	if err != nil {
		return err
	}
	br.Min = float64(pair[0])
	br.Max = float64(pair[1])
	return nil
}
