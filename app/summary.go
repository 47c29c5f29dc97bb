package app

import (
	"github.com/montanaflynn/stats"

	"sheetdiff/domain/run"
)

// Summarize computes batch statistics over per-pair mismatch totals. Pairs
// that failed to compare are counted but left out of the distribution.
func Summarize(groups []*run.GroupResult) run.Summary {
	summary := run.Summary{Groups: len(groups)}

	var data []float64
	for _, g := range groups {
		for _, p := range g.Pairs {
			summary.Pairs++
			if p.Failed() {
				summary.FailedPairs++
				continue
			}
			if p.Differing {
				summary.DifferingPairs++
			}
			summary.TotalMismatches += p.TotalMismatches
			data = append(data, float64(p.TotalMismatches))
		}
	}

	if len(data) == 0 {
		return summary
	}

	// Errors only come back for empty input, ruled out above.
	summary.MeanMismatches, _ = stats.Mean(data)
	summary.MedianMismatches, _ = stats.Median(data)
	summary.MaxMismatches, _ = stats.Max(data)
	summary.P90Mismatches, _ = stats.Percentile(data, 90)
	summary.StdDevMismatches, _ = stats.StandardDeviation(data)

	return summary
}
