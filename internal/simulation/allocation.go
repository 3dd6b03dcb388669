// Package simulation estimates the best achievable GRI and Diversity
// scores for a benchmark at a given sample size via Monte Carlo trials of
// semi-stochastic optimal allocation.
package simulation

import (
	"fmt"
	"math"
	"math/rand"
)

// allocation tolerance mirrors the benchmark resolver's sum check.
const sumTolerance = 1e-6

// OptimalAllocation distributes sampleSize respondents across strata in
// proportion to bench. Strata whose ideal count rounds to at least one get
// the rounded count; smaller strata get one respondent with probability
// equal to their ideal fractional count, so every stratum keeps a nonzero
// inclusion chance that pure rounding would deny. A final random
// increment/decrement pass patches rounding drift so the counts sum to
// sampleSize exactly; the patch never drives a count negative.
func OptimalAllocation(bench []float64, sampleSize int, rng *rand.Rand) ([]int, error) {
	if sampleSize <= 0 {
		return nil, fmt.Errorf("simulation: sample size must be positive, got %d", sampleSize)
	}
	if len(bench) == 0 {
		return nil, fmt.Errorf("simulation: empty benchmark")
	}
	sum := 0.0
	for _, q := range bench {
		if q < 0 {
			return nil, fmt.Errorf("simulation: negative benchmark proportion %v", q)
		}
		sum += q
	}
	if math.Abs(sum-1.0) > sumTolerance {
		return nil, fmt.Errorf("simulation: benchmark proportions sum to %.8f", sum)
	}

	counts := make([]int, len(bench))
	total := 0
	for i, q := range bench {
		ideal := q * float64(sampleSize)
		if n := int(math.Round(ideal)); n > 0 {
			counts[i] = n
		} else if rng.Float64() < ideal {
			counts[i] = 1
		}
		total += counts[i]
	}

	// correction pass: ad hoc, not part of the statistical model
	for total < sampleSize {
		counts[rng.Intn(len(counts))]++
		total++
	}
	for total > sampleSize {
		idx := rng.Intn(len(counts))
		if counts[idx] > 0 {
			counts[idx]--
			total--
		}
	}
	return counts, nil
}
