package strata

import "sort"

// SimplifyOptions controls how small strata are folded into an "Others"
// bucket. Exactly one of TopN, Threshold or MinCoverage is normally set;
// when several are set, TopN wins, then Threshold, then MinCoverage.
type SimplifyOptions struct {
	TopN        int     // keep the N largest strata
	Threshold   float64 // keep strata with proportion >= Threshold
	MinCoverage float64 // keep the largest strata until they cover this share
	OthersLabel string  // label for the grouped remainder, default "Others"
}

// Simplify folds small benchmark strata into a single bucket whose key
// repeats the others label across every dimension column. The total
// proportion is preserved exactly, so a simplified benchmark still passes
// the resolver's sum check.
func Simplify(bench Proportions, columns []string, opts SimplifyOptions) Proportions {
	if opts.OthersLabel == "" {
		opts.OthersLabel = "Others"
	}

	keys := make([]Key, 0, len(bench))
	for k := range bench {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if bench[keys[i]] != bench[keys[j]] {
			return bench[keys[i]] > bench[keys[j]]
		}
		return keys[i] < keys[j]
	})

	keep := len(keys)
	switch {
	case opts.TopN > 0:
		if opts.TopN < keep {
			keep = opts.TopN
		}
	case opts.Threshold > 0:
		keep = 0
		for _, k := range keys {
			if bench[k] >= opts.Threshold {
				keep++
			}
		}
	case opts.MinCoverage > 0:
		cumulative := 0.0
		keep = 0
		for _, k := range keys {
			if cumulative >= opts.MinCoverage {
				break
			}
			cumulative += bench[k]
			keep++
		}
	}

	simplified := make(Proportions, keep+1)
	others := 0.0
	for i, k := range keys {
		if i < keep {
			simplified[k] = bench[k]
		} else {
			others += bench[k]
		}
	}
	if others > 0 {
		values := make([]string, len(columns))
		for i := range values {
			values[i] = opts.OthersLabel
		}
		simplified[KeyOf(values...)] += others
	}
	return simplified
}
