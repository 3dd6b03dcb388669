// Package scoring computes representativeness scores over aligned sample
// and benchmark stratum proportions: GRI (1 - total variation distance),
// the Diversity coverage score, and the SRI and VWRS variants.
package scoring

import (
	"errors"
	"math"

	"github.com/repkit/repscore/internal/strata"
)

// ErrEmptySample is returned when a score requires at least one mappable
// respondent. An empty sample is a precondition violation, not a score.
var ErrEmptySample = errors.New("scoring: sample contains no mappable respondents")

// TVD computes the total variation distance between two proportion vectors
// of equal length: half the sum of absolute differences.
func TVD(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return 0.5 * sum
}

// GRI computes the Global Representativeness Index, 1 - TVD between the
// aligned sample and benchmark proportions. The result is 1.0 exactly when
// the distributions match on every stratum and 0.0 when their supports are
// disjoint.
func GRI(a strata.Aligned) (float64, error) {
	if a.N == 0 {
		return 0, ErrEmptySample
	}
	return 1 - TVD(a.Sample, a.Bench), nil
}

// Coverage is the detailed result of a Diversity Score computation.
type Coverage struct {
	Score       float64
	Threshold   float64
	Relevant    int
	Represented int
}

// DiversityScore computes the coverage rate of relevant strata: the share
// of strata whose benchmark proportion exceeds the threshold that hold at
// least one sampled respondent. A non-positive threshold selects the
// default 1/N. Representation is decided on raw counts, not proportions,
// so the represented/not-represented boundary is exact. With no relevant
// strata the score is vacuously 1.0.
func DiversityScore(a strata.Aligned, threshold float64) (Coverage, error) {
	if a.N == 0 {
		return Coverage{}, ErrEmptySample
	}
	if threshold <= 0 {
		threshold = 1.0 / float64(a.N)
	}

	cov := Coverage{Threshold: threshold}
	for i := range a.Keys {
		if a.Bench[i] > threshold {
			cov.Relevant++
			if a.Counts[i] > 0 {
				cov.Represented++
			}
		}
	}
	if cov.Relevant == 0 {
		cov.Score = 1.0
		return cov, nil
	}
	cov.Score = float64(cov.Represented) / float64(cov.Relevant)
	return cov, nil
}

// StrategicTargets computes the square-root allocation target for each
// benchmark proportion: s*_i = sqrt(q_i) / sum_j sqrt(q_j). The target sits
// between proportional and equal representation, boosting small strata.
func StrategicTargets(bench []float64) []float64 {
	targets := make([]float64, len(bench))
	total := 0.0
	for i, q := range bench {
		targets[i] = math.Sqrt(q)
		total += targets[i]
	}
	if total == 0 {
		return targets
	}
	for i := range targets {
		targets[i] /= total
	}
	return targets
}

// SRI computes the Strategic Representativeness Index: 1 - TVD between the
// sample proportions and the strategic square-root targets.
func SRI(a strata.Aligned) (float64, error) {
	if a.N == 0 {
		return 0, ErrEmptySample
	}
	return 1 - TVD(a.Sample, StrategicTargets(a.Bench)), nil
}

// VWRS computes the Variance-Weighted Representativeness Score. Each
// stratum's absolute deviation is weighted by its benchmark share times the
// standard error of an opinion proportion within the stratum, normalized so
// the weights sum to one. Strata with no respondents carry maximal standard
// error 1.0. Opinion proportions default to the stratum's sample share when
// no external variance data is supplied.
func VWRS(a strata.Aligned, opinions map[strata.Key]float64) (float64, error) {
	if a.N == 0 {
		return 0, ErrEmptySample
	}

	weightedError := 0.0
	totalWeight := 0.0
	for i := range a.Keys {
		p := a.Sample[i]
		if opinions != nil {
			if op, ok := opinions[a.Keys[i]]; ok {
				p = op
			}
		}
		se := 1.0
		if n := a.Counts[i]; n > 0 {
			se = math.Sqrt(p * (1 - p) / float64(n))
		}
		w := a.Bench[i] * se
		weightedError += w * math.Abs(a.Sample[i]-a.Bench[i])
		totalWeight += w
	}

	if totalWeight == 0 {
		// a fully represented sample with zero residual variance
		return 1.0, nil
	}
	return 1 - weightedError/totalWeight, nil
}

// EfficiencyRatio divides an achieved score by its simulated maximum,
// clamped to [0,1]. A non-positive maximum yields 0.
func EfficiencyRatio(actual, maxPossible float64) float64 {
	if maxPossible <= 0 {
		return 0
	}
	return math.Min(1.0, actual/maxPossible)
}

// Scorer is one scoring strategy over an aligned stratum universe. All
// scorers share the union/zero-fill alignment step and differ only in the
// per-stratum weighting.
type Scorer interface {
	Name() string
	Score(a strata.Aligned) (float64, error)
}

// GRIScorer scores with the plain Global Representativeness Index.
type GRIScorer struct{}

func (GRIScorer) Name() string { return "gri" }

func (GRIScorer) Score(a strata.Aligned) (float64, error) { return GRI(a) }

// DiversityScorer scores with the coverage rate of relevant strata.
type DiversityScorer struct {
	// Threshold for stratum relevance; non-positive means 1/N.
	Threshold float64
}

func (DiversityScorer) Name() string { return "diversity" }

func (s DiversityScorer) Score(a strata.Aligned) (float64, error) {
	cov, err := DiversityScore(a, s.Threshold)
	if err != nil {
		return 0, err
	}
	return cov.Score, nil
}

// SRIScorer scores against the strategic square-root target.
type SRIScorer struct{}

func (SRIScorer) Name() string { return "sri" }

func (SRIScorer) Score(a strata.Aligned) (float64, error) { return SRI(a) }

// VWRSScorer scores with variance weighting, optionally fed per-stratum
// opinion proportions from external variance data.
type VWRSScorer struct {
	Opinions map[strata.Key]float64
}

func (VWRSScorer) Name() string { return "vwrs" }

func (s VWRSScorer) Score(a strata.Aligned) (float64, error) { return VWRS(a, s.Opinions) }
