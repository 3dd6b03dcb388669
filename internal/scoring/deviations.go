package scoring

import (
	"math"
	"sort"

	"github.com/repkit/repscore/internal/strata"
)

// Deviation describes one stratum's contribution to the representativeness
// gap. Deviation and TVDContribution are in percentage points; RelativePct
// is the over/under-representation relative to the benchmark share and is
// undefined (RelativeDefined false) when the benchmark proportion is zero;
// such strata are reported, never dropped or coerced to zero.
type Deviation struct {
	Key             strata.Key
	Stratum         string
	Count           int
	SampleProp      float64
	BenchmarkProp   float64
	Deviation       float64
	TVDContribution float64
	RelativePct     float64
	RelativeDefined bool
	CumulativeTVD   float64
}

// Deviations computes per-stratum deviation records over an aligned
// universe, sorted by absolute deviation descending.
func Deviations(a strata.Aligned) []Deviation {
	devs := make([]Deviation, 0, a.Len())
	for i := range a.Keys {
		s, q := a.Sample[i], a.Bench[i]
		d := Deviation{
			Key:             a.Keys[i],
			Stratum:         a.Keys[i].Label(),
			Count:           a.Counts[i],
			SampleProp:      s,
			BenchmarkProp:   q,
			Deviation:       (s - q) * 100,
			TVDContribution: math.Abs(s-q) / 2 * 100,
		}
		if q > 0 {
			d.RelativePct = (s/q - 1) * 100
			d.RelativeDefined = true
		}
		devs = append(devs, d)
	}
	sort.Slice(devs, func(i, j int) bool {
		di, dj := math.Abs(devs[i].Deviation), math.Abs(devs[j].Deviation)
		if di != dj {
			return di > dj
		}
		return devs[i].Key < devs[j].Key
	})
	return devs
}

// Direction selects which side of the gap TopContributors reports.
type Direction int

const (
	Both Direction = iota
	Over
	Under
)

// ContributorFilter narrows the deviation list to the strata that matter
// for targeting.
type ContributorFilter struct {
	N            int       // number of strata to keep, 0 means all
	Direction    Direction // over-represented, under-represented, or both
	MinBenchmark float64   // drop strata below this benchmark share
}

// TopContributors returns the strata contributing most to the gap, with a
// running cumulative TVD in percentage points.
func TopContributors(devs []Deviation, filter ContributorFilter) []Deviation {
	out := make([]Deviation, 0, len(devs))
	for _, d := range devs {
		if d.BenchmarkProp < filter.MinBenchmark {
			continue
		}
		switch filter.Direction {
		case Over:
			if d.Deviation <= 0 {
				continue
			}
		case Under:
			if d.Deviation >= 0 {
				continue
			}
		}
		out = append(out, d)
		if filter.N > 0 && len(out) == filter.N {
			break
		}
	}
	cumulative := 0.0
	for i := range out {
		cumulative += out[i].TVDContribution
		out[i].CumulativeTVD = cumulative
	}
	return out
}
