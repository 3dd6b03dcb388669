package strata

import (
	"fmt"
	"sort"
)

// AlignmentError reports sample and benchmark mappings whose stratum keys
// cannot describe the same universe. It is raised rather than reconciled by
// guessing a join.
type AlignmentError struct {
	Reason string
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("stratum alignment: %s", e.Reason)
}

// Aligned is the union of sample and benchmark strata with explicit
// zero-fill on either side. Slices are parallel and ordered by key, so
// scoring functions iterate deterministically. N is the mappable sample
// total used as the denominator for sample proportions.
type Aligned struct {
	Columns []string
	Keys    []Key
	Sample  []float64
	Bench   []float64
	Counts  []int
	N       int
}

// Len returns the size of the stratum union.
func (a Aligned) Len() int { return len(a.Keys) }

// Align joins sample counts and benchmark proportions over the union of
// their strata. A stratum missing from one side contributes zero on that
// side; entries never silently disappear from the union. Keys of differing
// arity indicate incompatible dimensions and fail.
func Align(columns []string, counts Counts, total int, bench Proportions) (Aligned, error) {
	arity := len(columns)
	if arity == 0 {
		return Aligned{}, &AlignmentError{Reason: "no dimension columns"}
	}

	union := make(map[Key]struct{}, len(counts)+len(bench))
	for k := range counts {
		if k.Arity() != arity {
			return Aligned{}, &AlignmentError{
				Reason: fmt.Sprintf("sample key %q has %d values, dimension has %d columns", k.Label(), k.Arity(), arity),
			}
		}
		union[k] = struct{}{}
	}
	for k, q := range bench {
		if k.Arity() != arity {
			return Aligned{}, &AlignmentError{
				Reason: fmt.Sprintf("benchmark key %q has %d values, dimension has %d columns", k.Label(), k.Arity(), arity),
			}
		}
		if q < 0 {
			return Aligned{}, &AlignmentError{
				Reason: fmt.Sprintf("benchmark proportion for %q is negative", k.Label()),
			}
		}
		union[k] = struct{}{}
	}

	keys := make([]Key, 0, len(union))
	for k := range union {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	a := Aligned{
		Columns: columns,
		Keys:    keys,
		Sample:  make([]float64, len(keys)),
		Bench:   make([]float64, len(keys)),
		Counts:  make([]int, len(keys)),
		N:       total,
	}
	for i, k := range keys {
		n := counts[k]
		a.Counts[i] = n
		if total > 0 {
			a.Sample[i] = float64(n) / float64(total)
		}
		a.Bench[i] = bench[k]
	}
	return a, nil
}
