// Package strata builds stratum-level counts and proportions from raw
// respondent records and raw benchmark tables. A stratum is one combination
// of categorical attribute values for a dimension; both the sample side and
// the benchmark side of a computation must use the same attribute order and
// the same standardized vocabulary.
package strata

import "strings"

// keySep joins attribute values inside a Key. The unit separator never
// appears in category labels.
const keySep = "\x1f"

// Key identifies one stratum: the dimension's attribute values joined in
// dimension column order. Keys are comparable and usable as map keys.
type Key string

// KeyOf builds a Key from ordered attribute values.
func KeyOf(values ...string) Key {
	return Key(strings.Join(values, keySep))
}

// Values splits a Key back into its ordered attribute values.
func (k Key) Values() []string {
	return strings.Split(string(k), keySep)
}

// Arity returns the number of attribute values in the key.
func (k Key) Arity() int {
	return strings.Count(string(k), keySep) + 1
}

// Label renders the key for humans, e.g. "Kenya × Female × 26-35".
func (k Key) Label() string {
	return strings.Join(k.Values(), " × ")
}

// Counts maps strata to exact integer respondent counts.
type Counts map[Key]int

// Total sums the counts over all strata.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Proportions maps strata to a non-negative share. Strata absent from the
// map implicitly hold zero; they are never "unknown".
type Proportions map[Key]float64

// Sum totals the proportions over all strata.
func (p Proportions) Sum() float64 {
	sum := 0.0
	for _, v := range p {
		sum += v
	}
	return sum
}

// Proportions converts counts to sample proportions using the counts' own
// total as the denominator. Returns nil for an empty count map.
func (c Counts) Proportions() Proportions {
	total := c.Total()
	if total == 0 {
		return nil
	}
	props := make(Proportions, len(c))
	for k, n := range c {
		props[k] = float64(n) / float64(total)
	}
	return props
}
