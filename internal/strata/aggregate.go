package strata

import (
	"fmt"

	"github.com/repkit/repscore/internal/dataset"
)

// Aggregate groups respondent records into integer counts per stratum for
// the given dimension columns. A record contributes only when it carries a
// non-empty value for every column; partial records are excluded entirely,
// never imputed. The returned total counts only included records and is the
// denominator for every downstream proportion.
func Aggregate(rows []dataset.Record, columns []string) (Counts, int, error) {
	if len(columns) == 0 {
		return nil, 0, fmt.Errorf("strata: no dimension columns given")
	}

	counts := make(Counts)
	included := 0
	values := make([]string, len(columns))

rows:
	for _, row := range rows {
		for i, col := range columns {
			v, ok := row[col]
			if !ok || v == "" {
				continue rows
			}
			values[i] = v
		}
		counts[KeyOf(values...)]++
		included++
	}
	return counts, included, nil
}
