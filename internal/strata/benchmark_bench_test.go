package strata

import (
	"fmt"
	"testing"

	"github.com/repkit/repscore/internal/dataset"
)

// BenchmarkAggregate measures stratum counting over a survey-sized input.
func BenchmarkAggregate(b *testing.B) {
	countries := []string{"Kenya", "Brazil", "Japan", "France", "India"}
	genders := []string{"Female", "Male"}
	ages := []string{"18-25", "26-35", "36-45", "46-55", "56-65", "65+"}

	rows := make([]dataset.Record, 50000)
	for i := range rows {
		rows[i] = dataset.Record{
			"country":   countries[i%len(countries)],
			"gender":    genders[i%len(genders)],
			"age_group": ages[i%len(ages)],
		}
	}
	columns := []string{"country", "gender", "age_group"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := Aggregate(rows, columns); err != nil {
			b.Fatalf("Aggregate failed: %v", err)
		}
	}
}

// BenchmarkAlign measures union alignment over a wide stratum universe.
func BenchmarkAlign(b *testing.B) {
	counts := make(Counts, 1000)
	bench := make(Proportions, 1000)
	for i := 0; i < 1000; i++ {
		k := KeyOf(fmt.Sprintf("stratum_%d", i))
		counts[k] = i % 50
		bench[k] = 0.001
	}
	total := counts.Total()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Align([]string{"stratum"}, counts, total, bench); err != nil {
			b.Fatalf("Align failed: %v", err)
		}
	}
}
