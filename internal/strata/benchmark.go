package strata

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/repkit/repscore/internal/config"
	"github.com/repkit/repscore/internal/dataset"
)

// SumTolerance is the maximum absolute deviation from 1.0 a resolved
// benchmark may carry before resolution fails.
const SumTolerance = 1e-6

// ResolveError reports a benchmark that could not be resolved for a
// dimension.
type ResolveError struct {
	Dimension string
	Reason    string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("benchmark for dimension %q: %s", e.Dimension, e.Reason)
}

// Resolver turns raw benchmark tables into normalized stratum proportion
// mappings for arbitrary dimensions. Table precedence is declaration order:
// the first table whose columns (after deriving region and continent from
// country) cover the dimension supplies it, and sources are never averaged.
type Resolver struct {
	cfg    *config.Config
	tables []*dataset.BenchmarkTable
}

// NewResolver builds a resolver over the given tables. The slice order
// defines the canonical source precedence per dimension.
func NewResolver(cfg *config.Config, tables []*dataset.BenchmarkTable) *Resolver {
	return &Resolver{cfg: cfg, tables: tables}
}

// Resolve produces the benchmark proportion mapping for a dimension. The
// source table's labels are standardized, region and continent are derived
// from country where requested, and finer strata are marginalized by
// summing. Resolution fails when no table covers the dimension or when the
// resolved proportions stray from 1.0 beyond SumTolerance; the resolver
// never renormalizes silently.
func (r *Resolver) Resolve(dim config.Dimension) (Proportions, error) {
	if err := r.cfg.ValidateDimension(dim); err != nil {
		return nil, err
	}

	table := r.selectTable(dim)
	if table == nil {
		return nil, &ResolveError{Dimension: dim.Name, Reason: "no benchmark table covers its columns"}
	}

	props, err := r.marginalize(table, dim)
	if err != nil {
		return nil, err
	}

	if sum := props.Sum(); math.Abs(sum-1.0) > SumTolerance {
		return nil, &ResolveError{
			Dimension: dim.Name,
			Reason:    fmt.Sprintf("proportions from table %q sum to %.8f", table.Name, sum),
		}
	}
	return props, nil
}

// SourceTable reports which table canonically supplies a dimension.
func (r *Resolver) SourceTable(dim config.Dimension) (string, bool) {
	table := r.selectTable(dim)
	if table == nil {
		return "", false
	}
	return table.Name, true
}

func (r *Resolver) selectTable(dim config.Dimension) *dataset.BenchmarkTable {
	for _, table := range r.tables {
		if covers(table, dim.Columns) {
			return table
		}
	}
	return nil
}

// covers reports whether a table can supply every dimension column, either
// natively or derived from country.
func covers(table *dataset.BenchmarkTable, columns []string) bool {
	native := make(map[string]bool, len(table.Columns))
	for _, c := range table.Columns {
		native[c] = true
	}
	for _, col := range columns {
		if native[col] {
			continue
		}
		if (col == "region" || col == "continent") && native["country"] {
			continue
		}
		return false
	}
	return true
}

func (r *Resolver) marginalize(table *dataset.BenchmarkTable, dim config.Dimension) (Proportions, error) {
	countryToRegion := r.cfg.CountryToRegion()
	countryToContinent := r.cfg.CountryToContinent()

	props := make(Proportions)
	dropped := 0
	values := make([]string, len(dim.Columns))

rows:
	for _, row := range table.Rows {
		for i, col := range dim.Columns {
			v, ok := row.Values[col]
			if !ok {
				// derive from country
				country := row.Values["country"]
				switch col {
				case "region":
					v, ok = countryToRegion[country], countryToRegion[country] != ""
				case "continent":
					v, ok = countryToContinent[country], countryToContinent[country] != ""
				}
				if !ok {
					dropped++
					continue rows
				}
			}
			if mapping := r.cfg.SegmentMapping(config.BenchmarkSource, col); mapping != nil {
				standard, ok := mapping[v]
				if !ok {
					dropped++
					continue rows
				}
				v = standard
			}
			values[i] = v
		}
		props[KeyOf(values...)] += row.Proportion
	}

	if dropped > 0 {
		slog.Warn("benchmark rows dropped during resolution",
			slog.String("dimension", dim.Name),
			slog.String("table", table.Name),
			slog.Int("rows", dropped))
	}
	if len(props) == 0 {
		return nil, &ResolveError{Dimension: dim.Name, Reason: fmt.Sprintf("table %q yielded no strata", table.Name)}
	}
	return props, nil
}
