// Package scorecard orchestrates representativeness scoring across the
// configured dimensions and assembles one result record per dimension plus
// a summary. Dimensions are computed independently: a failure in one is
// recorded on its entry and does not abort the others.
package scorecard

import (
	"fmt"

	"github.com/repkit/repscore/internal/config"
	"github.com/repkit/repscore/internal/dataset"
	"github.com/repkit/repscore/internal/scoring"
	"github.com/repkit/repscore/internal/simulation"
	"github.com/repkit/repscore/internal/strata"
)

// Entry is the immutable per-dimension result record.
type Entry struct {
	Dimension   string
	Columns     []string
	Description string

	SampleSize        int
	TotalStrata       int
	RelevantStrata    int
	RepresentedStrata int

	GRI       float64
	Diversity float64
	SRI       float64
	VWRS      float64

	HasMax              bool
	MaxGRI              float64
	MaxDiversity        float64
	GRIEfficiency       float64
	DiversityEfficiency float64

	Err error
}

// Summary averages scores over the successful entries.
type Summary struct {
	Dimensions int
	Failed     int
	GRI        float64
	Diversity  float64
	SRI        float64
	VWRS       float64
}

// Report is one full scorecard run.
type Report struct {
	Survey     string
	SampleRows int
	Entries    []Entry
	Summary    Summary
	Dropped    dataset.DropReport
}

// Options configures a scorecard run.
type Options struct {
	Extended    bool    // include extended dimensions
	Threshold   float64 // diversity relevance threshold, non-positive means 1/N
	IncludeMax  bool    // estimate max-possible scores per dimension
	Simulations int     // Monte Carlo trials for max scores
	Seed        int64
	Seeded      bool
	Workers     int
	Opinions    map[string]map[strata.Key]float64 // per-dimension opinion proportions for VWRS
	Progress    func(dimension string)
}

// Generator computes scorecards against a fixed configuration and set of
// benchmark tables.
type Generator struct {
	cfg      *config.Config
	resolver *strata.Resolver
}

// NewGenerator builds a generator. Benchmark table order defines the
// canonical source precedence.
func NewGenerator(cfg *config.Config, tables []*dataset.BenchmarkTable) *Generator {
	return &Generator{cfg: cfg, resolver: strata.NewResolver(cfg, tables)}
}

// Generate runs every configured dimension against standardized survey
// rows. Rows should already carry standardized labels (dataset.Standardize)
// and derived region/continent attributes (dataset.AddRegions); dropped-row
// counts from standardization travel on the report for the caller.
func (g *Generator) Generate(rows []dataset.Record, dropped dataset.DropReport, opts Options) *Report {
	report := &Report{
		SampleRows: len(rows),
		Dropped:    dropped,
	}

	dimensions := g.cfg.StandardScorecard()
	if opts.Extended {
		dimensions = g.cfg.AllDimensions()
	}

	for _, dim := range dimensions {
		if opts.Progress != nil {
			opts.Progress(dim.Name)
		}
		report.Entries = append(report.Entries, g.scoreDimension(rows, dim, opts))
	}

	report.Summary = summarize(report.Entries)
	return report
}

// ScoreDimension computes a single dimension's entry.
func (g *Generator) ScoreDimension(rows []dataset.Record, name string, opts Options) (Entry, error) {
	dim, ok := g.cfg.DimensionByName(name)
	if !ok {
		return Entry{}, fmt.Errorf("unknown dimension %q", name)
	}
	entry := g.scoreDimension(rows, dim, opts)
	return entry, entry.Err
}

// Align exposes the aligned stratum universe for a dimension, for deviation
// analysis and exports.
func (g *Generator) Align(rows []dataset.Record, name string) (strata.Aligned, error) {
	dim, ok := g.cfg.DimensionByName(name)
	if !ok {
		return strata.Aligned{}, fmt.Errorf("unknown dimension %q", name)
	}
	bench, err := g.resolver.Resolve(dim)
	if err != nil {
		return strata.Aligned{}, err
	}
	counts, total, err := strata.Aggregate(rows, dim.Columns)
	if err != nil {
		return strata.Aligned{}, err
	}
	return strata.Align(dim.Columns, counts, total, bench)
}

func (g *Generator) scoreDimension(rows []dataset.Record, dim config.Dimension, opts Options) Entry {
	entry := Entry{
		Dimension:   dim.Name,
		Columns:     dim.Columns,
		Description: dim.Description,
	}

	bench, err := g.resolver.Resolve(dim)
	if err != nil {
		entry.Err = err
		return entry
	}

	counts, total, err := strata.Aggregate(rows, dim.Columns)
	if err != nil {
		entry.Err = err
		return entry
	}
	entry.SampleSize = total

	aligned, err := strata.Align(dim.Columns, counts, total, bench)
	if err != nil {
		entry.Err = err
		return entry
	}
	entry.TotalStrata = len(bench)

	if entry.GRI, err = scoring.GRI(aligned); err != nil {
		entry.Err = err
		return entry
	}
	cov, err := scoring.DiversityScore(aligned, opts.Threshold)
	if err != nil {
		entry.Err = err
		return entry
	}
	entry.Diversity = cov.Score
	entry.RelevantStrata = cov.Relevant
	entry.RepresentedStrata = cov.Represented

	if entry.SRI, err = scoring.SRI(aligned); err != nil {
		entry.Err = err
		return entry
	}
	var opinions map[strata.Key]float64
	if opts.Opinions != nil {
		opinions = opts.Opinions[dim.Name]
	}
	if entry.VWRS, err = scoring.VWRS(aligned, opinions); err != nil {
		entry.Err = err
		return entry
	}

	if opts.IncludeMax {
		benchVals := make([]float64, 0, len(bench))
		for _, q := range bench {
			benchVals = append(benchVals, q)
		}
		result, err := simulation.MaxScores(benchVals, total, simulation.Options{
			Simulations: opts.Simulations,
			Seed:        opts.Seed,
			Seeded:      opts.Seeded,
			Workers:     opts.Workers,
		})
		if err != nil {
			entry.Err = err
			return entry
		}
		entry.HasMax = true
		entry.MaxGRI = result.GRI.Mean
		entry.MaxDiversity = result.Diversity.Mean
		entry.GRIEfficiency = scoring.EfficiencyRatio(entry.GRI, entry.MaxGRI)
		entry.DiversityEfficiency = scoring.EfficiencyRatio(entry.Diversity, entry.MaxDiversity)
	}
	return entry
}

func summarize(entries []Entry) Summary {
	var s Summary
	for _, e := range entries {
		if e.Err != nil {
			s.Failed++
			continue
		}
		s.Dimensions++
		s.GRI += e.GRI
		s.Diversity += e.Diversity
		s.SRI += e.SRI
		s.VWRS += e.VWRS
	}
	if s.Dimensions > 0 {
		n := float64(s.Dimensions)
		s.GRI /= n
		s.Diversity /= n
		s.SRI /= n
		s.VWRS /= n
	}
	return s
}
