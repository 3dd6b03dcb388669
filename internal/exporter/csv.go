// Package exporter writes scorecards and deviation tables as plain
// delimited files, the only persisted artifact format of the tool.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/repkit/repscore/internal/scorecard"
	"github.com/repkit/repscore/internal/scoring"
)

// WriteCSV writes headers plus records to path, creating parent
// directories as needed.
func WriteCSV(path string, headers []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	slog.Info("writing CSV file",
		slog.String("path", path),
		slog.Int("records", len(records)))

	writer := csv.NewWriter(file)
	defer writer.Flush()
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ScorecardCSV writes a scorecard report to path.
func ScorecardCSV(path string, r *scorecard.Report) error {
	headers := []string{
		"dimension", "sample_size", "total_strata", "relevant_strata", "represented_strata",
		"gri", "diversity", "sri", "vwrs", "max_gri", "max_diversity",
		"gri_efficiency", "diversity_efficiency", "error",
	}
	records := make([][]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		if e.Err != nil {
			records = append(records, []string{
				e.Dimension, "", "", "", "", "", "", "", "", "", "", "", "", e.Err.Error(),
			})
			continue
		}
		maxGRI, maxDiv, griEff, divEff := "", "", "", ""
		if e.HasMax {
			maxGRI = formatFloat(e.MaxGRI)
			maxDiv = formatFloat(e.MaxDiversity)
			griEff = formatFloat(e.GRIEfficiency)
			divEff = formatFloat(e.DiversityEfficiency)
		}
		records = append(records, []string{
			e.Dimension,
			strconv.Itoa(e.SampleSize),
			strconv.Itoa(e.TotalStrata),
			strconv.Itoa(e.RelevantStrata),
			strconv.Itoa(e.RepresentedStrata),
			formatFloat(e.GRI),
			formatFloat(e.Diversity),
			formatFloat(e.SRI),
			formatFloat(e.VWRS),
			maxGRI, maxDiv, griEff, divEff,
			"",
		})
	}
	return WriteCSV(path, headers, records)
}

// DeviationsCSV writes per-stratum deviation records to path. Strata with
// zero benchmark share report "inf" relative representation instead of
// being dropped.
func DeviationsCSV(path string, devs []scoring.Deviation) error {
	headers := []string{
		"stratum", "sample_count", "sample_proportion", "benchmark_proportion",
		"deviation_pp", "tvd_contribution_pp", "relative_pct", "cumulative_tvd_pp",
	}
	records := make([][]string, 0, len(devs))
	for _, d := range devs {
		relative := "inf"
		if d.RelativeDefined {
			relative = formatFloat(d.RelativePct)
		}
		records = append(records, []string{
			d.Stratum,
			strconv.Itoa(d.Count),
			formatFloat(d.SampleProp),
			formatFloat(d.BenchmarkProp),
			formatFloat(d.Deviation),
			formatFloat(d.TVDContribution),
			relative,
			formatFloat(d.CumulativeTVD),
		})
	}
	return WriteCSV(path, headers, records)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
