package cmd

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/repkit/repscore/internal/dataset"
	"github.com/repkit/repscore/internal/simulation"
)

var (
	benchmarkFile   string
	sampleSize      int
	sampleSizes     []int
	trialCount      int
	trialSeed       int64
	simulateWorkers int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Estimate maximum achievable scores for a benchmark",
	Long: `Estimate the expected best-achievable GRI and Diversity Score for a
benchmark at a given sample size, via Monte Carlo simulation of optimal
sample allocation.

Examples:
  repscore simulate --benchmark benchmark_country.csv --size 1000
  repscore simulate --benchmark benchmark_country.csv --sizes 100,500,1000,5000
  repscore simulate --benchmark benchmark_country.csv --size 1000 --seed 42`,
	Run: func(cmd *cobra.Command, args []string) {
		table, err := dataset.LoadBenchmark(benchmarkFile)
		if err != nil {
			log.Fatalf("Failed to load benchmark: %v", err)
		}
		bench := make([]float64, 0, len(table.Rows))
		for _, row := range table.Rows {
			bench = append(bench, row.Proportion)
		}

		sizes := sampleSizes
		if len(sizes) == 0 {
			sizes = []int{sampleSize}
		}

		workers := simulateWorkers
		if workers == 0 {
			workers = runtime.NumCPU()
		}

		bar := progressbar.NewOptions(trialCount*len(sizes),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetDescription("[cyan][reset] Running simulations..."),
			progressbar.OptionSetWidth(20),
		)
		opts := simulation.Options{
			Simulations: trialCount,
			Seed:        trialSeed,
			Seeded:      cmd.Flags().Changed("seed"),
			Workers:     workers,
			Progress:    func(int) { bar.Add(1) },
		}

		points, err := simulation.Curve(bench, sizes, opts)
		if err != nil {
			log.Fatalf("Simulation failed: %v", err)
		}
		bar.Finish()
		fmt.Fprintln(os.Stderr)

		var b strings.Builder
		b.WriteString(fmt.Sprintf("Benchmark: %s (%d strata)\n", table.Name, len(bench)))
		b.WriteString(fmt.Sprintf("%10s %10s %22s %22s\n", "N", "Relevant", "Max GRI (mean±std)", "Max Diversity"))
		b.WriteString(strings.Repeat("-", 68) + "\n")
		for _, p := range points {
			r := p.Result
			b.WriteString(fmt.Sprintf("%10d %10d %11.4f ± %-8.4f %11.4f ± %-8.4f\n",
				p.SampleSize, r.RelevantStrata,
				r.GRI.Mean, r.GRI.Std,
				r.Diversity.Mean, r.Diversity.Std))
			b.WriteString(fmt.Sprintf("%21s range [%.4f, %.4f]    range [%.4f, %.4f]\n",
				"", r.GRI.Min, r.GRI.Max, r.Diversity.Min, r.Diversity.Max))
		}
		fmt.Print(b.String())
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVarP(&benchmarkFile, "benchmark", "b", "",
		"benchmark CSV file (required)")
	simulateCmd.Flags().IntVarP(&sampleSize, "size", "n", 1000,
		"sample size to simulate")
	simulateCmd.Flags().IntSliceVar(&sampleSizes, "sizes", nil,
		"comma-separated ladder of sample sizes (overrides --size)")
	simulateCmd.Flags().IntVar(&trialCount, "simulations", 1000,
		"Monte Carlo trials per sample size")
	simulateCmd.Flags().Int64Var(&trialSeed, "seed", 0,
		"random seed for reproducible runs (default: system entropy)")
	simulateCmd.Flags().IntVar(&simulateWorkers, "workers", 0,
		"parallel trial workers (default: CPU count)")

	simulateCmd.MarkFlagRequired("benchmark")
}
