package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repkit/repscore/internal/config"
	"github.com/repkit/repscore/internal/dataset"
	"github.com/repkit/repscore/internal/exporter"
	"github.com/repkit/repscore/internal/scorecard"
	"github.com/repkit/repscore/internal/scoring"
)

var (
	devSurveyFile   string
	devSurveySource string
	devBenchmarkDir string
	devDimension    string
	devTop          int
	devDirection    string
	devMinBenchmark float64
	devOutputFile   string
)

var deviationsCmd = &cobra.Command{
	Use:   "deviations",
	Short: "Show the strata contributing most to the representativeness gap",
	Long: `Compute per-stratum deviations between sample and benchmark for one
dimension and list the top contributors to the GRI gap.

Examples:
  repscore deviations --survey participants.csv --data data/ --dimension "Country × Gender × Age"
  repscore deviations --survey participants.csv --data data/ --dimension Country --top 20 --direction under`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(configDir)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		tables, err := dataset.LoadBenchmarkDir(devBenchmarkDir, dataset.DiscoveryOptions{Recursive: true})
		if err != nil {
			log.Fatalf("Failed to load benchmarks: %v", err)
		}
		rows, err := dataset.LoadSurvey(devSurveyFile)
		if err != nil {
			log.Fatalf("Failed to load survey: %v", err)
		}

		standardized, _ := dataset.Standardize(rows, devSurveySource, cfg)
		standardized = dataset.AddRegions(standardized, cfg)

		generator := scorecard.NewGenerator(cfg, tables)
		aligned, err := generator.Align(standardized, devDimension)
		if err != nil {
			log.Fatalf("Failed to align strata: %v", err)
		}

		direction := scoring.Both
		switch devDirection {
		case "over":
			direction = scoring.Over
		case "under":
			direction = scoring.Under
		case "both":
		default:
			log.Fatalf("Unknown direction %q (want over, under or both)", devDirection)
		}

		devs := scoring.TopContributors(scoring.Deviations(aligned), scoring.ContributorFilter{
			N:            devTop,
			Direction:    direction,
			MinBenchmark: devMinBenchmark,
		})

		if devOutputFile != "" {
			if err := exporter.DeviationsCSV(devOutputFile, devs); err != nil {
				log.Fatalf("Failed to write deviations: %v", err)
			}
			fmt.Printf("Deviations saved to %s\n", devOutputFile)
			return
		}

		fmt.Printf("Top contributors for %s (N=%d)\n", devDimension, aligned.N)
		fmt.Printf("%-40s %8s %10s %10s %10s %10s\n",
			"Stratum", "Count", "Sample", "Benchmark", "Dev (pp)", "Cum. TVD")
		fmt.Println(strings.Repeat("-", 94))
		for _, d := range devs {
			name := d.Stratum
			if len(name) > 40 {
				name = name[:37] + "..."
			}
			fmt.Printf("%-40s %8d %10.4f %10.4f %+10.2f %10.2f\n",
				name, d.Count, d.SampleProp, d.BenchmarkProp, d.Deviation, d.CumulativeTVD)
		}
	},
}

func init() {
	rootCmd.AddCommand(deviationsCmd)

	deviationsCmd.Flags().StringVarP(&devSurveyFile, "survey", "s", "",
		"survey CSV with one row per respondent (required)")
	deviationsCmd.Flags().StringVar(&devSurveySource, "source", "global_dialogues",
		"survey source name used to pick segment mappings")
	deviationsCmd.Flags().StringVarP(&devBenchmarkDir, "data", "d", "",
		"directory with benchmark_*.csv tables (required)")
	deviationsCmd.Flags().StringVar(&devDimension, "dimension", "",
		"dimension name from dimensions.yaml (required)")
	deviationsCmd.Flags().IntVar(&devTop, "top", 10,
		"number of strata to show (0 for all)")
	deviationsCmd.Flags().StringVar(&devDirection, "direction", "both",
		"which deviations to show (over, under, both)")
	deviationsCmd.Flags().Float64Var(&devMinBenchmark, "min-benchmark", 0.0001,
		"ignore strata below this benchmark share")
	deviationsCmd.Flags().StringVarP(&devOutputFile, "output", "o", "",
		"write full deviation table as CSV instead of printing")

	deviationsCmd.MarkFlagRequired("survey")
	deviationsCmd.MarkFlagRequired("data")
	deviationsCmd.MarkFlagRequired("dimension")
}
