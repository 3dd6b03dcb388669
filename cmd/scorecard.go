package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/repkit/repscore/internal/config"
	"github.com/repkit/repscore/internal/dataset"
	"github.com/repkit/repscore/internal/exporter"
	"github.com/repkit/repscore/internal/scorecard"
)

var (
	surveyFile       string
	surveySource     string
	benchmarkDir     string
	extended         bool
	includeMax       bool
	simulations      int
	simulationSeed   int64
	diversityThresh  float64
	outputFormat     string
	outputFile       string
	scorecardWorkers int
)

var scorecardCmd = &cobra.Command{
	Use:   "scorecard",
	Short: "Compute the representativeness scorecard for a survey",
	Long: `Compute GRI, Diversity, SRI and VWRS for every configured dimension
of a survey sample against benchmark population tables.

Examples:
  repscore scorecard --survey participants.csv --data data/processed/
  repscore scorecard --survey participants.csv --data data/ --extended --max-possible
  repscore scorecard --survey participants.csv --data data/ --format csv --output scorecard.csv`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(configDir)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		tables, err := dataset.LoadBenchmarkDir(benchmarkDir, dataset.DiscoveryOptions{Recursive: true})
		if err != nil {
			log.Fatalf("Failed to load benchmarks: %v", err)
		}

		rows, err := dataset.LoadSurvey(surveyFile)
		if err != nil {
			log.Fatalf("Failed to load survey: %v", err)
		}

		standardized, dropped := dataset.Standardize(rows, surveySource, cfg)
		standardized = dataset.AddRegions(standardized, cfg)

		dimensions := len(cfg.StandardScorecard())
		if extended {
			dimensions = len(cfg.AllDimensions())
		}
		bar := progressbar.NewOptions(dimensions,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetDescription("[cyan][reset] Scoring dimensions..."),
			progressbar.OptionSetWidth(20),
			progressbar.OptionShowCount(),
		)

		generator := scorecard.NewGenerator(cfg, tables)
		report := generator.Generate(standardized, dropped, scorecard.Options{
			Extended:    extended,
			Threshold:   diversityThresh,
			IncludeMax:  includeMax,
			Simulations: simulations,
			Seed:        simulationSeed,
			Seeded:      cmd.Flags().Changed("seed"),
			Workers:     scorecardWorkers,
			Progress:    func(string) { bar.Add(1) },
		})
		bar.Finish()
		fmt.Fprintln(os.Stderr)
		report.Survey = surveyFile

		switch outputFormat {
		case "csv":
			path := outputFile
			if path == "" {
				path = "scorecard.csv"
			}
			if err := exporter.ScorecardCSV(path, report); err != nil {
				log.Fatalf("Failed to write scorecard: %v", err)
			}
			fmt.Printf("Scorecard saved to %s\n", path)
		case "markdown":
			writeOut(scorecard.FormatMarkdown(report))
		default:
			writeOut(scorecard.FormatText(report))
		}
	},
}

func writeOut(s string) {
	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(s), 0644); err != nil {
			log.Fatalf("Failed to write output file %s: %v", outputFile, err)
		}
		fmt.Printf("Results saved to %s\n", outputFile)
		return
	}
	fmt.Print(s)
}

func init() {
	rootCmd.AddCommand(scorecardCmd)

	scorecardCmd.Flags().StringVarP(&surveyFile, "survey", "s", "",
		"survey CSV with one row per respondent (required)")
	scorecardCmd.Flags().StringVar(&surveySource, "source", "global_dialogues",
		"survey source name used to pick segment mappings")
	scorecardCmd.Flags().StringVarP(&benchmarkDir, "data", "d", "",
		"directory with benchmark_*.csv tables (required)")
	scorecardCmd.Flags().BoolVar(&extended, "extended", false,
		"include extended dimensions beyond the standard scorecard")
	scorecardCmd.Flags().BoolVar(&includeMax, "max-possible", false,
		"estimate max-possible scores and efficiency ratios via simulation")
	scorecardCmd.Flags().IntVar(&simulations, "simulations", 1000,
		"Monte Carlo trials per dimension for --max-possible")
	scorecardCmd.Flags().Int64Var(&simulationSeed, "seed", 0,
		"random seed for reproducible simulations (default: system entropy)")
	scorecardCmd.Flags().Float64Var(&diversityThresh, "threshold", 0,
		"diversity relevance threshold (default: 1/N)")
	scorecardCmd.Flags().IntVar(&scorecardWorkers, "workers", 0,
		"parallel simulation workers (default: 1)")
	scorecardCmd.Flags().StringVarP(&outputFormat, "format", "f", "text",
		"output format (text, markdown, csv)")
	scorecardCmd.Flags().StringVarP(&outputFile, "output", "o", "",
		"output file (default: stdout)")

	scorecardCmd.MarkFlagRequired("survey")
	scorecardCmd.MarkFlagRequired("data")
}
