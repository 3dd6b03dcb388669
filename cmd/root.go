package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "repscore",
	Short: "Survey representativeness scoring",
	Long: `Compute representativeness metrics (GRI, Diversity Score, SRI, VWRS)
for a demographic sample against reference population benchmarks,
across configurable multi-attribute strata`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "config",
		"directory with dimensions.yaml, segments.yaml and regions.yaml")
}
