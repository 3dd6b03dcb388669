package exporter

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repkit/repscore/internal/scorecard"
	"github.com/repkit/repscore/internal/scoring"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteCSVCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "table.csv")

	err := WriteCSV(path, []string{"a", "b"}, [][]string{{"1", "2"}, {"3", "4"}})
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"a", "b"}, rows[0])
	assert.Equal(t, []string{"3", "4"}, rows[2])
}

func TestScorecardCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scorecard.csv")
	report := &scorecard.Report{
		Entries: []scorecard.Entry{
			{
				Dimension: "Country", SampleSize: 100, TotalStrata: 2,
				RelevantStrata: 2, RepresentedStrata: 2,
				GRI: 0.9, Diversity: 1.0, SRI: 0.85, VWRS: 0.88,
				HasMax: true, MaxGRI: 0.97, MaxDiversity: 1.0,
				GRIEfficiency: 0.927835, DiversityEfficiency: 1.0,
			},
			{Dimension: "Religion", Err: errors.New("no benchmark table covers its columns")},
		},
	}

	require.NoError(t, ScorecardCSV(path, report))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "dimension", rows[0][0])

	country := rows[1]
	assert.Equal(t, "Country", country[0])
	assert.Equal(t, "100", country[1])
	assert.Equal(t, "0.900000", country[5])
	assert.Equal(t, "0.970000", country[9])
	assert.Equal(t, "", country[13])

	religion := rows[2]
	assert.Equal(t, "Religion", religion[0])
	assert.Equal(t, "", religion[1])
	assert.Equal(t, "no benchmark table covers its columns", religion[13])
}

func TestDeviationsCSVUndefinedRelative(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deviations.csv")
	devs := []scoring.Deviation{
		{
			Stratum: "Kenya", Count: 30, SampleProp: 0.3, BenchmarkProp: 0.2,
			Deviation: 10, TVDContribution: 5, RelativePct: 50, RelativeDefined: true,
			CumulativeTVD: 5,
		},
		{
			Stratum: "Atlantis", Count: 10, SampleProp: 0.1, BenchmarkProp: 0,
			Deviation: 10, TVDContribution: 5, RelativeDefined: false,
			CumulativeTVD: 10,
		},
	}

	require.NoError(t, DeviationsCSV(path, devs))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "50.000000", rows[1][6])
	assert.Equal(t, "inf", rows[2][6])
	assert.Equal(t, "10.000000", rows[2][7])
}
