package scorecard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repkit/repscore/internal/config"
	"github.com/repkit/repscore/internal/dataset"
)

func testConfig() *config.Config {
	return &config.Config{
		Standard: []config.Dimension{
			{Name: "Country", Columns: []string{"country"}},
			{Name: "Gender", Columns: []string{"gender"}},
			{Name: "Religion", Columns: []string{"religion"}}, // no benchmark table covers this
		},
		Extended: []config.Dimension{
			{Name: "Country x Gender", Columns: []string{"country", "gender"}},
		},
	}
}

func testTables() []*dataset.BenchmarkTable {
	return []*dataset.BenchmarkTable{
		{
			Name:    "country_gender",
			Columns: []string{"country", "gender"},
			Rows: []dataset.BenchmarkRow{
				{Values: map[string]string{"country": "Kenya", "gender": "Female"}, Proportion: 0.3},
				{Values: map[string]string{"country": "Kenya", "gender": "Male"}, Proportion: 0.3},
				{Values: map[string]string{"country": "Brazil", "gender": "Female"}, Proportion: 0.2},
				{Values: map[string]string{"country": "Brazil", "gender": "Male"}, Proportion: 0.2},
			},
		},
	}
}

func testRows() []dataset.Record {
	rows := make([]dataset.Record, 0, 100)
	add := func(n int, country, gender string) {
		for i := 0; i < n; i++ {
			rows = append(rows, dataset.Record{"country": country, "gender": gender})
		}
	}
	add(30, "Kenya", "Female")
	add(30, "Kenya", "Male")
	add(20, "Brazil", "Female")
	add(20, "Brazil", "Male")
	return rows
}

func TestGenerateIsolatesDimensionFailures(t *testing.T) {
	g := NewGenerator(testConfig(), testTables())
	report := g.Generate(testRows(), nil, Options{})

	require.Len(t, report.Entries, 3)

	byName := map[string]Entry{}
	for _, e := range report.Entries {
		byName[e.Dimension] = e
	}

	// Religion has no covering benchmark; the failure stays on its entry
	require.Error(t, byName["Religion"].Err)
	require.NoError(t, byName["Country"].Err)
	require.NoError(t, byName["Gender"].Err)

	assert.Equal(t, 2, report.Summary.Dimensions)
	assert.Equal(t, 1, report.Summary.Failed)
}

func TestGeneratePerfectSample(t *testing.T) {
	g := NewGenerator(testConfig(), testTables())
	report := g.Generate(testRows(), nil, Options{Extended: true})

	require.Len(t, report.Entries, 4)
	for _, e := range report.Entries {
		if e.Dimension == "Religion" {
			continue
		}
		require.NoError(t, e.Err, e.Dimension)
		assert.InDelta(t, 1.0, e.GRI, 1e-9, e.Dimension)
		assert.InDelta(t, 1.0, e.Diversity, 1e-9, e.Dimension)
		assert.Equal(t, 100, e.SampleSize, e.Dimension)
	}

	joint := report.Entries[3]
	assert.Equal(t, "Country x Gender", joint.Dimension)
	assert.Equal(t, 4, joint.TotalStrata)
}

func TestGenerateSummaryAveragesSuccessfulOnly(t *testing.T) {
	g := NewGenerator(testConfig(), testTables())

	// a skewed sample: all Kenyan women
	rows := make([]dataset.Record, 50)
	for i := range rows {
		rows[i] = dataset.Record{"country": "Kenya", "gender": "Female"}
	}
	report := g.Generate(rows, nil, Options{})

	var sum float64
	n := 0
	for _, e := range report.Entries {
		if e.Err != nil {
			continue
		}
		sum += e.GRI
		n++
	}
	require.Equal(t, 2, n)
	assert.InDelta(t, sum/2, report.Summary.GRI, 1e-12)
	assert.Less(t, report.Summary.GRI, 1.0)
}

func TestGenerateWithMaxScores(t *testing.T) {
	g := NewGenerator(testConfig(), testTables())
	report := g.Generate(testRows(), nil, Options{
		IncludeMax:  true,
		Simulations: 50,
		Seed:        3,
		Seeded:      true,
	})

	for _, e := range report.Entries {
		if e.Err != nil {
			continue
		}
		require.True(t, e.HasMax, e.Dimension)
		assert.Greater(t, e.MaxGRI, 0.0)
		assert.LessOrEqual(t, e.GRIEfficiency, 1.0)
		assert.Greater(t, e.GRIEfficiency, 0.0)
	}
}

func TestScoreDimension(t *testing.T) {
	g := NewGenerator(testConfig(), testTables())

	entry, err := g.ScoreDimension(testRows(), "Country", Options{})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, entry.GRI, 1e-9)

	_, err = g.ScoreDimension(testRows(), "Handedness", Options{})
	assert.Error(t, err)

	_, err = g.ScoreDimension(testRows(), "Religion", Options{})
	assert.Error(t, err)
}

func TestAlignForDeviations(t *testing.T) {
	g := NewGenerator(testConfig(), testTables())

	a, err := g.Align(testRows(), "Country")
	require.NoError(t, err)
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 100, a.N)

	_, err = g.Align(testRows(), "Handedness")
	assert.Error(t, err)
}

func TestGenerateProgressCallback(t *testing.T) {
	g := NewGenerator(testConfig(), testTables())

	var seen []string
	g.Generate(testRows(), nil, Options{Progress: func(dim string) { seen = append(seen, dim) }})
	assert.Equal(t, []string{"Country", "Gender", "Religion"}, seen)
}

func TestGenerateCarriesDropReport(t *testing.T) {
	g := NewGenerator(testConfig(), testTables())
	dropped := dataset.DropReport{"gender": 3}

	report := g.Generate(testRows(), dropped, Options{})
	assert.Equal(t, 3, report.Dropped.Total())
	assert.Equal(t, 100, report.SampleRows)
}
