package scorecard

import (
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func sampleReport() *Report {
	return &Report{
		Survey:     "survey.csv",
		SampleRows: 1500,
		Entries: []Entry{
			{
				Dimension: "Country", SampleSize: 1500, TotalStrata: 2,
				RelevantStrata: 2, RepresentedStrata: 2,
				GRI: 0.95, Diversity: 1.0, SRI: 0.91, VWRS: 0.94,
			},
			{Dimension: "Religion", Err: errors.New("no benchmark table covers its columns")},
		},
		Summary: Summary{Dimensions: 1, Failed: 1, GRI: 0.95, Diversity: 1.0, SRI: 0.91, VWRS: 0.94},
	}
}

func TestFormatText(t *testing.T) {
	color.NoColor = true

	out := FormatText(sampleReport())
	assert.Contains(t, out, "REPRESENTATIVENESS SCORECARD")
	assert.Contains(t, out, "Survey: survey.csv")
	assert.Contains(t, out, "1,500")
	assert.Contains(t, out, "Country")
	assert.Contains(t, out, "0.9500")
	assert.Contains(t, out, "error: no benchmark table covers its columns")
	assert.Contains(t, out, "1 dimension(s) failed")
}

func TestFormatTextDropWarnings(t *testing.T) {
	color.NoColor = true

	r := sampleReport()
	r.Dropped = map[string]int{"gender": 12}
	out := FormatText(r)
	assert.Contains(t, out, "dropped during standardization")
	assert.Contains(t, out, `12 rows dropped on unmappable "gender" values`)
}

func TestFormatMarkdown(t *testing.T) {
	out := FormatMarkdown(sampleReport())
	assert.True(t, strings.HasPrefix(out, "# Representativeness Scorecard"))
	assert.Contains(t, out, "| Country | 1500 | 0.9500 | 1.0000 | 0.9100 | 0.9400 | -- | -- |")
	assert.Contains(t, out, "| Religion | -- | error")
	assert.Contains(t, out, "**Overall (average)**")
}
