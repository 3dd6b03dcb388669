package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repkit/repscore/internal/strata"
)

func TestDeviationsSortedByAbsoluteGap(t *testing.T) {
	a := aligned(t,
		strata.Counts{"Kenya": 50, "Brazil": 30, "Japan": 20},
		strata.Proportions{"Kenya": 0.2, "Brazil": 0.35, "Japan": 0.45})

	devs := Deviations(a)
	require.Len(t, devs, 3)

	// Kenya: +30pp, Japan: -25pp, Brazil: -5pp
	assert.Equal(t, "Kenya", devs[0].Stratum)
	assert.Equal(t, "Japan", devs[1].Stratum)
	assert.Equal(t, "Brazil", devs[2].Stratum)
	assert.InDelta(t, 30.0, devs[0].Deviation, 1e-9)
	assert.InDelta(t, -25.0, devs[1].Deviation, 1e-9)
	assert.InDelta(t, 15.0, devs[0].TVDContribution, 1e-9)
}

func TestDeviationsZeroBenchmarkReported(t *testing.T) {
	// a sample-only stratum has no benchmark share, so relative
	// representation is undefined but the stratum still appears
	a := aligned(t,
		strata.Counts{"Kenya": 90, "Atlantis": 10},
		strata.Proportions{"Kenya": 1.0})

	devs := Deviations(a)
	require.Len(t, devs, 2)

	var atlantis *Deviation
	for i := range devs {
		if devs[i].Stratum == "Atlantis" {
			atlantis = &devs[i]
		}
	}
	require.NotNil(t, atlantis)
	assert.False(t, atlantis.RelativeDefined)
	assert.Equal(t, 10, atlantis.Count)
	assert.InDelta(t, 10.0, atlantis.Deviation, 1e-9)
}

func TestDeviationsRelativePct(t *testing.T) {
	a := aligned(t,
		strata.Counts{"Kenya": 30, "Brazil": 70},
		strata.Proportions{"Kenya": 0.2, "Brazil": 0.8})

	devs := Deviations(a)
	for _, d := range devs {
		require.True(t, d.RelativeDefined)
		if d.Stratum == "Kenya" {
			assert.InDelta(t, 50.0, d.RelativePct, 1e-9) // 0.3/0.2 - 1
		}
	}
}

func TestTopContributorsDirectionAndCumulative(t *testing.T) {
	a := aligned(t,
		strata.Counts{"Kenya": 50, "Brazil": 30, "Japan": 15, "Chile": 5},
		strata.Proportions{"Kenya": 0.25, "Brazil": 0.25, "Japan": 0.25, "Chile": 0.25})

	devs := Deviations(a)

	over := TopContributors(devs, ContributorFilter{Direction: Over})
	for _, d := range over {
		assert.Greater(t, d.Deviation, 0.0)
	}

	under := TopContributors(devs, ContributorFilter{Direction: Under, N: 1})
	require.Len(t, under, 1)
	assert.Equal(t, "Chile", under[0].Stratum)

	all := TopContributors(devs, ContributorFilter{})
	require.Len(t, all, 4)
	cumulative := 0.0
	for _, d := range all {
		cumulative += d.TVDContribution
		assert.InDelta(t, cumulative, d.CumulativeTVD, 1e-9)
	}
	// total cumulative TVD equals the full gap in percentage points
	gri, err := GRI(a)
	require.NoError(t, err)
	assert.InDelta(t, (1-gri)*100, all[len(all)-1].CumulativeTVD, 1e-9)
}

func TestTopContributorsMinBenchmark(t *testing.T) {
	a := aligned(t,
		strata.Counts{"Kenya": 99, "Atlantis": 1},
		strata.Proportions{"Kenya": 0.999, "Brazil": 0.001})

	filtered := TopContributors(Deviations(a), ContributorFilter{MinBenchmark: 0.01})
	require.Len(t, filtered, 1)
	assert.Equal(t, "Kenya", filtered[0].Stratum)
}
