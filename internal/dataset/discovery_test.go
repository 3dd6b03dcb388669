package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populateBenchmarkDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"benchmark_gender.csv":  "gender,population_proportion\nFemale,0.5\nMale,0.5\n",
		"benchmark_country.csv": "country,population_proportion\nKenya,0.6\nBrazil,0.4\n",
		"survey.csv":            "country\nKenya\n",
		"notes.txt":             "not a table",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "benchmark_age.csv"),
		[]byte("age_group,population_proportion\n18-25,1.0\n"), 0644))
	return dir
}

func TestDiscoverBenchmarksSortedByPath(t *testing.T) {
	dir := populateBenchmarkDir(t)

	files, err := DiscoverBenchmarks(dir, DiscoveryOptions{})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "benchmark_country.csv", filepath.Base(files[0].Path))
	assert.Equal(t, "benchmark_gender.csv", filepath.Base(files[1].Path))
}

func TestDiscoverBenchmarksRecursive(t *testing.T) {
	dir := populateBenchmarkDir(t)

	files, err := DiscoverBenchmarks(dir, DiscoveryOptions{Recursive: true})
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestDiscoverBenchmarksErrors(t *testing.T) {
	_, err := DiscoverBenchmarks("", DiscoveryOptions{})
	assert.Error(t, err)

	_, err = DiscoverBenchmarks(filepath.Join(t.TempDir(), "absent"), DiscoveryOptions{})
	assert.Error(t, err)

	empty := t.TempDir()
	_, err = DiscoverBenchmarks(empty, DiscoveryOptions{})
	assert.Error(t, err)
}

func TestLoadBenchmarkDir(t *testing.T) {
	dir := populateBenchmarkDir(t)

	tables, err := LoadBenchmarkDir(dir, DiscoveryOptions{})
	require.NoError(t, err)
	require.Len(t, tables, 2)
	// table order follows path order, which fixes resolver precedence
	assert.Equal(t, "country", tables[0].Name)
	assert.Equal(t, "gender", tables[1].Name)
}
