package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// BenchmarkRow is one stratum of a raw benchmark table.
type BenchmarkRow struct {
	Values     map[string]string
	Proportion float64
}

// BenchmarkTable is a raw benchmark table keyed by some set of attribute
// columns with a population share per combination.
type BenchmarkTable struct {
	Name    string
	Columns []string
	Rows    []BenchmarkRow
}

const (
	proportionColumn = "population_proportion"
	countColumn      = "population_count"
)

// LoadSurvey reads a survey CSV into records keyed by header name. Empty
// cells stay empty: missing-value handling happens at aggregation time.
func LoadSurvey(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open survey file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}

	var rows []Record
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		row := make(Record, len(headers))
		for i, value := range record {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadBenchmark reads a benchmark CSV. The table must carry either a
// population_proportion or a population_count column; counts are converted
// to proportions against the table total. All remaining columns are treated
// as stratum attributes.
func LoadBenchmark(path string) (*BenchmarkTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open benchmark file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}

	valueCol := -1
	fromCounts := false
	var columns []string
	for i, h := range headers {
		switch h {
		case proportionColumn:
			valueCol = i
		case countColumn:
			valueCol = i
			fromCounts = true
		default:
			columns = append(columns, h)
		}
	}
	if valueCol < 0 {
		return nil, fmt.Errorf("benchmark %s has neither %s nor %s column",
			filepath.Base(path), proportionColumn, countColumn)
	}

	table := &BenchmarkTable{
		Name:    tableName(path),
		Columns: columns,
	}

	var total float64
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[valueCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("benchmark %s: bad numeric value %q: %w",
				table.Name, record[valueCol], err)
		}
		if value < 0 {
			return nil, fmt.Errorf("benchmark %s: negative population value %v", table.Name, value)
		}
		values := make(map[string]string, len(columns))
		for i, h := range headers {
			if i == valueCol || i >= len(record) {
				continue
			}
			values[h] = strings.TrimSpace(record[i])
		}
		table.Rows = append(table.Rows, BenchmarkRow{Values: values, Proportion: value})
		total += value
	}

	if fromCounts {
		if total <= 0 {
			return nil, fmt.Errorf("benchmark %s: population counts sum to %v", table.Name, total)
		}
		for i := range table.Rows {
			table.Rows[i].Proportion /= total
		}
	}
	return table, nil
}

// tableName strips the benchmark_ prefix and extension from a file path, so
// data/processed/benchmark_country_religion.csv names the table
// "country_religion".
func tableName(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.TrimPrefix(name, "benchmark_")
}
