package dataset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileMeta describes one discovered benchmark file.
type FileMeta struct {
	Path     string
	Size     int64
	Modified time.Time
}

// DiscoveryOptions filters benchmark file discovery.
type DiscoveryOptions struct {
	Recursive bool
	MinSize   int64
	MaxSize   int64
}

// DiscoverBenchmarks walks root for benchmark_*.csv tables. Results are
// sorted by path so table precedence is deterministic across runs.
func DiscoverBenchmarks(root string, options DiscoveryOptions) ([]FileMeta, error) {
	if root == "" {
		return nil, fmt.Errorf("benchmark directory cannot be empty")
	}
	stat, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", root)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	var files []FileMeta
	walkFunc := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if d.IsDir() {
			if path != root && !options.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		base := filepath.Base(path)
		if !strings.HasPrefix(base, "benchmark_") || !strings.EqualFold(filepath.Ext(base), ".csv") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("error getting file info for %s: %w", path, err)
		}
		if options.MinSize > 0 && info.Size() < options.MinSize {
			return nil
		}
		if options.MaxSize > 0 && info.Size() > options.MaxSize {
			return nil
		}
		files = append(files, FileMeta{
			Path:     path,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
		return nil
	}

	if err := filepath.WalkDir(root, walkFunc); err != nil {
		return nil, fmt.Errorf("directory walk error: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no benchmark files found in %s", root)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// LoadBenchmarkDir discovers and loads every benchmark table under root.
func LoadBenchmarkDir(root string, options DiscoveryOptions) ([]*BenchmarkTable, error) {
	files, err := DiscoverBenchmarks(root, options)
	if err != nil {
		return nil, err
	}
	tables := make([]*BenchmarkTable, 0, len(files))
	for _, file := range files {
		table, err := LoadBenchmark(file.Path)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}
