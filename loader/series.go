package loader

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/shingyusik/scientific-analysis-agent/dataset"
)

var trailingNumber = regexp.MustCompile(`^(.*?)(\d+)$`)

// DetectSeries looks for sibling files forming a numbered time series with
// the given file ("data_000.vtk", "data_001.vtk", ...). It returns the
// sorted member paths, or nil when the file is not part of a series.
func DetectSeries(path string) []string {
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	m := trailingNumber.FindStringSubmatch(name)
	if m == nil {
		return nil
	}
	prefix, width := m[1], len(m[2])

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var series []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		candidate := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		cm := trailingNumber.FindStringSubmatch(candidate)
		if cm == nil || cm[1] != prefix || len(cm[2]) != width {
			continue
		}
		series = append(series, filepath.Join(dir, entry.Name()))
	}
	if len(series) < 2 {
		return nil
	}
	sort.Strings(series)
	return series
}

// LoadSeries loads all members of a time series concurrently, preserving
// order. The first failing file aborts the remaining loads.
func LoadSeries(ctx context.Context, paths []string) ([]*dataset.Dataset, error) {
	out := make([]*dataset.Dataset, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ds, _, err := Load(path)
			if err != nil {
				return err
			}
			out[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
