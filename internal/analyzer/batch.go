package analyzer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
)

// RunBatch analyzes paths on a worker pool and returns one FileMetrics per
// input path, sorted by path. Per-file isolation means workers share no
// state; a file that cannot be analyzed comes back with Error set instead
// of failing the batch.
func (a *Analyzer) RunBatch(ctx context.Context, paths []string, workers int) ([]*FileMetrics, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	work := make(chan string, len(paths))
	for _, p := range paths {
		work <- p
	}
	close(work)

	results := make(chan *FileMetrics, len(paths))
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range work {
				if err := ctx.Err(); err != nil {
					results <- &FileMetrics{Path: path, Error: err.Error()}
					continue
				}
				fm, err := a.AnalyzeFile(ctx, path)
				if err != nil {
					fm = &FileMetrics{Path: path, Error: err.Error()}
				}
				results <- fm
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]*FileMetrics, 0, len(paths))
	for fm := range results {
		out = append(out, fm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	a.log.Info("batch complete", "files", len(out), "workers", workers)
	return out, ctx.Err()
}

// DiscoverFiles walks the given roots and returns the Scala sources beneath
// them, sorted. Hidden directories, build output under target/ and any
// directory named in exclude are skipped; a root that is itself a file is
// kept as given.
func DiscoverFiles(roots []string, exclude ...string) ([]string, error) {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	var out []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			out = append(out, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == root {
					return nil
				}
				name := d.Name()
				if strings.HasPrefix(name, ".") || name == "target" || skip[name] {
					return filepath.SkipDir
				}
				return nil
			}
			if IsSupported(path) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	sort.Strings(out)
	return out, nil
}
