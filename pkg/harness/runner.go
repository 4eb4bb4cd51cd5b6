package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ErrNoFiles is returned when the given paths select no samples.
var ErrNoFiles = errors.New("no sample files found")

// Runner checks many samples concurrently. Every parse is independent, so
// samples are spread over Workers goroutines.
type Runner struct {
	Workers int
	Config  Config
	Logger  *slog.Logger
}

// Collect expands paths into a sorted list of sample files. Directories are
// walked recursively; hidden directories are skipped and files are filtered by
// extension. Files named explicitly are always included.
func Collect(paths []string, extensions []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", root, err)
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if hasExtension(path, extensions) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	sort.Strings(files)
	return files, nil
}

func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// Run collects the samples under paths and checks them. Results are in the
// order of the collected file list.
func (r *Runner) Run(ctx context.Context, paths []string) ([]Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	files, err := Collect(paths, r.Config.Extensions)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger.Debug("running samples", slog.Int("files", len(files)), slog.Int("workers", workers))

	results := make([]Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sample, err := Load(path)
			if err != nil {
				return err
			}
			results[i] = Check(sample, r.Config)
			logger.Debug("checked sample",
				slog.String("path", path),
				slog.String("status", results[i].Status.String()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
