package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"pyrite/internal/bytecode"
)

// FileExt is the extension of encoded code object files.
const FileExt = ".pbc"

// FileResult pairs a translated module with the file it came from.
type FileResult struct {
	Path   string
	Result *Result
}

// listCodeFiles returns the sorted list of all *.pbc files under dir.
func listCodeFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, FileExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Sorted for a deterministic order.
	sort.Strings(files)
	return files, nil
}

// TranslateAll lowers every code object concurrently, one module per
// code object. Results keep the input order. jobs <= 0 means
// GOMAXPROCS.
func TranslateAll(ctx context.Context, codes []*bytecode.CodeObject, opts Options, jobs int) ([]*Result, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(codes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, code := range codes {
		i, code := i, code
		g.Go(func() error {
			res, err := Translate(gctx, code, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// TranslateDir reads and lowers every *.pbc file under dir in parallel.
func TranslateDir(ctx context.Context, dir string, opts Options, jobs int) ([]FileResult, error) {
	files, err := listCodeFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			code, err := bytecode.ReadFile(path)
			if err != nil {
				return err
			}
			res, err := Translate(gctx, code, opts)
			if err != nil {
				return err
			}
			results[i] = FileResult{Path: path, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
