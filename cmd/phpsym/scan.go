package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/phpsym/internal/config"
	"github.com/standardbeagle/phpsym/internal/debug"
	lcierrors "github.com/standardbeagle/phpsym/internal/errors"
	"github.com/standardbeagle/phpsym/internal/locator"
	"github.com/standardbeagle/phpsym/internal/security"
	"github.com/standardbeagle/phpsym/internal/types"
	"github.com/standardbeagle/phpsym/pkg/pathutil"
)

// files above this size are screened from their header before loading
const largeFileKB = 256

// ScanHit is one file that declares the scanned identifier
type ScanHit struct {
	Path string
	Line int
}

// ScanResult collects hits and per-file failures of a scan
type ScanResult struct {
	Files  int
	Hits   []ScanHit
	Errors []error
}

// matchesAny reports whether rel matches one of the doublestar patterns
func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}

// collectFiles walks root and returns the files selected by the scan
// patterns, in lexical order
func collectFiles(root string, scan config.Scan) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, ok := pathutil.MatchPath(root, path)
		if !ok || rel == "." {
			return nil
		}

		if d.IsDir() {
			if matchesAny(scan.Exclude, rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			if !scan.FollowSymlinks {
				return nil
			}
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		if matchesAny(scan.Include, rel) && !matchesAny(scan.Exclude, rel) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// hitLine returns the start line of a reflection that knows its location
func hitLine(refl types.Reflection) int {
	type located interface{ Line() int }
	if l, ok := refl.(located); ok {
		return l.Line()
	}
	return 0
}

// scanFiles resolves id in every file with at most workers files in flight.
// Per-file failures are collected rather than aborting the scan.
func scanFiles(ctx context.Context, cfg *config.Config, files []string, id types.Identifier, workers int) (*ScanResult, error) {
	builder := locator.NewBuilderFromConfig(cfg)
	validator := security.NewFileValidator(largeFileKB)
	result := &ScanResult{Files: len(files)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			hit, err := scanFile(cfg, builder, validator, path, id)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				debug.LogScan("%s: %v\n", path, err)
				result.Errors = append(result.Errors, err)
			case hit != nil:
				result.Hits = append(result.Hits, *hit)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(result.Hits, func(i, j int) bool {
		return result.Hits[i].Path < result.Hits[j].Path
	})
	return result, nil
}

func scanFile(cfg *config.Config, builder locator.IndexBuilder, validator *security.FileValidator, path string, id types.Identifier) (*ScanHit, error) {
	if err := validator.ValidateLargeFile(path); err != nil {
		return nil, lcierrors.NewSourceUnreadableError("validate", path, err)
	}

	r, err := newFileResolver(cfg, builder, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	refl, err := r.Resolve(id)
	if err != nil || refl == nil {
		return nil, err
	}
	return &ScanHit{Path: path, Line: hitLine(refl)}, nil
}

// scanCommand lists every file under ROOT declaring the identifier. Files
// that cannot be read or parsed are reported on stderr and do not stop the scan.
func scanCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("scan requires exactly one ROOT argument")
	}
	root, err := filepath.Abs(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to resolve root path %q: %w", c.Args().First(), err)
	}

	id, err := identifierFromFlags(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c, root)
	if err != nil {
		return err
	}
	if include := c.StringSlice("include"); len(include) > 0 {
		cfg.Scan.Include = include
	}
	if exclude := c.StringSlice("exclude"); len(exclude) > 0 {
		cfg.Scan.Exclude = append(cfg.Scan.Exclude, exclude...)
	}
	for _, pattern := range slices.Concat(cfg.Scan.Include, cfg.Scan.Exclude) {
		if !doublestar.ValidatePattern(pattern) {
			return lcierrors.NewConfigError("scan.pattern", pattern, fmt.Errorf("invalid glob pattern"))
		}
	}
	workers := cfg.Scan.Workers
	if w := c.Int("workers"); w > 0 {
		workers = w
	}

	start := time.Now()
	files, err := collectFiles(root, cfg.Scan)
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", root, err)
	}
	debug.LogScan("%d files selected under %s\n", len(files), root)

	result, err := scanFiles(c.Context, cfg, files, id, workers)
	if err != nil {
		return err
	}
	debug.LogScan("scanned %d files in %v, %d hits, %d errors\n",
		result.Files, time.Since(start), len(result.Hits), len(result.Errors))

	cwd, _ := os.Getwd()
	for _, hit := range result.Hits {
		fmt.Fprintf(c.App.Writer, "%s:%d\n", pathutil.ToRelative(hit.Path, cwd), hit.Line)
	}
	if multi := lcierrors.NewMultiError(result.Errors); multi.ErrorOrNil() != nil {
		fmt.Fprintf(c.App.ErrWriter, "%d files skipped: %v\n", len(result.Errors), multi)
	}

	if len(result.Hits) == 0 {
		return cli.Exit("", 1)
	}
	return nil
}
