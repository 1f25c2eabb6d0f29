// Package scan walks an analysis root and reads the candidate files of one pass.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/huangsam/madu/schema"
	"github.com/sourcegraph/conc/pool"
)

// Options tunes a walk.
type Options struct {
	MaxFileSize int64 // 0 means unlimited
	Workers     int
}

// candidate is a path found by the walk and not yet read.
type candidate struct {
	abs  string
	rel  string
	info fs.FileInfo
}

// ReadEntries returns the files under root sorted by path, with the number of
// files that were skipped because they were too large or unreadable.
// A root that is a single file yields one entry named by its base name.
func ReadEntries(ctx context.Context, root string, opts Options) ([]schema.FileEntry, int, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot read root: %w", err)
	}

	var files []candidate
	skipped := 0
	if info.IsDir() {
		files, err = walk(ctx, root)
		if err != nil {
			return nil, 0, err
		}
	} else {
		files = []candidate{{abs: root, rel: filepath.Base(root), info: info}}
	}

	p := pool.NewWithResults[*schema.FileEntry]().
		WithContext(ctx).
		WithMaxGoroutines(max(opts.Workers, 1))
	for _, c := range files {
		if opts.MaxFileSize > 0 && c.info.Size() > opts.MaxFileSize {
			skipped++
			continue
		}
		p.Go(func(ctx context.Context) (*schema.FileEntry, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			content, err := os.ReadFile(c.abs)
			if err != nil {
				return nil, nil // unreadable files are counted below
			}
			return &schema.FileEntry{
				Path:    c.rel,
				Ext:     Ext(c.rel),
				Size:    int64(len(content)),
				Content: content,
				ModTime: c.info.ModTime(),
			}, nil
		})
	}
	read, err := p.Wait()
	if err != nil {
		return nil, 0, fmt.Errorf("reading files interrupted: %w", err)
	}

	entries := make([]schema.FileEntry, 0, len(read))
	for _, e := range read {
		if e == nil {
			skipped++
			continue
		}
		entries = append(entries, *e)
	}
	slices.SortFunc(entries, func(a, b schema.FileEntry) int {
		return strings.Compare(a.Path, b.Path)
	})
	return entries, skipped, nil
}

// walk lists the regular files under root, honoring .gitignore files and
// never descending into .git.
func walk(ctx context.Context, root string) ([]candidate, error) {
	var matcher gitignore.Matcher
	if patterns, err := gitignore.ReadPatterns(osfs.New(root), nil); err == nil && len(patterns) > 0 {
		matcher = gitignore.NewMatcher(patterns)
	}

	var files []candidate
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable directories are skipped
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" || ignored(matcher, rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || ignored(matcher, rel, false) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		files = append(files, candidate{abs: path, rel: filepath.ToSlash(rel), info: info})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func ignored(m gitignore.Matcher, rel string, isDir bool) bool {
	if m == nil {
		return false
	}
	return m.Match(strings.Split(filepath.ToSlash(rel), "/"), isDir)
}

// Ext returns the lower-case extension of path without the dot.
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
