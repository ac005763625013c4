// Package domain contains the mutation testing engine: source indexing,
// mutation discovery, selection, execution and aggregation.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/mattn/go-zglob"

	"gooze.dev/pkg/polymut/internal/adapter"
	m "gooze.dev/pkg/polymut/internal/model"
)

// defaultExcludes are applied to every walk before user globs.
var defaultExcludes = []string{
	"**/*_test.go",
	"**/*.pb.go",
	"**/*_gen.go",
	"**/zz_generated*",
	"**/*.d.ts",
	"**/*.test.*",
	"**/*.spec.*",
	"**/*.min.js",
	"**/*.generated.*",
	"**/__tests__/**",
}

// defaultSkipDirs are never descended into.
var defaultSkipDirs = []string{"node_modules", "vendor", "dist", "build", ".git"}

var generatedHeader = regexp.MustCompile(`(?m)^// Code generated .* DO NOT EDIT\.$`)

// IndexArgs selects the files of a run.
type IndexArgs struct {
	// Paths use Go conventions: dir/... is recursive, dir is flat, a file is itself.
	Paths   []m.Path
	Include []string
	Exclude []string
	// SkipDirs lists extra directory names to ignore, such as state and reports.
	SkipDirs []string
}

// SourceIndex enumerates the files mutations are discovered in.
type SourceIndex interface {
	// ProjectRoot resolves the project root from the first input path.
	ProjectRoot(paths []m.Path) (m.Path, error)
	// Sources lists matching files under root sorted by short path.
	Sources(ctx context.Context, root m.Path, args IndexArgs) ([]m.Source, error)
}

type sourceIndex struct {
	adapter.SourceFSAdapter
}

// NewSourceIndex creates a SourceIndex on top of the filesystem adapter.
func NewSourceIndex(fsAdapter adapter.SourceFSAdapter) SourceIndex {
	return &sourceIndex{SourceFSAdapter: fsAdapter}
}

func (si *sourceIndex) ProjectRoot(paths []m.Path) (m.Path, error) {
	start := m.Path(".")
	if len(paths) > 0 {
		start, _ = splitPattern(paths[0])
	}

	root, err := si.FindProjectRoot(start)
	if err != nil {
		slog.Error("Failed to find project root", "path", start, "error", err)
		return "", fmt.Errorf("find project root: %w", err)
	}

	return root, nil
}

func (si *sourceIndex) Sources(ctx context.Context, root m.Path, args IndexArgs) ([]m.Source, error) {
	paths := args.Paths
	if len(paths) == 0 {
		paths = []m.Path{"./..."}
	}

	skip := make(map[string]bool, len(defaultSkipDirs)+len(args.SkipDirs))
	for _, dir := range append(append([]string{}, defaultSkipDirs...), args.SkipDirs...) {
		skip[dir] = true
	}

	found := map[m.Path]m.Source{}

	for _, pattern := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := si.collect(root, pattern, args, skip, found); err != nil {
			return nil, err
		}
	}

	if len(found) == 0 {
		return nil, m.ErrNoSources
	}

	sources := make([]m.Source, 0, len(found))
	for _, source := range found {
		sources = append(sources, source)
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Origin.ShortPath < sources[j].Origin.ShortPath
	})

	return sources, nil
}

func (si *sourceIndex) collect(root, pattern m.Path, args IndexArgs, skip map[string]bool, found map[m.Path]m.Source) error {
	base, recursive := splitPattern(pattern)

	abs, err := filepath.Abs(string(base))
	if err != nil {
		return fmt.Errorf("resolve %s: %w", pattern, err)
	}

	info, err := si.FileInfo(m.Path(abs))
	if err != nil {
		slog.Error("Invalid source path", "path", pattern, "error", err)
		return fmt.Errorf("invalid path %s: %w", pattern, err)
	}

	if !info.IsDir() {
		// An explicitly named file bypasses the default exclusions.
		return si.add(root, abs, args, false, found)
	}

	return si.Walk(m.Path(abs), recursive, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			name := info.Name()
			if path != abs && (skip[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}

			return nil
		}

		return si.add(root, path, args, true, found)
	})
}

func (si *sourceIndex) add(root m.Path, path string, args IndexArgs, applyDefaults bool, found map[m.Path]m.Source) error {
	lang := m.LanguageForPath(m.Path(path))
	if lang == m.LanguageUnknown {
		return nil
	}

	rel, err := si.RelPath(root, m.Path(path))
	if err != nil {
		return fmt.Errorf("relative path of %s: %w", path, err)
	}

	short := filepath.ToSlash(string(rel))

	if applyDefaults && matchesAnyGlob(defaultExcludes, short) {
		return nil
	}

	if len(args.Include) > 0 && !matchesAnyGlob(args.Include, short) {
		return nil
	}

	if matchesAnyGlob(args.Exclude, short) {
		return nil
	}

	content, err := si.ReadFile(m.Path(path))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if applyDefaults && generatedHeader.Match(content) {
		slog.Debug("Skipping generated file", "path", short)
		return nil
	}

	found[m.Path(path)] = m.Source{
		Origin: &m.File{
			ShortPath: m.Path(short),
			FullPath:  m.Path(path),
			Hash:      adapter.HashContent(content),
		},
		Language: lang,
	}

	return nil
}

// splitPattern turns dir/... into (dir, true) and anything else into (path, false).
func splitPattern(pattern m.Path) (m.Path, bool) {
	p := filepath.ToSlash(string(pattern))

	switch {
	case p == "...":
		return ".", true
	case strings.HasSuffix(p, "/..."):
		base := strings.TrimSuffix(p, "/...")
		if base == "" {
			base = "/"
		}

		return m.Path(filepath.FromSlash(base)), true
	}

	return pattern, false
}

// matchesAnyGlob matches slash paths against zglob patterns.
func matchesAnyGlob(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if globMatch(pattern, path) {
			return true
		}
	}

	return false
}

func globMatch(pattern, path string) bool {
	matched, err := adapter.MatchGlob(pattern, path)
	if err != nil {
		slog.Warn("Invalid glob pattern", "pattern", pattern, "error", err)
		return false
	}

	return matched
}

// ValidateGlobs reports every pattern zglob cannot compile.
func ValidateGlobs(patterns []string) error {
	var errs []error

	for _, pattern := range patterns {
		if _, err := zglob.Match(pattern, ""); err != nil {
			errs = append(errs, fmt.Errorf("invalid glob %q: %w", pattern, err))
		}
	}

	return errors.Join(errs...)
}
