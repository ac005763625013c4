package adapter

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	m "gooze.dev/pkg/polymut/internal/model"
)

// HintProvider ranks positions in a file for scheduling. Hints never change
// which mutations exist, only the order they run in.
type HintProvider interface {
	Suggest(ctx context.Context, file m.File, content []byte) ([]m.PriorityHint, error)
}

// NoopHintProvider returns no hints, which keeps FIFO order.
type NoopHintProvider struct{}

// Suggest implements HintProvider.
func (NoopHintProvider) Suggest(context.Context, m.File, []byte) ([]m.PriorityHint, error) {
	return nil, nil
}

// staticHintsFile is the on-disk shape of a hints file:
//
//	files:
//	  internal/calc/calc.go:
//	    - line: 12
//	      priority: 5
//	      reason: boundary check
type staticHintsFile struct {
	Files map[string][]m.PriorityHint `yaml:"files"`
}

// StaticHintProvider serves hints loaded from a YAML file. Keys are project
// relative slash paths or zglob patterns, matched like source globs.
type StaticHintProvider struct {
	files map[string][]m.PriorityHint
}

// LoadStaticHintProvider reads a hints file.
func LoadStaticHintProvider(file m.Path) (*StaticHintProvider, error) {
	// #nosec G304 - hints file is user configuration
	data, err := os.ReadFile(string(file))
	if err != nil {
		return nil, fmt.Errorf("read hints file: %w", err)
	}

	var parsed staticHintsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode hints file %s: %w", file, err)
	}

	return &StaticHintProvider{files: parsed.Files}, nil
}

// Suggest returns the hints listed for the file's short path and every
// matching glob key.
func (p *StaticHintProvider) Suggest(ctx context.Context, file m.File, _ []byte) ([]m.PriorityHint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	short := string(file.ShortPath)

	var hints []m.PriorityHint

	for key, fileHints := range p.files {
		matched := key == short
		if !matched {
			ok, err := MatchGlob(key, short)
			if err != nil {
				return nil, fmt.Errorf("invalid hints pattern %q: %w", key, err)
			}

			matched = ok
		}

		if matched {
			hints = append(hints, fileHints...)
		}
	}

	return hints, nil
}
