package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"gooze.dev/pkg/polymut/internal/adapter"
	"gooze.dev/pkg/polymut/internal/domain/mutagens"
	m "gooze.dev/pkg/polymut/internal/model"
)

// Discovery is the ordered mutation set of a run.
type Discovery struct {
	Mutations []m.Mutation
	// Warnings holds one *m.DiscoveryError per skipped file, nil when every
	// file was parsed.
	Warnings error
	Files    int
}

// Mutagen defines the interface for mutation discovery.
type Mutagen interface {
	// Discover parses every source and returns their mutations in source
	// order. Files that fail to parse are reported in Discovery.Warnings.
	Discover(ctx context.Context, sources []m.Source, operators []m.Operator) (Discovery, error)
	// DiscoverFile returns the mutations of one file with file-local indexes.
	DiscoverFile(ctx context.Context, source m.Source, content []byte, operators []m.Operator) ([]m.Mutation, error)
}

type mutagen struct {
	adapter.SyntaxAdapter
	adapter.SourceFSAdapter
	threads int
}

// NewMutagen creates a new Mutagen instance. Files are parsed concurrently by
// up to threads goroutines.
func NewMutagen(syntaxAdapter adapter.SyntaxAdapter, fsAdapter adapter.SourceFSAdapter, threads int) Mutagen {
	return &mutagen{
		SyntaxAdapter:   syntaxAdapter,
		SourceFSAdapter: fsAdapter,
		threads:         max(threads, 1),
	}
}

func (mg *mutagen) Discover(ctx context.Context, sources []m.Source, operators []m.Operator) (Discovery, error) {
	if len(sources) == 0 {
		return Discovery{}, m.ErrNoSources
	}

	perFile := make([][]m.Mutation, len(sources))
	failures := make([]error, len(sources))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(mg.threads)

	for i, source := range sources {
		group.Go(func() error {
			mutations, err := mg.discoverSource(groupCtx, source, operators)
			if err != nil {
				var discoveryErr *m.DiscoveryError
				if !errors.As(err, &discoveryErr) {
					return err
				}

				slog.Warn("Skipping unparsable file", "path", source.Origin.ShortPath, "error", err)
				failures[i] = err

				return nil
			}

			perFile[i] = mutations

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return Discovery{}, fmt.Errorf("discover mutations: %w", err)
	}

	var warnings *multierror.Error

	discovery := Discovery{Files: len(sources)}

	for i := range sources {
		if failures[i] != nil {
			warnings = multierror.Append(warnings, failures[i])
			continue
		}

		for _, mutation := range perFile[i] {
			mutation.Index = len(discovery.Mutations)
			discovery.Mutations = append(discovery.Mutations, mutation)
		}
	}

	discovery.Warnings = warnings.ErrorOrNil()

	if warnings != nil && len(warnings.Errors) == len(sources) {
		return discovery, fmt.Errorf("%w: %w", m.ErrNoParsableSources, discovery.Warnings)
	}

	return discovery, nil
}

func (mg *mutagen) discoverSource(ctx context.Context, source m.Source, operators []m.Operator) ([]m.Mutation, error) {
	if source.Origin == nil {
		return nil, fmt.Errorf("missing source origin")
	}

	content, err := mg.ReadFile(source.Origin.FullPath)
	if err != nil {
		return nil, &m.DiscoveryError{Path: source.Origin.ShortPath, Err: err}
	}

	if source.Origin.Hash != "" && adapter.HashContent(content) != source.Origin.Hash {
		return nil, &m.DiscoveryError{Path: source.Origin.ShortPath, Err: errors.New("file changed since indexing")}
	}

	return mg.DiscoverFile(ctx, source, content, operators)
}

func (mg *mutagen) DiscoverFile(ctx context.Context, source m.Source, content []byte, operators []m.Operator) ([]m.Mutation, error) {
	if source.Origin == nil {
		return nil, fmt.Errorf("missing source origin")
	}

	if len(operators) == 0 {
		operators = m.Operators
	}

	tree, err := mg.Parse(ctx, source.Language, content)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		return nil, &m.DiscoveryError{Path: source.Origin.ShortPath, Err: err}
	}

	defer tree.Close()

	if tree.HasError() {
		return nil, &m.DiscoveryError{Path: source.Origin.ShortPath, Err: errors.New("source contains syntax errors")}
	}

	walker := newDiscoveryWalker(source, content, operators)
	walker.protect(tree.Root())
	walker.visit(tree.Root(), nil, nil, nil)

	return walker.mutations, nil
}

// protectedSpan is a comment or string literal that non-string candidates
// may not cut through.
type protectedSpan struct {
	start, end int
	str        bool
}

type candidateKey struct {
	start, end  int
	replacement string
}

type discoveryWalker struct {
	source    m.Source
	content   []byte
	operators []m.Operator
	lines     lineIndex
	protected []protectedSpan
	seen      map[candidateKey]bool
	mutations []m.Mutation
}

func newDiscoveryWalker(source m.Source, content []byte, operators []m.Operator) *discoveryWalker {
	return &discoveryWalker{
		source:    source,
		content:   content,
		operators: operators,
		lines:     newLineIndex(content),
		seen:      map[candidateKey]bool{},
	}
}

func (w *discoveryWalker) protect(node m.SyntaxNode) {
	if node == nil {
		return
	}

	switch {
	case node.Kind() == "comment" || node.Kind() == "html_comment":
		w.protected = append(w.protected, protectedSpan{start: node.StartByte(), end: node.EndByte()})
		return
	case mutagens.IsStringLiteral(node.Kind()):
		w.protected = append(w.protected, protectedSpan{start: node.StartByte(), end: node.EndByte(), str: true})
		return
	}

	for i := range node.ChildCount() {
		w.protect(node.Child(i))
	}
}

// visit walks the tree in pre-order and asks each operator, in catalog
// order, for candidates at every node.
func (w *discoveryWalker) visit(node, parent, grandparent, function m.SyntaxNode) {
	if node == nil {
		return
	}

	site := mutagens.Site{
		Node:        node,
		Parent:      parent,
		Grandparent: grandparent,
		Function:    function,
		Language:    w.source.Language,
		Source:      w.content,
	}

	if mutagens.Skip(site) {
		return
	}

	for _, op := range w.operators {
		for _, candidate := range mutagens.Generate(op, site) {
			w.accept(op, candidate)
		}
	}

	if mutagens.IsFunction(node.Kind()) {
		function = node
	}

	for i := range node.ChildCount() {
		w.visit(node.Child(i), node, parent, function)
	}
}

func (w *discoveryWalker) accept(op m.Operator, candidate mutagens.Candidate) {
	if candidate.Start < 0 || candidate.End < candidate.Start || candidate.End > len(w.content) {
		slog.Debug("Dropping out of bounds candidate", "path", w.source.Origin.ShortPath, "operator", op, "start", candidate.Start, "end", candidate.End)
		return
	}

	if w.crossesProtected(op, candidate) {
		return
	}

	key := candidateKey{start: candidate.Start, end: candidate.End, replacement: candidate.Replacement}
	if w.seen[key] || string(w.content[candidate.Start:candidate.End]) == candidate.Replacement {
		return
	}

	w.seen[key] = true

	ordinal := len(w.mutations)
	w.mutations = append(w.mutations, m.Mutation{
		ID:       mutationID(w.source.Origin.ShortPath, ordinal, candidate),
		Index:    ordinal,
		File:     *w.source.Origin,
		Language: w.source.Language,
		Location: m.SourceLocation{
			StartByte: candidate.Start,
			EndByte:   candidate.End,
			Start:     w.lines.position(candidate.Start),
			End:       w.lines.position(candidate.End),
		},
		Operator:    op,
		Variant:     candidate.Variant,
		Original:    string(w.content[candidate.Start:candidate.End]),
		Replacement: candidate.Replacement,
	})
}

// crossesProtected reports a candidate that cuts into a comment, or into a
// string literal when the operator is not the string operator. Spans that
// contain a protected span whole are fine.
func (w *discoveryWalker) crossesProtected(op m.Operator, candidate mutagens.Candidate) bool {
	for _, span := range w.protected {
		if span.str && op == m.OperatorString {
			continue
		}

		disjoint := candidate.End <= span.start || candidate.Start >= span.end
		contains := candidate.Start <= span.start && span.end <= candidate.End

		if !disjoint && !contains {
			return true
		}
	}

	return false
}

// mutationID derives a stable id from the file, the file-local ordinal and
// the replacement.
func mutationID(path m.Path, ordinal int, candidate mutagens.Candidate) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s:%d:%d:%d:%s", path, ordinal, candidate.Start, candidate.End, candidate.Replacement))
	return hex.EncodeToString(sum[:])[:16]
}

// lineIndex maps byte offsets to 1-based line and byte column positions.
type lineIndex []int

func newLineIndex(content []byte) lineIndex {
	starts := lineIndex{0}

	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}

	return starts
}

func (l lineIndex) position(offset int) m.Position {
	line := sort.Search(len(l), func(i int) bool { return l[i] > offset }) - 1

	return m.Position{Line: line + 1, Column: offset - l[line] + 1}
}
