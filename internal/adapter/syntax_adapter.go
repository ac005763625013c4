package adapter

import (
	"context"
	"fmt"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	m "gooze.dev/pkg/polymut/internal/model"
)

// SyntaxAdapter parses source text into a syntax tree.
type SyntaxAdapter interface {
	Parse(ctx context.Context, lang m.Language, content []byte) (m.SyntaxTree, error)
}

// TreeSitterAdapter implements SyntaxAdapter with tree-sitter grammars.
type TreeSitterAdapter struct{}

// NewTreeSitterAdapter constructs a TreeSitterAdapter.
func NewTreeSitterAdapter() *TreeSitterAdapter {
	return &TreeSitterAdapter{}
}

// Parse parses content with the grammar for lang. A parser is created per
// call because tree-sitter parsers are not safe for concurrent use.
func (a *TreeSitterAdapter) Parse(ctx context.Context, lang m.Language, content []byte) (m.SyntaxTree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grammar, err := grammarFor(lang)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s source: %w", lang, err)
	}

	if tree == nil {
		return nil, fmt.Errorf("parse %s source: parser returned no tree", lang)
	}

	if err := ctx.Err(); err != nil {
		tree.Close()
		return nil, err
	}

	return &treeSitterTree{tree: tree}, nil
}

func grammarFor(lang m.Language) (*sitter.Language, error) {
	switch lang {
	case m.LanguageGo:
		return golang.GetLanguage(), nil
	case m.LanguageJavaScript:
		return javascript.GetLanguage(), nil
	case m.LanguageTypeScript:
		return typescript.GetLanguage(), nil
	case m.LanguageTSX:
		return tsx.GetLanguage(), nil
	case m.LanguageUnknown:
	}

	return nil, fmt.Errorf("no grammar for language %q", lang)
}

type treeSitterTree struct {
	tree *sitter.Tree
}

func (t *treeSitterTree) Root() m.SyntaxNode {
	return wrapNode(t.tree.RootNode())
}

func (t *treeSitterTree) HasError() bool {
	return t.tree.RootNode().HasError()
}

func (t *treeSitterTree) Close() {
	t.tree.Close()
}

type treeSitterNode struct {
	node *sitter.Node
}

// wrapNode keeps a nil *sitter.Node from becoming a non-nil interface.
func wrapNode(node *sitter.Node) m.SyntaxNode {
	if node == nil {
		return nil
	}

	return treeSitterNode{node: node}
}

func (n treeSitterNode) Kind() string {
	return n.node.Type()
}

func (n treeSitterNode) IsNamed() bool {
	return n.node.IsNamed()
}

func (n treeSitterNode) StartByte() int {
	return toInt(n.node.StartByte())
}

func (n treeSitterNode) EndByte() int {
	return toInt(n.node.EndByte())
}

func (n treeSitterNode) ChildCount() int {
	return toInt(n.node.ChildCount())
}

func (n treeSitterNode) Child(i int) m.SyntaxNode {
	if i < 0 || i >= n.ChildCount() {
		return nil
	}

	return wrapNode(n.node.Child(i))
}

func (n treeSitterNode) ChildByFieldName(name string) m.SyntaxNode {
	return wrapNode(n.node.ChildByFieldName(name))
}

func toInt(v uint32) int {
	out, err := safecast.Conv[int](v)
	if err != nil {
		return 0
	}

	return out
}
