package model

// SyntaxNode is the view of a parsed node that discovery needs.
type SyntaxNode interface {
	Kind() string
	IsNamed() bool
	StartByte() int
	EndByte() int
	ChildCount() int
	// Child returns nil when i is out of range.
	Child(i int) SyntaxNode
	// ChildByFieldName returns nil when the field is absent.
	ChildByFieldName(name string) SyntaxNode
}

// SyntaxTree is a parsed file. Close releases parser-owned memory.
type SyntaxTree interface {
	Root() SyntaxNode
	HasError() bool
	Close()
}
