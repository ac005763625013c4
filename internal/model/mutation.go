package model

import (
	"bytes"
	"fmt"
	"strings"
)

// Operator represents the category of mutation.
type Operator int

// Operator categories in catalog priority order.
const (
	OperatorArithmetic Operator = iota
	OperatorComparison
	OperatorLogical
	OperatorUnary
	OperatorBoolean
	OperatorNullSafety
	OperatorControlFlow
	OperatorAssignment
	OperatorReturnValue
	OperatorString
)

// Operators lists every operator in the order discovery applies them.
var Operators = []Operator{
	OperatorArithmetic,
	OperatorComparison,
	OperatorLogical,
	OperatorUnary,
	OperatorBoolean,
	OperatorNullSafety,
	OperatorControlFlow,
	OperatorAssignment,
	OperatorReturnValue,
	OperatorString,
}

var operatorNames = map[Operator]string{
	OperatorArithmetic:  "arithmetic",
	OperatorComparison:  "comparison",
	OperatorLogical:     "logical",
	OperatorUnary:       "unary",
	OperatorBoolean:     "boolean",
	OperatorNullSafety:  "null_safety",
	OperatorControlFlow: "control_flow",
	OperatorAssignment:  "assignment",
	OperatorReturnValue: "return_value",
	OperatorString:      "string",
}

func (o Operator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}

	return fmt.Sprintf("operator(%d)", int(o))
}

// ParseOperator resolves an operator by name. Dashes and case are ignored.
func ParseOperator(name string) (Operator, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")

	switch normalized {
	case "null", "nullsafety":
		normalized = "null_safety"
	case "control", "controlflow", "branch":
		normalized = "control_flow"
	case "compound_assignment":
		normalized = "assignment"
	case "return", "returns":
		normalized = "return_value"
	case "bool":
		normalized = "boolean"
	}

	for op, opName := range operatorNames {
		if opName == normalized {
			return op, nil
		}
	}

	return 0, fmt.Errorf("unknown mutation operator %q", name)
}

// ParseOperators resolves a list of operator names. An empty list means all operators.
func ParseOperators(names []string) ([]Operator, error) {
	if len(names) == 0 {
		return Operators, nil
	}

	selected := make(map[Operator]bool, len(names))

	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}

			op, err := ParseOperator(part)
			if err != nil {
				return nil, err
			}

			selected[op] = true
		}
	}

	if len(selected) == 0 {
		return Operators, nil
	}

	ops := make([]Operator, 0, len(selected))

	for _, op := range Operators {
		if selected[op] {
			ops = append(ops, op)
		}
	}

	return ops, nil
}

// MarshalText implements encoding.TextMarshaler.
func (o Operator) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Operator) UnmarshalText(text []byte) error {
	op, err := ParseOperator(string(text))
	if err != nil {
		return err
	}

	*o = op

	return nil
}

// Position is a 1-based line and byte column.
type Position struct {
	Line   int `yaml:"line"`
	Column int `yaml:"column"`
}

// SourceLocation is a half-open byte range with positions for both ends.
type SourceLocation struct {
	StartByte int      `yaml:"start_byte"`
	EndByte   int      `yaml:"end_byte"`
	Start     Position `yaml:"start"`
	End       Position `yaml:"end"`
}

// Len returns the number of bytes covered by the location.
func (l SourceLocation) Len() int {
	return l.EndByte - l.StartByte
}

// Mutation is a single replacement of a byte range. It is created once by
// discovery and never modified afterwards.
type Mutation struct {
	ID          string         `yaml:"id"`
	Index       int            `yaml:"index"`
	File        File           `yaml:"file"`
	Language    Language       `yaml:"language"`
	Location    SourceLocation `yaml:"location"`
	Operator    Operator       `yaml:"operator"`
	Variant     string         `yaml:"variant"`
	Original    string         `yaml:"original"`
	Replacement string         `yaml:"replacement"`
}

// Apply returns a copy of content with the mutation's byte range replaced.
// The range must be in bounds and still hold the original text.
func (mu Mutation) Apply(content []byte) ([]byte, error) {
	start, end := mu.Location.StartByte, mu.Location.EndByte
	if start < 0 || end < start || end > len(content) {
		return nil, fmt.Errorf("range [%d,%d) out of bounds for %d bytes", start, end, len(content))
	}

	if !bytes.Equal(content[start:end], []byte(mu.Original)) {
		return nil, fmt.Errorf("range [%d,%d) no longer holds %q", start, end, mu.Original)
	}

	mutated := make([]byte, 0, len(content)-(end-start)+len(mu.Replacement))
	mutated = append(mutated, content[:start]...)
	mutated = append(mutated, mu.Replacement...)
	mutated = append(mutated, content[end:]...)

	return mutated, nil
}

// Position returns the file:line:column reference of the mutation.
func (mu Mutation) Position() string {
	return fmt.Sprintf("%s:%d:%d", mu.File.ShortPath, mu.Location.Start.Line, mu.Location.Start.Column)
}

func (mu Mutation) String() string {
	return fmt.Sprintf("%s %s/%s %q -> %q", mu.Position(), mu.Operator, mu.Variant, mu.Original, mu.Replacement)
}
