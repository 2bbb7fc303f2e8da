package ast

import (
	"strings"

	"github.com/pcodekit/pcodekit/core/types"
)

// ProgramNode is the root of one compiled unit. It owns every node in the
// tree and carries the navigation indices the editor layer uses for
// breakpoint and run-to-line mapping.
type ProgramNode struct {
	base
	Imports         []*ImportNode
	Class           *ClassNode // class or interface declaration, nil when absent
	Functions       []*FunctionNode
	Variables       []*ProgramVariableNode // Global and Component declarations
	Locals          []*ProgramVariableNode // top-level Local declarations
	Constants       []*ConstantNode
	Implementations []Node // Method/Property implementation bodies in source order
	Main            *BlockNode

	Comments   []types.Comment
	Directives []types.Directive

	// statementLines maps statement number (1-based, by index) to source
	// line; lineStatements maps a line to the first statement registered on
	// it. Both are built during parsing, in source order.
	statementLines []int
	lineStatements map[int]Statement
}

// NewProgram constructs an empty program root.
func NewProgram() *ProgramNode {
	return &ProgramNode{lineStatements: make(map[int]Statement)}
}

func (n *ProgramNode) String() string {
	var parts []string
	for _, imp := range n.Imports {
		parts = append(parts, imp.String())
	}
	if n.Class != nil {
		parts = append(parts, n.Class.String())
	}
	for _, c := range n.Constants {
		parts = append(parts, c.String())
	}
	for _, v := range n.Variables {
		parts = append(parts, v.String())
	}
	for _, f := range n.Functions {
		parts = append(parts, f.String())
	}
	for _, l := range n.Locals {
		parts = append(parts, l.String())
	}
	for _, impl := range n.Implementations {
		parts = append(parts, impl.String())
	}
	if n.Main != nil && !n.Main.Empty() {
		parts = append(parts, n.Main.String())
	}
	return strings.Join(parts, "\n")
}

// ClassName returns the declared class or interface name, empty when the
// program declares none. Consumed by the editor layer to cross-check the
// buffer against its window caption.
func (n *ProgramNode) ClassName() string {
	if n.Class == nil {
		return ""
	}
	return n.Class.Name
}

// RegisterStatement records a statement against the navigation indices. The
// parser calls this in source order as statements are built; end-marker
// lines are registered by their owning construct, subject to the trailing-
// semicolon rule.
func (n *ProgramNode) RegisterStatement(stmt Statement, line int) {
	n.statementLines = append(n.statementLines, line)
	if _, seen := n.lineStatements[line]; !seen {
		n.lineStatements[line] = stmt
	}
}

// StatementCount returns how many statement lines were registered.
func (n *ProgramNode) StatementCount() int { return len(n.statementLines) }

// StatementLine maps a 1-based statement number to its source line,
// returning false when out of range.
func (n *ProgramNode) StatementLine(number int) (int, bool) {
	if number < 1 || number > len(n.statementLines) {
		return 0, false
	}
	return n.statementLines[number-1], true
}

// FirstStatementOnLine returns the first statement registered on the line.
func (n *ProgramNode) FirstStatementOnLine(line int) (Statement, bool) {
	stmt, ok := n.lineStatements[line]
	return stmt, ok
}

// StatementLines returns a copy of the statement-number → line table.
func (n *ProgramNode) StatementLines() []int {
	out := make([]int, len(n.statementLines))
	copy(out, n.statementLines)
	return out
}

// NodeAt returns the deepest node whose span contains the byte offset.
func (n *ProgramNode) NodeAt(offset int) Node {
	var found Node
	Walk(n, func(node Node) bool {
		span := node.Span()
		if node == Node(n) || span.Contains(offset) {
			if node != Node(n) {
				found = node
			}
			return true
		}
		return false
	})
	return found
}
