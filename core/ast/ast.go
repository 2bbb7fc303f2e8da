// Package ast defines the PeopleCode syntax tree: a mutable tagged-variant
// tree with owned child lists, non-owning parent back-references, and exact
// source spans on every node. Pass-computed facts (resolved scopes, inferred
// types) live in typed side tables keyed by node identity rather than on the
// nodes themselves.
package ast

import (
	"github.com/pcodekit/pcodekit/core/types"
)

// Node represents any node in the syntax tree
type Node interface {
	String() string
	Span() types.SourceSpan
	SetSpan(types.SourceSpan)

	// Parent returns the enclosing node, nil for the root. The parent
	// pointer is lookup-only and never owns the node.
	Parent() Node
	// Children returns the owned child list in source order.
	Children() []Node

	setParent(Node)
	addChild(Node)
	removeChild(Node)
}

// base carries the tree plumbing every node variant embeds.
type base struct {
	span     types.SourceSpan
	parent   Node
	children []Node
}

func (b *base) Span() types.SourceSpan     { return b.span }
func (b *base) SetSpan(s types.SourceSpan) { b.span = s }
func (b *base) Parent() Node               { return b.parent }
func (b *base) Children() []Node           { return b.children }
func (b *base) setParent(p Node)           { b.parent = p }
func (b *base) addChild(c Node)            { b.children = append(b.children, c) }

func (b *base) removeChild(c Node) {
	for i, child := range b.children {
		if child == c {
			b.children = append(b.children[:i], b.children[i+1:]...)
			return
		}
	}
}

// Adopt links child under parent: the child joins the owned child list and
// its parent pointer is set. Nil children are ignored so constructors can
// pass optional parts unconditionally.
func Adopt(parent Node, children ...Node) {
	for _, child := range children {
		if child == nil || isNilNode(child) {
			continue
		}
		parent.addChild(child)
		child.setParent(parent)
	}
}

// Remove unlinks child from parent and clears the child's parent pointer.
func Remove(parent, child Node) {
	if parent == nil || child == nil {
		return
	}
	parent.removeChild(child)
	child.setParent(nil)
}

// isNilNode guards against typed-nil interfaces reaching the child list.
func isNilNode(n Node) bool {
	if n == nil {
		return true
	}
	type nillable interface{ IsNil() bool }
	if v, ok := n.(nillable); ok {
		return v.IsNil()
	}
	return false
}

// Walk traverses the tree in preorder. The visit callback returns false to
// skip a node's children.
func Walk(n Node, visit func(Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, child := range n.Children() {
		Walk(child, visit)
	}
}

// Statement is a node that can appear in a statement block. Trailing
// semicolons are optional in PeopleCode and their presence changes how
// end-marker lines are counted, so every statement records whether it had
// one.
type Statement interface {
	Node
	HasSemicolon() bool
	SetHasSemicolon(bool)
	stmtNode()
}

// stmtBase is embedded by every statement variant.
type stmtBase struct {
	base
	hasSemicolon bool
}

func (s *stmtBase) HasSemicolon() bool        { return s.hasSemicolon }
func (s *stmtBase) SetHasSemicolon(has bool)  { s.hasSemicolon = has }
func (s *stmtBase) stmtNode()                 {}

// Expression is a node that produces a value. IsLValue and HasSideEffects
// are derived structurally on demand, never stored.
type Expression interface {
	Node
	IsLValue() bool
	HasSideEffects() bool
	exprNode()
}

// exprBase is embedded by every expression variant.
type exprBase struct {
	base
}

func (e *exprBase) exprNode()            {}
func (e *exprBase) IsLValue() bool       { return false }
func (e *exprBase) HasSideEffects() bool { return false }

// Declaration is a named program element: a method, property, function,
// variable, constant or parameter.
type Declaration interface {
	Node
	DeclaredName() string
	declNode()
}

// SideTable associates pass-computed data with nodes without widening the
// node structs. Each pass owns its own table; later passes add new tables,
// never racing on shared keys.
type SideTable[T any] struct {
	facts map[Node]T
}

// NewSideTable creates an empty side table.
func NewSideTable[T any]() *SideTable[T] {
	return &SideTable[T]{facts: make(map[Node]T)}
}

// Set records a fact for the node, replacing any previous value.
func (s *SideTable[T]) Set(n Node, fact T) {
	s.facts[n] = fact
}

// Get returns the fact recorded for the node.
func (s *SideTable[T]) Get(n Node) (T, bool) {
	fact, ok := s.facts[n]
	return fact, ok
}

// Len returns the number of nodes with recorded facts.
func (s *SideTable[T]) Len() int { return len(s.facts) }
