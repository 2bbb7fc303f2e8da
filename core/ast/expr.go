package ast

import (
	"fmt"
	"strings"

	"github.com/pcodekit/pcodekit/core/types"
	"github.com/pcodekit/pcodekit/core/typesys"
)

// BinaryOperator identifies a binary operation, ordered by precedence tier.
type BinaryOperator int

const (
	OpOr BinaryOperator = iota
	OpAnd
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpConcat
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpPower
)

// Precedence returns the binding strength: Or(1) < And(2) < equality(3) <
// relational(4) < concat(5) < additive(6) < multiplicative(7) < power(8).
func (op BinaryOperator) Precedence() int {
	switch op {
	case OpOr:
		return 1
	case OpAnd:
		return 2
	case OpEqual, OpNotEqual:
		return 3
	case OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		return 4
	case OpConcat:
		return 5
	case OpAdd, OpSubtract:
		return 6
	case OpMultiply, OpDivide:
		return 7
	case OpPower:
		return 8
	default:
		return 0
	}
}

// RightAssociative reports whether the operator binds right-to-left.
// Exponentiation is the only one.
func (op BinaryOperator) RightAssociative() bool {
	return op == OpPower
}

// Symbol returns the PeopleCode spelling of the operator.
func (op BinaryOperator) Symbol() string {
	switch op {
	case OpOr:
		return "Or"
	case OpAnd:
		return "And"
	case OpEqual:
		return "="
	case OpNotEqual:
		return "<>"
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	case OpConcat:
		return "|"
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpPower:
		return "**"
	default:
		return "?"
	}
}

// IsComparison reports whether the operator yields a boolean.
func (op BinaryOperator) IsComparison() bool {
	return op >= OpEqual && op <= OpGreaterEqual || op == OpOr || op == OpAnd
}

// UnaryOperator identifies a prefix operation.
type UnaryOperator int

const (
	OpNot UnaryOperator = iota
	OpNegate
	OpAt // dynamic definition reference: @("RECORD." | &name)
)

func (op UnaryOperator) Symbol() string {
	switch op {
	case OpNot:
		return "Not "
	case OpNegate:
		return "- "
	case OpAt:
		return "@"
	default:
		return "?"
	}
}

// LiteralKind tags literal expressions
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralInteger
	LiteralDecimal
	LiteralBoolean
	LiteralNull
)

// LiteralNode represents a literal constant
type LiteralNode struct {
	exprBase
	Kind  LiteralKind
	Value string // decoded value (doubled quotes collapsed)
	Token types.Token
}

// NewLiteral constructs a literal from its token.
func NewLiteral(kind LiteralKind, tok types.Token) *LiteralNode {
	n := &LiteralNode{Kind: kind, Value: tok.Value, Token: tok}
	n.SetSpan(tok.Span)
	return n
}

func (n *LiteralNode) String() string {
	if n.Kind == LiteralString {
		return `"` + strings.ReplaceAll(n.Value, `"`, `""`) + `"`
	}
	return n.Value
}

// PrimitiveType returns the fixed type of the literal. Null has no primitive
// type and reports Any.
func (n *LiteralNode) PrimitiveType() *typesys.TypeInfo {
	switch n.Kind {
	case LiteralString:
		return typesys.TypeString
	case LiteralInteger:
		return typesys.TypeInteger
	case LiteralDecimal:
		return typesys.TypeNumber
	case LiteralBoolean:
		return typesys.TypeBoolean
	default:
		return typesys.TypeAny
	}
}

// IdentifierKind distinguishes the three identifier flavors
type IdentifierKind int

const (
	IdentPlain  IdentifierKind = iota // record fields, function names
	IdentUser                         // &var
	IdentSystem                       // %This, %UserId
)

// IdentifierNode represents a name reference
type IdentifierNode struct {
	exprBase
	Kind  IdentifierKind
	Name  string // includes the & or % sigil
	Token types.Token
}

// NewIdentifier constructs an identifier from its token.
func NewIdentifier(kind IdentifierKind, tok types.Token) *IdentifierNode {
	n := &IdentifierNode{Kind: kind, Name: tok.Value, Token: tok}
	n.SetSpan(tok.Span)
	return n
}

func (n *IdentifierNode) String() string { return n.Name }

// IsLValue reports whether the identifier can be assigned to. System
// variables are read-only.
func (n *IdentifierNode) IsLValue() bool { return n.Kind != IdentSystem }

// BinaryOperationNode represents a binary operation
type BinaryOperationNode struct {
	exprBase
	Op    BinaryOperator
	Left  Expression
	Right Expression
}

// NewBinaryOperation links both operands under the new node.
func NewBinaryOperation(op BinaryOperator, left, right Expression) *BinaryOperationNode {
	n := &BinaryOperationNode{Op: op, Left: left, Right: right}
	if left != nil {
		Adopt(n, left)
	}
	if right != nil {
		Adopt(n, right)
	}
	if left != nil && right != nil {
		n.SetSpan(left.Span().Join(right.Span()))
	}
	return n
}

func (n *BinaryOperationNode) String() string {
	return fmt.Sprintf("(%s %s %s)", exprString(n.Left), n.Op.Symbol(), exprString(n.Right))
}

func (n *BinaryOperationNode) HasSideEffects() bool {
	return hasSideEffects(n.Left) || hasSideEffects(n.Right)
}

// UnaryOperationNode represents a prefix operation
type UnaryOperationNode struct {
	exprBase
	Op      UnaryOperator
	Operand Expression
}

// NewUnaryOperation links the operand under the new node.
func NewUnaryOperation(op UnaryOperator, operand Expression) *UnaryOperationNode {
	n := &UnaryOperationNode{Op: op, Operand: operand}
	if operand != nil {
		Adopt(n, operand)
		n.SetSpan(operand.Span())
	}
	return n
}

func (n *UnaryOperationNode) String() string {
	return fmt.Sprintf("(%s%s)", n.Op.Symbol(), exprString(n.Operand))
}

func (n *UnaryOperationNode) HasSideEffects() bool { return hasSideEffects(n.Operand) }

// AssignmentNode represents `target = value` in statement position
type AssignmentNode struct {
	exprBase
	Target Expression
	Value  Expression
}

// NewAssignment links target and value under the new node.
func NewAssignment(target, value Expression) *AssignmentNode {
	n := &AssignmentNode{Target: target, Value: value}
	if target != nil {
		Adopt(n, target)
	}
	if value != nil {
		Adopt(n, value)
	}
	if target != nil && value != nil {
		n.SetSpan(target.Span().Join(value.Span()))
	}
	return n
}

func (n *AssignmentNode) String() string {
	return fmt.Sprintf("%s = %s", exprString(n.Target), exprString(n.Value))
}

func (n *AssignmentNode) HasSideEffects() bool { return true }

// MemberAccessNode represents `target.Member`
type MemberAccessNode struct {
	exprBase
	Target      Expression
	Member      string
	MemberToken types.Token
}

// NewMemberAccess links the receiver under the new node.
func NewMemberAccess(target Expression, member types.Token) *MemberAccessNode {
	n := &MemberAccessNode{Target: target, Member: member.Value, MemberToken: member}
	if target != nil {
		Adopt(n, target)
		n.SetSpan(target.Span().Join(member.Span))
	} else {
		n.SetSpan(member.Span)
	}
	return n
}

func (n *MemberAccessNode) String() string {
	return exprString(n.Target) + "." + n.Member
}

func (n *MemberAccessNode) IsLValue() bool        { return true }
func (n *MemberAccessNode) HasSideEffects() bool  { return hasSideEffects(n.Target) }

// ReferenceNode represents a definition reference such as Record.QA_MYREC
type ReferenceNode struct {
	exprBase
	Category typesys.RefCategory
	Name     string
	Token    types.Token
}

// NewReferenceExpr constructs a definition reference.
func NewReferenceExpr(cat typesys.RefCategory, name types.Token) *ReferenceNode {
	n := &ReferenceNode{Category: cat, Name: name.Value, Token: name}
	n.SetSpan(name.Span)
	return n
}

func (n *ReferenceNode) String() string {
	return n.Category.String() + "." + n.Name
}

// ReferenceType returns the category-tagged reference type.
func (n *ReferenceNode) ReferenceType() *typesys.TypeInfo {
	return typesys.NewReference(n.Category)
}

// ArrayIndexNode represents `target[i]` or `target[i, j]`
type ArrayIndexNode struct {
	exprBase
	Target  Expression
	Indexes []Expression
}

// NewArrayIndex links the target and every index under the new node.
func NewArrayIndex(target Expression, indexes []Expression) *ArrayIndexNode {
	n := &ArrayIndexNode{Target: target, Indexes: indexes}
	if target != nil {
		Adopt(n, target)
		n.SetSpan(target.Span())
	}
	for _, idx := range indexes {
		if idx != nil {
			Adopt(n, idx)
			n.SetSpan(n.Span().Join(idx.Span()))
		}
	}
	return n
}

func (n *ArrayIndexNode) String() string {
	parts := make([]string, len(n.Indexes))
	for i, idx := range n.Indexes {
		parts[i] = exprString(idx)
	}
	return exprString(n.Target) + "[" + strings.Join(parts, ", ") + "]"
}

func (n *ArrayIndexNode) IsLValue() bool { return true }

func (n *ArrayIndexNode) HasSideEffects() bool {
	if hasSideEffects(n.Target) {
		return true
	}
	for _, idx := range n.Indexes {
		if hasSideEffects(idx) {
			return true
		}
	}
	return false
}

// FunctionCallNode represents `target(args...)`; the target is an identifier
// for plain calls or a member access for method calls.
type FunctionCallNode struct {
	exprBase
	Target Expression
	Args   []Expression
}

// NewFunctionCall links the target and every argument under the new node.
func NewFunctionCall(target Expression, args []Expression) *FunctionCallNode {
	n := &FunctionCallNode{Target: target, Args: args}
	if target != nil {
		Adopt(n, target)
		n.SetSpan(target.Span())
	}
	for _, arg := range args {
		if arg != nil {
			Adopt(n, arg)
			n.SetSpan(n.Span().Join(arg.Span()))
		}
	}
	return n
}

func (n *FunctionCallNode) String() string {
	parts := make([]string, len(n.Args))
	for i, arg := range n.Args {
		parts[i] = exprString(arg)
	}
	return exprString(n.Target) + "(" + strings.Join(parts, ", ") + ")"
}

// CalledName returns the simple function or method name being invoked.
func (n *FunctionCallNode) CalledName() string {
	switch t := n.Target.(type) {
	case *IdentifierNode:
		return t.Name
	case *MemberAccessNode:
		return t.Member
	default:
		return ""
	}
}

func (n *FunctionCallNode) HasSideEffects() bool { return true }

// ObjectCreationNode represents `create PKG:Class(args...)`
type ObjectCreationNode struct {
	exprBase
	Type *TypeNode
	Args []Expression
}

// NewObjectCreation links the type and arguments under the new node.
func NewObjectCreation(typ *TypeNode, args []Expression) *ObjectCreationNode {
	n := &ObjectCreationNode{Type: typ, Args: args}
	if typ != nil {
		Adopt(n, typ)
		n.SetSpan(typ.Span())
	}
	for _, arg := range args {
		if arg != nil {
			Adopt(n, arg)
			n.SetSpan(n.Span().Join(arg.Span()))
		}
	}
	return n
}

func (n *ObjectCreationNode) String() string {
	parts := make([]string, len(n.Args))
	for i, arg := range n.Args {
		parts[i] = exprString(arg)
	}
	return "create " + n.Type.String() + "(" + strings.Join(parts, ", ") + ")"
}

func (n *ObjectCreationNode) HasSideEffects() bool { return true }

// CastNode represents `expr As PKG:Class`
type CastNode struct {
	exprBase
	Expr Expression
	Type *TypeNode
}

// NewCast links the operand and target type under the new node.
func NewCast(expr Expression, typ *TypeNode) *CastNode {
	n := &CastNode{Expr: expr, Type: typ}
	if expr != nil {
		Adopt(n, expr)
		n.SetSpan(expr.Span())
	}
	if typ != nil {
		Adopt(n, typ)
		n.SetSpan(n.Span().Join(typ.Span()))
	}
	return n
}

func (n *CastNode) String() string {
	return exprString(n.Expr) + " As " + n.Type.String()
}

func (n *CastNode) HasSideEffects() bool { return hasSideEffects(n.Expr) }

// InterpolatedStringNode represents $"text {expr} text". Parts alternate
// between string-literal text runs and embedded expressions.
type InterpolatedStringNode struct {
	exprBase
	Parts []Expression
}

// NewInterpolatedString links every part under the new node.
func NewInterpolatedString(parts []Expression, span types.SourceSpan) *InterpolatedStringNode {
	n := &InterpolatedStringNode{Parts: parts}
	n.SetSpan(span)
	for _, part := range parts {
		if part != nil {
			Adopt(n, part)
		}
	}
	return n
}

func (n *InterpolatedStringNode) String() string {
	var b strings.Builder
	b.WriteString(`$"`)
	for _, part := range n.Parts {
		if lit, ok := part.(*LiteralNode); ok && lit.Kind == LiteralString {
			b.WriteString(strings.ReplaceAll(lit.Value, `"`, `""`))
			continue
		}
		b.WriteString("{")
		b.WriteString(exprString(part))
		b.WriteString("}")
	}
	b.WriteString(`"`)
	return b.String()
}

func (n *InterpolatedStringNode) HasSideEffects() bool {
	for _, part := range n.Parts {
		if hasSideEffects(part) {
			return true
		}
	}
	return false
}

// BadExpressionNode is the recovery placeholder produced when expression
// parsing fails; it keeps the tree intact for later passes.
type BadExpressionNode struct {
	exprBase
	From types.Token
}

// NewBadExpression records the token where recovery started.
func NewBadExpression(from types.Token) *BadExpressionNode {
	n := &BadExpressionNode{From: from}
	n.SetSpan(from.Span)
	return n
}

func (n *BadExpressionNode) String() string { return "<error>" }

func exprString(e Expression) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}

func hasSideEffects(e Expression) bool {
	return e != nil && e.HasSideEffects()
}
