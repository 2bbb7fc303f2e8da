package ast

import (
	"strings"

	"github.com/pcodekit/pcodekit/core/types"
)

// BlockNode holds a statement sequence. Blocks are bodies, not statements:
// they never appear in statement position themselves.
type BlockNode struct {
	base
	Statements []Statement
}

// NewBlock constructs an empty block.
func NewBlock() *BlockNode { return &BlockNode{} }

// Append links a statement at the end of the block.
func (n *BlockNode) Append(stmt Statement) {
	if stmt == nil {
		return
	}
	n.Statements = append(n.Statements, stmt)
	Adopt(n, stmt)
	if len(n.Statements) == 1 {
		n.SetSpan(stmt.Span())
	} else {
		n.SetSpan(n.Span().Join(stmt.Span()))
	}
}

// Empty reports whether the block holds no statements.
func (n *BlockNode) Empty() bool { return len(n.Statements) == 0 }

// EndsWithSemicolon reports whether the last statement carried a trailing
// semicolon. Empty blocks report true: an empty block never suppresses the
// end-marker line that follows it.
func (n *BlockNode) EndsWithSemicolon() bool {
	if len(n.Statements) == 0 {
		return true
	}
	return n.Statements[len(n.Statements)-1].HasSemicolon()
}

func (n *BlockNode) String() string {
	parts := make([]string, len(n.Statements))
	for i, s := range n.Statements {
		parts[i] = s.String()
	}
	return strings.Join(parts, "\n")
}

// IfNode represents If ... Then ... [Else ...] End-If
type IfNode struct {
	stmtBase
	Condition Expression
	Then      *BlockNode
	Else      *BlockNode // nil when absent
}

func (n *IfNode) String() string {
	s := "If " + exprString(n.Condition) + " Then\n" + blockString(n.Then)
	if n.Else != nil {
		s += "Else\n" + blockString(n.Else)
	}
	return s + "End-If;"
}

// ForNode represents For &i = from To to [Step step] ... End-For
type ForNode struct {
	stmtBase
	Iterator *IdentifierNode
	From     Expression
	To       Expression
	Step     Expression // nil when absent
	Body     *BlockNode
}

func (n *ForNode) String() string {
	s := "For " + exprString(n.Iterator) + " = " + exprString(n.From) + " To " + exprString(n.To)
	if n.Step != nil {
		s += " Step " + n.Step.String()
	}
	return s + "\n" + blockString(n.Body) + "End-For;"
}

// WhileNode represents While cond ... End-While
type WhileNode struct {
	stmtBase
	Condition Expression
	Body      *BlockNode
}

func (n *WhileNode) String() string {
	return "While " + exprString(n.Condition) + "\n" + blockString(n.Body) + "End-While;"
}

// RepeatNode represents Repeat ... Until cond
type RepeatNode struct {
	stmtBase
	Body      *BlockNode
	Condition Expression
}

func (n *RepeatNode) String() string {
	return "Repeat\n" + blockString(n.Body) + "Until " + exprString(n.Condition) + ";"
}

// WhenClauseNode is one When arm of an Evaluate statement
type WhenClauseNode struct {
	base
	Op      BinaryOperator // comparison against the subject, OpEqual default
	Value   Expression     // nil for When-Other
	IsOther bool
	Body    *BlockNode
}

func (n *WhenClauseNode) String() string {
	if n.IsOther {
		return "When-Other\n" + blockString(n.Body)
	}
	s := "When"
	if n.Op != OpEqual {
		s += " " + n.Op.Symbol()
	}
	return s + " " + exprString(n.Value) + "\n" + blockString(n.Body)
}

// EvaluateNode represents Evaluate subject ... End-Evaluate
type EvaluateNode struct {
	stmtBase
	Subject Expression
	Whens   []*WhenClauseNode
}

func (n *EvaluateNode) String() string {
	var b strings.Builder
	b.WriteString("Evaluate " + exprString(n.Subject) + "\n")
	for _, w := range n.Whens {
		b.WriteString(w.String())
	}
	b.WriteString("End-Evaluate;")
	return b.String()
}

// CatchNode is one catch clause of a Try statement
type CatchNode struct {
	base
	ExceptionType *TypeNode
	Var           *IdentifierNode
	Body          *BlockNode
}

func (n *CatchNode) String() string {
	return "catch " + n.ExceptionType.String() + " " + exprString(n.Var) + "\n" + blockString(n.Body)
}

// TryNode represents try ... catch ... end-try
type TryNode struct {
	stmtBase
	Body    *BlockNode
	Catches []*CatchNode
}

func (n *TryNode) String() string {
	var b strings.Builder
	b.WriteString("try\n" + blockString(n.Body))
	for _, c := range n.Catches {
		b.WriteString(c.String())
	}
	b.WriteString("end-try;")
	return b.String()
}

// ReturnNode represents Return [expr]
type ReturnNode struct {
	stmtBase
	Value Expression // nil for bare Return
}

func (n *ReturnNode) String() string {
	if n.Value == nil {
		return "Return;"
	}
	return "Return " + n.Value.String() + ";"
}

// ThrowNode represents throw expr
type ThrowNode struct {
	stmtBase
	Value Expression
}

func (n *ThrowNode) String() string { return "throw " + exprString(n.Value) + ";" }

// BreakNode represents Break
type BreakNode struct {
	stmtBase
}

func (n *BreakNode) String() string { return "Break;" }

// ContinueNode represents Continue
type ContinueNode struct {
	stmtBase
}

func (n *ContinueNode) String() string { return "Continue;" }

// ExitNode represents Exit [code]
type ExitNode struct {
	stmtBase
	Code Expression // nil when absent
}

func (n *ExitNode) String() string {
	if n.Code == nil {
		return "Exit;"
	}
	return "Exit " + n.Code.String() + ";"
}

// ErrorNode represents Error expr
type ErrorNode struct {
	stmtBase
	Message Expression
}

func (n *ErrorNode) String() string { return "Error " + exprString(n.Message) + ";" }

// WarningNode represents Warning expr
type WarningNode struct {
	stmtBase
	Message Expression
}

func (n *WarningNode) String() string { return "Warning " + exprString(n.Message) + ";" }

// ExpressionStatementNode wraps an expression (assignment or call) in
// statement position.
type ExpressionStatementNode struct {
	stmtBase
	Expr Expression
}

// NewExpressionStatement links the expression under the new statement.
func NewExpressionStatement(expr Expression) *ExpressionStatementNode {
	n := &ExpressionStatementNode{Expr: expr}
	if expr != nil {
		Adopt(n, expr)
		n.SetSpan(expr.Span())
	}
	return n
}

func (n *ExpressionStatementNode) String() string { return exprString(n.Expr) + ";" }

// BadStatementNode is the recovery placeholder produced when statement
// parsing fails.
type BadStatementNode struct {
	stmtBase
	From types.Token
}

func (n *BadStatementNode) String() string { return "<error>;" }
