package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcodekit/pcodekit/core/types"
	"github.com/pcodekit/pcodekit/core/typesys"
)

func tok(t types.TokenType, value string) types.Token {
	return types.Token{Type: t, Value: value, Raw: value}
}

func TestAdoptSetsParent(t *testing.T) {
	left := NewIdentifier(IdentUser, tok(types.USERVAR, "&a"))
	right := NewLiteral(LiteralInteger, tok(types.INTEGER, "1"))
	bin := NewBinaryOperation(OpAdd, left, right)

	assert.Same(t, Node(bin), left.Parent())
	assert.Same(t, Node(bin), right.Parent())
	require.Len(t, bin.Children(), 2)

	Remove(bin, left)
	assert.Nil(t, left.Parent())
	require.Len(t, bin.Children(), 1)
	assert.Same(t, Node(right), bin.Children()[0])
}

func TestMethodImplementationLinkage(t *testing.T) {
	decl := &MethodNode{Name: "Compute"}
	impl := &MethodImplementationNode{Name: "Compute"}
	decl.SetImplementation(impl)

	require.NotNil(t, decl.Implementation)
	assert.Same(t, decl, decl.Implementation.Declaration)
}

func TestPropertyAccessorLinkage(t *testing.T) {
	prop := &PropertyNode{Name: "Total", Type: NewNamedType(tok(types.IDENT, "number"))}
	getter := &PropertyImplementationNode{Name: "Total"}
	setter := &PropertyImplementationNode{Name: "Total"}
	prop.SetGetter(getter)
	prop.SetSetter(setter)

	assert.Same(t, prop, getter.Declaration)
	assert.True(t, getter.IsGetter)
	assert.Same(t, prop, setter.Declaration)
	assert.False(t, setter.IsGetter)
}

func TestIsLValue(t *testing.T) {
	user := NewIdentifier(IdentUser, tok(types.USERVAR, "&rec"))
	system := NewIdentifier(IdentSystem, tok(types.SYSVAR, "%UserId"))
	member := NewMemberAccess(user, tok(types.IDENT, "Name"))
	index := NewArrayIndex(user, []Expression{NewLiteral(LiteralInteger, tok(types.INTEGER, "1"))})
	call := NewFunctionCall(NewIdentifier(IdentPlain, tok(types.IDENT, "Len")), nil)

	assert.True(t, user.IsLValue())
	assert.False(t, system.IsLValue())
	assert.True(t, member.IsLValue())
	assert.True(t, index.IsLValue())
	assert.False(t, call.IsLValue())
	assert.False(t, NewLiteral(LiteralString, tok(types.STRING, "x")).IsLValue())
}

func TestHasSideEffects(t *testing.T) {
	lit := NewLiteral(LiteralInteger, tok(types.INTEGER, "1"))
	user := NewIdentifier(IdentUser, tok(types.USERVAR, "&x"))
	pure := NewBinaryOperation(OpAdd, user, lit)
	assert.False(t, pure.HasSideEffects())

	call := NewFunctionCall(NewIdentifier(IdentPlain, tok(types.IDENT, "DoWork")), nil)
	assert.True(t, call.HasSideEffects())

	// side effects propagate structurally, they are never stored
	nested := NewBinaryOperation(OpConcat, NewIdentifier(IdentUser, tok(types.USERVAR, "&y")), call)
	assert.True(t, nested.HasSideEffects())

	assign := NewAssignment(user, lit)
	assert.True(t, assign.HasSideEffects())
}

func TestBinaryOperatorPrecedence(t *testing.T) {
	ordered := []BinaryOperator{OpOr, OpAnd, OpEqual, OpLess, OpConcat, OpAdd, OpMultiply, OpPower}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1].Precedence(), ordered[i].Precedence(),
			"%s should bind looser than %s", ordered[i-1].Symbol(), ordered[i].Symbol())
	}
	assert.True(t, OpPower.RightAssociative())
	assert.False(t, OpAdd.RightAssociative())
}

func TestTypeNodeResolve(t *testing.T) {
	named := NewNamedType(tok(types.IDENT, "integer"))
	assert.Same(t, typesys.TypeInteger, named.Resolve())

	cls := NewAppClassType([]string{"PKG", "Widget"}, types.SourceSpan{})
	resolved := cls.Resolve()
	assert.Equal(t, typesys.KindAppClass, resolved.Kind)
	assert.Equal(t, "PKG:Widget", resolved.QualifiedName())

	arr := NewArrayType(2, NewNamedType(tok(types.IDENT, "string")), types.SourceSpan{})
	resolvedArr := arr.Resolve()
	assert.Equal(t, typesys.KindArray, resolvedArr.Kind)
	assert.Equal(t, 2, resolvedArr.Dims)
	assert.Same(t, typesys.TypeString, resolvedArr.Elem)

	obj := NewNamedType(tok(types.IDENT, "Rowset"))
	assert.Equal(t, typesys.KindBuiltinObject, obj.Resolve().Kind)
}

func TestSideTable(t *testing.T) {
	table := NewSideTable[*typesys.TypeInfo]()
	node := NewLiteral(LiteralInteger, tok(types.INTEGER, "7"))

	_, ok := table.Get(node)
	assert.False(t, ok)

	table.Set(node, typesys.TypeInteger)
	got, ok := table.Get(node)
	require.True(t, ok)
	assert.Same(t, typesys.TypeInteger, got)
	assert.Equal(t, 1, table.Len())
}

func TestProgramIndices(t *testing.T) {
	prog := NewProgram()
	first := NewExpressionStatement(nil)
	second := NewExpressionStatement(nil)

	prog.RegisterStatement(first, 3)
	prog.RegisterStatement(second, 3)

	line, ok := prog.StatementLine(1)
	require.True(t, ok)
	assert.Equal(t, 3, line)

	stmt, ok := prog.FirstStatementOnLine(3)
	require.True(t, ok)
	assert.Same(t, Statement(first), stmt, "first statement on the line wins")

	_, ok = prog.StatementLine(5)
	assert.False(t, ok)
}

func TestBlockEndsWithSemicolon(t *testing.T) {
	block := NewBlock()
	assert.True(t, block.EndsWithSemicolon(), "empty block never suppresses the end marker")

	stmt := NewExpressionStatement(nil)
	block.Append(stmt)
	assert.False(t, block.EndsWithSemicolon())

	stmt.SetHasSemicolon(true)
	assert.True(t, block.EndsWithSemicolon())
}
