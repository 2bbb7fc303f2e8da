package infer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcodekit/pcodekit/core/ast"
	"github.com/pcodekit/pcodekit/core/metadata"
	"github.com/pcodekit/pcodekit/core/typesys"
	"github.com/pcodekit/pcodekit/runtime/infer"
	"github.com/pcodekit/pcodekit/runtime/parser"
	"github.com/pcodekit/pcodekit/runtime/scope"
)

func engineFor(t *testing.T, source string, opts ...infer.Option) (*ast.ProgramNode, *infer.Engine) {
	t.Helper()
	result := parser.Parse(source)
	scopes := scope.Collect(result.Program, result.Tokens)
	return result.Program, infer.New(result.Program, scopes, opts...)
}

// assignValues returns the right-hand side of every assignment, in source
// order.
func assignValues(program *ast.ProgramNode) []ast.Expression {
	var out []ast.Expression
	ast.Walk(program, func(n ast.Node) bool {
		if assign, ok := n.(*ast.AssignmentNode); ok {
			out = append(out, assign.Value)
		}
		return true
	})
	return out
}

type fakeResolver struct {
	classes map[string]*metadata.TypeMetadata
	fields  map[string]*typesys.TypeInfo
}

func (f fakeResolver) GetTypeMetadata(qualified string) *metadata.TypeMetadata {
	return f.classes[strings.ToLower(qualified)]
}

func (f fakeResolver) GetFieldType(name string) *typesys.TypeInfo {
	return f.fields[strings.ToLower(name)]
}

func TestLiteralArithmetic(t *testing.T) {
	program, eng := engineFor(t, "&a = 1 + 2;\n&b = 1 + 2.5;\n&c = 4 / 2;\n&d = \"id-\" | 7;\n")
	values := assignValues(program)
	require.Len(t, values, 4)

	assert.Equal(t, typesys.TypeInteger, eng.TypeOf(values[0]))
	assert.Equal(t, typesys.TypeNumber, eng.TypeOf(values[1]))
	assert.Equal(t, typesys.TypeNumber, eng.TypeOf(values[2]), "division widens to number")
	assert.Equal(t, typesys.TypeString, eng.TypeOf(values[3]))
}

func TestComparisonsAreBoolean(t *testing.T) {
	program, eng := engineFor(t, "&a = 1 < 2;\n&b = \"x\" = \"y\";\n&c = True And False;\n")
	for _, value := range assignValues(program) {
		assert.Equal(t, typesys.TypeBoolean, eng.TypeOf(value))
	}
}

func TestArithmeticOnBooleanIsInvalid(t *testing.T) {
	program, eng := engineFor(t, "&a = True + 1;\n")
	values := assignValues(program)
	require.Len(t, values, 1)

	got := eng.TypeOf(values[0])
	assert.Equal(t, typesys.KindInvalid, got.Kind)
	assert.Contains(t, got.Reason, "boolean")
}

func TestUnknownOperandStaysUnknown(t *testing.T) {
	program, eng := engineFor(t, "&a = &undeclared + 1;\n")
	values := assignValues(program)
	require.Len(t, values, 1)
	assert.Equal(t, typesys.TypeUnknown, eng.TypeOf(values[0]))
}

func TestDeclaredVariableType(t *testing.T) {
	program, eng := engineFor(t, "Local number &n;\n&a = &n * 2;\n&b = - &n;\n")
	values := assignValues(program)
	require.Len(t, values, 2)
	assert.Equal(t, typesys.TypeNumber, eng.TypeOf(values[0]))
	assert.Equal(t, typesys.TypeNumber, eng.TypeOf(values[1]))
}

func TestNegatingStringIsInvalid(t *testing.T) {
	program, eng := engineFor(t, "Local string &s;\n&a = - &s;\n")
	values := assignValues(program)
	require.Len(t, values, 1)
	assert.Equal(t, typesys.KindInvalid, eng.TypeOf(values[0]).Kind)
}

func TestArrayIndexPeelsDimensions(t *testing.T) {
	program, eng := engineFor(t, "Local array2 of string &grid;\n&row = &grid[1];\n&cell = &grid[1, 2];\n")
	values := assignValues(program)
	require.Len(t, values, 2)

	assert.Equal(t, typesys.NewArray(1, typesys.TypeString), eng.TypeOf(values[0]))
	assert.Equal(t, typesys.TypeString, eng.TypeOf(values[1]))
}

func TestBuiltinFunctionReturns(t *testing.T) {
	program, eng := engineFor(t, "&u = Upper(\"x\");\n&n = Round(3.7, 0);\n&r = CreateRecord(Record.PSOPRDEFN);\n")
	values := assignValues(program)
	require.Len(t, values, 3)

	assert.Equal(t, typesys.TypeString, eng.TypeOf(values[0]))
	assert.Equal(t, typesys.TypeNumber, eng.TypeOf(values[1]))
	assert.Equal(t, typesys.NewBuiltinObject("Record"), eng.TypeOf(values[2]))
}

func TestCreateArrayTakesElementFromFirstArgument(t *testing.T) {
	program, eng := engineFor(t, "&a = CreateArray(1, 2, 3);\n")
	values := assignValues(program)
	require.Len(t, values, 1)
	assert.Equal(t, typesys.NewArray(1, typesys.TypeInteger), eng.TypeOf(values[0]))
}

func TestArrayMethodsResolveAgainstReceiver(t *testing.T) {
	program, eng := engineFor(t, "Local array of number &nums;\n&c = &nums.Clone();\n&p = &nums.Pop();\n&l = &nums.Len;\n")
	values := assignValues(program)
	require.Len(t, values, 3)

	assert.Equal(t, typesys.NewArray(1, typesys.TypeNumber), eng.TypeOf(values[0]))
	assert.Equal(t, typesys.TypeNumber, eng.TypeOf(values[1]))
	assert.Equal(t, typesys.TypeInteger, eng.TypeOf(values[2]))
}

func TestBuiltinObjectChain(t *testing.T) {
	program, eng := engineFor(t, "&v = CreateRecord(Record.JOB).GetField(Field.EMPLID).Value;\n")
	values := assignValues(program)
	require.Len(t, values, 1)
	assert.Equal(t, typesys.TypeAny, eng.TypeOf(values[0]))
}

func TestLocalFunctionReturnType(t *testing.T) {
	source := "Function Half(&n As number) Returns number\n" +
		"   Return &n / 2;\n" +
		"End-Function;\n" +
		"&h = Half(10);\n"
	program, eng := engineFor(t, source)
	values := assignValues(program)
	require.NotEmpty(t, values)
	assert.Equal(t, typesys.TypeNumber, eng.TypeOf(values[len(values)-1]))
}

func TestSystemVariables(t *testing.T) {
	program, eng := engineFor(t, "&u = %UserId;\n&d = %Date;\n&x = %SomethingElse;\n")
	values := assignValues(program)
	require.Len(t, values, 3)

	assert.Equal(t, typesys.TypeString, eng.TypeOf(values[0]))
	assert.Equal(t, typesys.TypeDate, eng.TypeOf(values[1]))
	assert.Equal(t, typesys.TypeAny, eng.TypeOf(values[2]))
}

func TestInterpolatedStringIsString(t *testing.T) {
	program, eng := engineFor(t, "&s = $\"hello {%UserId}\";\n")
	values := assignValues(program)
	require.Len(t, values, 1)
	assert.Equal(t, typesys.TypeString, eng.TypeOf(values[0]))
}

func TestCastPinsAppClassType(t *testing.T) {
	program, eng := engineFor(t, "Local object &o;\n&b = &o As UI:Banner;\n")
	values := assignValues(program)
	require.Len(t, values, 1)

	got := eng.TypeOf(values[0])
	assert.Equal(t, typesys.KindAppClass, got.Kind)
	assert.Equal(t, "UI:Banner", got.QualifiedName())
}

func TestMetadataMemberWithInheritance(t *testing.T) {
	resolver := fakeResolver{classes: map[string]*metadata.TypeMetadata{
		"ui:banner": {
			QualifiedName: "UI:Banner",
			BaseClass:     "UI:Base",
			Methods: []metadata.MethodSig{
				{Name: "Show", Return: typesys.TypeBoolean},
			},
		},
		"ui:base": {
			QualifiedName: "UI:Base",
			Properties: []metadata.PropertySig{
				{Name: "Label", Type: typesys.TypeString},
			},
		},
	}}

	source := "Local UI:Banner &banner;\n&ok = &banner.Show();\n&label = &banner.Label;\n"
	program, eng := engineFor(t, source, infer.WithResolver(resolver))
	values := assignValues(program)
	require.Len(t, values, 2)

	assert.Equal(t, typesys.TypeBoolean, eng.TypeOf(values[0]))
	assert.Equal(t, typesys.TypeString, eng.TypeOf(values[1]), "property found on the base class")
}

func TestMissingMetadataDegradesToAny(t *testing.T) {
	program, eng := engineFor(t, "Local UI:Banner &banner;\n&x = &banner.Whatever;\n")
	values := assignValues(program)
	require.Len(t, values, 1)
	assert.Equal(t, typesys.TypeAny, eng.TypeOf(values[0]))
}

func TestRecordFieldThroughResolver(t *testing.T) {
	resolver := fakeResolver{fields: map[string]*typesys.TypeInfo{
		"emplid": typesys.TypeString,
	}}
	program, eng := engineFor(t, "&id = EMPLID;\n", infer.WithResolver(resolver))
	values := assignValues(program)
	require.Len(t, values, 1)
	assert.Equal(t, typesys.TypeString, eng.TypeOf(values[0]))
}

func TestThisInsideClassMethod(t *testing.T) {
	source := "class Counter\n" +
		"   method Bump() Returns integer;\n" +
		"private\n" +
		"   instance integer &count;\n" +
		"end-class;\n" +
		"\n" +
		"method Bump\n" +
		"   Return %This.Bump();\n" +
		"end-method;\n"
	program, eng := engineFor(t, source, infer.WithQualifiedName("APP:Counter"))

	var call ast.Expression
	ast.Walk(program, func(n ast.Node) bool {
		if c, ok := n.(*ast.FunctionCallNode); ok && call == nil {
			call = c
		}
		return true
	})
	require.NotNil(t, call)
	assert.Equal(t, typesys.TypeInteger, eng.TypeOf(call))
}

func TestSuperResolvesToExtendsClause(t *testing.T) {
	source := "class Banner extends UI:BaseBanner\n" +
		"   method Banner();\n" +
		"end-class;\n" +
		"\n" +
		"method Banner\n" +
		"   &b = %Super;\n" +
		"end-method;\n"
	program, eng := engineFor(t, source)
	values := assignValues(program)
	require.Len(t, values, 1)

	got := eng.TypeOf(values[0])
	assert.Equal(t, typesys.KindAppClass, got.Kind)
	assert.Equal(t, "UI:BaseBanner", got.QualifiedName())
}

func TestAnnotateFillsMemoTable(t *testing.T) {
	program, eng := engineFor(t, "&a = 1 + 2;\n&b = Upper(\"x\");\n")
	eng.Annotate()
	assert.Greater(t, eng.Known(), 4)
	_ = program
}

func TestNewRequiresProgramAndScopes(t *testing.T) {
	result := parser.Parse("&a = 1;\n")
	scopes := scope.Collect(result.Program, result.Tokens)

	assert.Panics(t, func() { infer.New(nil, scopes) })
	assert.Panics(t, func() { infer.New(result.Program, nil) })
}
