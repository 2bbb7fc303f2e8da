package scope_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcodekit/pcodekit/core/typesys"
	"github.com/pcodekit/pcodekit/runtime/parser"
	"github.com/pcodekit/pcodekit/runtime/scope"
)

func collect(t *testing.T, source string) *scope.Collector {
	t.Helper()
	result := parser.Parse(source)
	return scope.Collect(result.Program, result.Tokens)
}

func names(vars []scope.VariableInfo) []string {
	out := make([]string, len(vars))
	for i, v := range vars {
		out[i] = v.Name
	}
	return out
}

func TestNoForwardVisibilityForLocals(t *testing.T) {
	source := strings.Join([]string{
		"Local string &a;",
		"Local integer &b = 1;",
		"Local number &c;",
	}, "\n")
	c := collect(t, source)

	// cursor at the start of the third declaration
	pos := strings.Index(source, "Local number")
	vars := c.AccessibleAt(pos, nil)

	assert.Equal(t, []string{"&a", "&b"}, names(vars))
}

func TestAllLocalsVisibleAfterDeclarations(t *testing.T) {
	source := "Local string &a;\nLocal integer &b;\n&a = \"x\";"
	c := collect(t, source)

	vars := c.AccessibleAt(len(source), nil)
	assert.Equal(t, []string{"&a", "&b"}, names(vars))
}

func TestUnhintedOrderFollowsDeclarations(t *testing.T) {
	source := strings.Join([]string{
		"Local string &zed;",
		"Local integer &alpha;",
		"&zed = \"x\";",
	}, "\n")
	c := collect(t, source)

	vars := c.AccessibleAt(len(source), nil)
	assert.Equal(t, []string{"&zed", "&alpha"}, names(vars))

	// A type hint switches to compatible-first, alphabetical within groups.
	hinted := c.AccessibleAt(len(source), []*typesys.TypeInfo{typesys.TypeString})
	assert.Equal(t, []string{"&zed", "&alpha"}, names(hinted))

	both := c.AccessibleAt(len(source), []*typesys.TypeInfo{typesys.TypeAny})
	assert.Equal(t, []string{"&alpha", "&zed"}, names(both))
}

func TestNoSuggestionsInsideStringLiteral(t *testing.T) {
	source := "Local string &a;\n&a = \"hello world\";"
	c := collect(t, source)

	pos := strings.Index(source, "world")
	assert.Nil(t, c.AccessibleAt(pos, nil))
}

func TestNoSuggestionsInsideDeclarationName(t *testing.T) {
	source := "Local string &alpha;\nLocal integer &beta;"
	c := collect(t, source)

	pos := strings.Index(source, "&beta") + 2
	assert.Nil(t, c.AccessibleAt(pos, nil))
}

func TestTypeCompatibleVariablesSortFirst(t *testing.T) {
	source := strings.Join([]string{
		"Local string &name;",
		"Local integer &count;",
		"Local string &addr;",
		"&name = \"\";",
	}, "\n")
	c := collect(t, source)

	vars := c.AccessibleAt(len(source), []*typesys.TypeInfo{typesys.TypeInteger})
	assert.Equal(t, []string{"&count", "&addr", "&name"}, names(vars))
}

func TestGlobalAndComponentVisible(t *testing.T) {
	source := "Global number &gTotal;\nComponent string &cMode;\n&x = 1;"
	c := collect(t, source)

	vars := c.AccessibleAt(len(source), nil)
	require.Len(t, vars, 2)
	assert.Equal(t, []string{"&gTotal", "&cMode"}, names(vars))
	assert.Equal(t, scope.KindGlobal, vars[0].Kind)
	assert.Equal(t, scope.KindComponent, vars[1].Kind)
}

func TestMethodParametersVisibleInImplementation(t *testing.T) {
	source := strings.Join([]string{
		"class Queue",
		"   method Push(&item As any);",
		"end-class;",
		"",
		"method Push",
		"   Local integer &n;",
		"   &n = 1;",
		"end-method;",
	}, "\n")
	c := collect(t, source)

	pos := strings.Index(source, "&n = 1")
	param, ok := c.Lookup("&item", pos)
	require.True(t, ok)
	assert.Equal(t, scope.KindParameter, param.Kind)

	local, ok := c.Lookup("&n", pos)
	require.True(t, ok)
	assert.Equal(t, scope.KindLocal, local.Kind)
}

func TestInstanceVariablesVisibleInMethods(t *testing.T) {
	source := strings.Join([]string{
		"class Counter",
		"   method Bump();",
		"private",
		"   instance integer &total;",
		"end-class;",
		"",
		"method Bump",
		"   &total = &total + 1;",
		"end-method;",
	}, "\n")
	c := collect(t, source)

	pos := strings.Index(source, "&total + 1")
	v, ok := c.Lookup("&total", pos)
	require.True(t, ok)
	assert.Equal(t, scope.KindInstance, v.Kind)
	assert.Equal(t, typesys.TypeInteger, v.Type)
}

func TestSetterReceivesNewValue(t *testing.T) {
	source := strings.Join([]string{
		"class Counter",
		"   property integer Value get set;",
		"end-class;",
		"",
		"set Value",
		"   &n = &NewValue;",
		"end-set;",
	}, "\n")
	c := collect(t, source)

	pos := strings.Index(source, "&n = ")
	v, ok := c.Lookup("&NewValue", pos)
	require.True(t, ok)
	assert.Equal(t, scope.KindParameter, v.Kind)
	assert.Equal(t, typesys.TypeInteger, v.Type)
}

func TestCatchVariableOnlyVisibleAfterCatch(t *testing.T) {
	source := strings.Join([]string{
		"try",
		"   &a = 1;",
		"catch Exception &err",
		"   &b = &err;",
		"end-try;",
	}, "\n")
	c := collect(t, source)

	inBody := strings.Index(source, "&b = ")
	_, ok := c.Lookup("&err", inBody)
	assert.True(t, ok)

	beforeCatch := strings.Index(source, "&a = 1")
	_, ok = c.Lookup("&err", beforeCatch)
	assert.False(t, ok)
}

func TestFunctionLocalsNotVisibleOutside(t *testing.T) {
	source := strings.Join([]string{
		"Function Helper()",
		"   Local string &inner;",
		"   &inner = \"x\";",
		"End-Function;",
		"",
		"&outer = 1;",
	}, "\n")
	c := collect(t, source)

	pos := strings.Index(source, "&outer")
	_, ok := c.Lookup("&inner", pos)
	assert.False(t, ok)
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	source := "Local string &Name;\n&Name = \"x\";"
	c := collect(t, source)

	v, ok := c.Lookup("&NAME", len(source))
	require.True(t, ok)
	assert.Equal(t, "&Name", v.Name)
}

func TestSuggestRanksByTypedPrefix(t *testing.T) {
	source := "Local number &total;\nLocal integer &count;\n&x = 1;"
	c := collect(t, source)

	vars := c.AccessibleAt(len(source), nil)
	got := scope.Suggest("tot", vars)

	require.NotEmpty(t, got)
	assert.Equal(t, "&total", got[0].Name)
	for _, v := range got {
		assert.NotEqual(t, "&count", v.Name)
	}
}

func TestSuggestEmptyPrefixReturnsAll(t *testing.T) {
	source := "Local number &a;\nLocal number &b;\n&x = 1;"
	c := collect(t, source)

	vars := c.AccessibleAt(len(source), nil)
	assert.Equal(t, names(vars), names(scope.Suggest("", vars)))
}

func TestAccessibleAtRejectsNegativePosition(t *testing.T) {
	c := collect(t, "Local string &a;\n")
	assert.Panics(t, func() { c.AccessibleAt(-1, nil) })
}
