package builtins_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcodekit/pcodekit/core/typesys"
	"github.com/pcodekit/pcodekit/runtime/builtins"
	"github.com/pcodekit/pcodekit/runtime/validate"
)

func TestLookupIsCaseInsensitive(t *testing.T) {
	fn, ok := builtins.Lookup("createrecord")
	require.True(t, ok)
	assert.Equal(t, "CreateRecord", fn.Name)
	assert.Equal(t, typesys.NewBuiltinObject("Record"), fn.Return)

	_, ok = builtins.Lookup("NoSuchFunction")
	assert.False(t, ok)
}

func TestArrayMembersResolveByKind(t *testing.T) {
	strings2 := typesys.NewArray(2, typesys.TypeString)

	clone, ok := builtins.LookupMember(strings2, "clone")
	require.True(t, ok)
	assert.Equal(t, builtins.MemberMethod, clone.Kind)
	assert.Equal(t, typesys.PolySameAsObject, clone.Return.Poly)

	length, ok := builtins.LookupMember(strings2, "Len")
	require.True(t, ok)
	assert.Equal(t, builtins.MemberProperty, length.Kind)
	assert.Equal(t, typesys.TypeInteger, length.Type)
}

func TestObjectMembers(t *testing.T) {
	record := typesys.NewBuiltinObject("Record")

	getField, ok := builtins.LookupMember(record, "GETFIELD")
	require.True(t, ok)
	assert.Equal(t, typesys.NewBuiltinObject("Field"), getField.Return)

	_, ok = builtins.LookupMember(record, "NoSuchMember")
	assert.False(t, ok)
}

func TestPrimitivesHaveNoMembers(t *testing.T) {
	_, ok := builtins.LookupMember(typesys.TypeString, "Len")
	assert.False(t, ok)

	_, ok = builtins.LookupMember(nil, "Len")
	assert.False(t, ok)
}

func TestSignaturesValidateCalls(t *testing.T) {
	fn, ok := builtins.Lookup("MsgGet")
	require.True(t, ok)

	good := validate.Validate(fn.Name, fn.Overloads, []validate.Argument{
		{Type: typesys.TypeInteger},
		{Type: typesys.TypeInteger},
		{Type: typesys.TypeString},
		{Type: typesys.TypeString},
		{Type: typesys.TypeNumber},
	})
	assert.True(t, good.IsValid)

	bad := validate.Validate(fn.Name, fn.Overloads, []validate.Argument{
		{Type: typesys.TypeInteger},
		{Type: typesys.TypeInteger},
	})
	require.False(t, bad.IsValid)
	assert.Equal(t, validate.FailureMissingArgument, bad.Failure)
}

func TestOutBindRequiresVariable(t *testing.T) {
	fn, ok := builtins.Lookup("SQLExec")
	require.True(t, ok)

	result := validate.Validate(fn.Name, fn.Overloads, []validate.Argument{
		{Type: typesys.TypeString},
		{Type: typesys.TypeString, IsVariable: false},
	})
	assert.False(t, result.IsValid)

	result = validate.Validate(fn.Name, fn.Overloads, []validate.Argument{
		{Type: typesys.TypeString},
		{Type: typesys.TypeString, IsVariable: true},
	})
	assert.True(t, result.IsValid)
}

func TestFunctionNamesForSuggestions(t *testing.T) {
	names := builtins.FunctionNames()
	assert.Contains(t, names, "CreateArray")
	assert.Contains(t, names, "MessageBox")
}
