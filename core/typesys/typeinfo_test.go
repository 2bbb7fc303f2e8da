package typesys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericJoin(t *testing.T) {
	// integer and number convert both ways
	assert.True(t, TypeInteger.IsAssignableFrom(TypeNumber))
	assert.True(t, TypeNumber.IsAssignableFrom(TypeInteger))
	assert.Equal(t, TypeNumber, TypeInteger.GetCommonType(TypeNumber))

	// the date/time family shares nothing; the join widens to Any
	assert.False(t, TypeDate.IsAssignableFrom(TypeTime))
	assert.False(t, TypeTime.IsAssignableFrom(TypeDate))
	assert.False(t, TypeDateTime.IsAssignableFrom(TypeTime))
	common := TypeDate.GetCommonType(TypeTime)
	assert.Equal(t, TypeAny, common)
}

func TestAnyAbsorption(t *testing.T) {
	all := []*TypeInfo{
		TypeString, TypeInteger, TypeNumber, TypeDate, TypeDateTime, TypeTime,
		TypeBoolean, TypeObject, TypeVoid, TypeUnknown,
		NewBuiltinObject("Record"),
		NewAppClass("PKG:SUB:Widget"),
		NewArray(2, TypeString),
		NewReference(RefField),
		NewUnionReturn(TypeString, TypeNumber),
	}
	for _, typ := range all {
		if typ.Kind == KindVoid {
			continue
		}
		assert.True(t, TypeAny.IsAssignableFrom(typ), "Any should accept %s", typ)
		assert.Equal(t, TypeAny, typ.GetCommonType(TypeAny), "join with Any should absorb for %s", typ)
	}
}

func TestRecordScrollCompatibility(t *testing.T) {
	record := NewBuiltinObject("Record")
	scroll := NewBuiltinObject("Scroll")
	rowset := NewBuiltinObject("Rowset")

	assert.True(t, record.IsAssignableFrom(scroll))
	assert.True(t, scroll.IsAssignableFrom(record))
	assert.False(t, record.IsAssignableFrom(rowset))
	assert.False(t, rowset.IsAssignableFrom(scroll))
}

func TestBuiltinObjectIdentity(t *testing.T) {
	// First-class builtins share singletons
	assert.Same(t, NewBuiltinObject("Record"), NewBuiltinObject("record"))

	// Long-tail builtins compare by case-insensitive name
	a := NewBuiltinObject("TreeCtrl")
	b := NewBuiltinObject("treectrl")
	c := NewBuiltinObject("Tree")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, a.Key(), b.Key())
}

func TestAppClassConstruction(t *testing.T) {
	cls := NewAppClass("APP_PKG:Utils:Formatter")
	assert.Equal(t, "Formatter", cls.Name)
	require.Len(t, cls.Package, 2)
	assert.Equal(t, "APP_PKG", cls.Package[0])
	assert.Equal(t, "APP_PKG:Utils:Formatter", cls.QualifiedName())

	same := NewAppClass("app_pkg:utils:formatter")
	assert.True(t, cls.Equal(same))
	assert.False(t, cls.Equal(NewAppClass("APP_PKG:Utils:Parser")))
}

func TestArrayAssignability(t *testing.T) {
	strings1 := NewArray(1, TypeString)
	strings2 := NewArray(2, TypeString)
	numbers1 := NewArray(1, TypeNumber)
	untyped1 := NewArray(1, nil)

	assert.True(t, strings1.IsAssignableFrom(strings1))
	assert.False(t, strings1.IsAssignableFrom(strings2), "dimensionality must match")
	assert.False(t, strings1.IsAssignableFrom(numbers1))
	assert.True(t, untyped1.IsAssignableFrom(strings1), "untyped array accepts any element type")
	assert.True(t, strings1.IsAssignableFrom(untyped1))
	assert.Equal(t, "array2 of string", strings2.String())
}

func TestObjectAcceptsNonPrimitives(t *testing.T) {
	assert.True(t, TypeObject.IsAssignableFrom(NewBuiltinObject("File")))
	assert.True(t, TypeObject.IsAssignableFrom(NewAppClass("PKG:Thing")))
	assert.True(t, TypeObject.IsAssignableFrom(NewArray(1, TypeString)))
	assert.False(t, TypeObject.IsAssignableFrom(TypeString))
	assert.False(t, TypeObject.IsAssignableFrom(TypeBoolean))
}

func TestUnknownNeverRejected(t *testing.T) {
	targets := []*TypeInfo{TypeString, TypeInteger, NewBuiltinObject("Record"), NewArray(1, TypeNumber)}
	for _, target := range targets {
		assert.True(t, target.IsAssignableFrom(TypeUnknown), "%s should accept Unknown", target)
	}
	assert.Equal(t, TypeUnknown, TypeString.GetCommonType(TypeUnknown))
}

func TestInvalidPoisons(t *testing.T) {
	bad := NewInvalid("arithmetic on object")
	assert.False(t, TypeAny.Equal(bad))
	assert.False(t, TypeNumber.IsAssignableFrom(bad))
	assert.Equal(t, bad, bad.GetCommonType(TypeNumber))
	assert.Equal(t, "invalid (arithmetic on object)", bad.String())
}

func TestUnionReturn(t *testing.T) {
	union := NewUnionReturn(TypeString, TypeNumber)

	// a union source fits when one alternative fits
	assert.True(t, TypeString.IsAssignableFrom(union))
	assert.True(t, TypeInteger.IsAssignableFrom(union), "number alternative converts to integer")
	assert.False(t, TypeDate.IsAssignableFrom(union))

	// a union target accepts anything one alternative accepts
	assert.True(t, union.IsAssignableFrom(TypeString))
	assert.False(t, union.IsAssignableFrom(TypeBoolean))
	assert.Equal(t, "string | number", union.String())
}

func TestReferenceCategories(t *testing.T) {
	rec := NewReference(RefRecord)
	fld := NewReference(RefField)
	assert.True(t, rec.IsAssignableFrom(NewReference(RefRecord)))
	assert.False(t, rec.IsAssignableFrom(fld))
	assert.Equal(t, "Record reference", rec.String())

	// a reference is not an instance
	assert.False(t, TypeObject.IsAssignableFrom(rec))
}
