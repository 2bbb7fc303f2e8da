// Package typesys models the PeopleCode type system: primitives, builtin
// objects, application classes, arrays, definition references, and the
// placeholder types (Any, Object, Void, Unknown, Invalid) that flow through
// inference. TypeInfo values are immutable; the stateless variants are
// package-level singletons.
package typesys

import (
	"fmt"
	"strings"
)

// Kind discriminates the TypeInfo variants
type Kind int

const (
	KindPrimitive Kind = iota
	KindBuiltinObject
	KindAppClass
	KindArray
	KindObject  // accepts any non-primitive value
	KindAny     // accepts everything, absorbing in joins
	KindVoid    // accepts nothing (no-return functions)
	KindUnknown // inference could not determine the type
	KindInvalid // statically impossible, carries a reason
	KindReference
	KindPolymorphic
	KindUnionReturn
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindBuiltinObject:
		return "builtin object"
	case KindAppClass:
		return "application class"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindAny:
		return "any"
	case KindVoid:
		return "void"
	case KindUnknown:
		return "unknown"
	case KindInvalid:
		return "invalid"
	case KindReference:
		return "reference"
	case KindPolymorphic:
		return "polymorphic"
	case KindUnionReturn:
		return "union"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Primitive identifies a PeopleCode primitive type
type Primitive int

const (
	PrimString Primitive = iota
	PrimInteger
	PrimNumber
	PrimDate
	PrimDateTime
	PrimTime
	PrimBoolean
)

var primitiveNames = [...]string{
	PrimString:   "string",
	PrimInteger:  "integer",
	PrimNumber:   "number",
	PrimDate:     "date",
	PrimDateTime: "datetime",
	PrimTime:     "time",
	PrimBoolean:  "boolean",
}

func (p Primitive) String() string {
	if int(p) < len(primitiveNames) && int(p) >= 0 {
		return primitiveNames[p]
	}
	return fmt.Sprintf("Primitive(%d)", int(p))
}

// BuiltinKind tags the builtin object classes the front end has first-class
// knowledge of. BuiltinOther covers the long tail of named builtins that only
// need name-based identity.
type BuiltinKind int

const (
	BuiltinOther BuiltinKind = iota
	BuiltinRecord
	BuiltinScroll // Record and Scroll are bidirectionally compatible
	BuiltinField
	BuiltinRow
	BuiltinRowset
	BuiltinSQL
	BuiltinFile
	BuiltinException
	BuiltinGrid
	BuiltinChart
	BuiltinJavaObject
	BuiltinApiObject
	BuiltinMessage
	BuiltinXmlDoc
	BuiltinXmlNode
)

// RefCategory tags a definition reference (Record.FOO, Field.BAR) — a value
// denoting a definition, not an instance.
type RefCategory int

const (
	RefRecord RefCategory = iota
	RefField
	RefSQL
	RefPage
	RefComponent
	RefMenu
	RefScroll
	RefHTML
	RefImage
	RefStyleSheet
	RefFileLayout
	RefOperation
)

var refCategoryNames = [...]string{
	RefRecord:     "Record",
	RefField:      "Field",
	RefSQL:        "SQL",
	RefPage:       "Page",
	RefComponent:  "Component",
	RefMenu:       "Menu",
	RefScroll:     "Scroll",
	RefHTML:       "HTML",
	RefImage:      "Image",
	RefStyleSheet: "StyleSheet",
	RefFileLayout: "FileLayout",
	RefOperation:  "Operation",
}

func (c RefCategory) String() string {
	if int(c) < len(refCategoryNames) && int(c) >= 0 {
		return refCategoryNames[c]
	}
	return fmt.Sprintf("RefCategory(%d)", int(c))
}

// PolyRule identifies how a polymorphic return type resolves at a call site
type PolyRule int

const (
	// PolySameAsObject resolves to the receiver's type (array.Clone())
	PolySameAsObject PolyRule = iota
	// PolyElementOfObject resolves to the receiver's element type (array.Get(i))
	PolyElementOfObject
	// PolySameAsFirstParameter resolves to the first argument's type
	PolySameAsFirstParameter
	// PolyArrayOfFirstParameter resolves to a one-dimensional array of the
	// first argument's type (CreateArrayRept)
	PolyArrayOfFirstParameter
)

// TypeInfo is the closed tagged union representing one PeopleCode type.
// Exactly the payload fields for the variant's Kind are meaningful; the rest
// stay zero. Values are immutable once constructed.
type TypeInfo struct {
	Kind Kind

	Prim    Primitive   // KindPrimitive
	Builtin BuiltinKind // KindBuiltinObject
	Name    string      // builtin object name / app class simple name
	Package []string    // KindAppClass package path (colon-separated segments)
	Dims    int         // KindArray dimensionality 1..9
	Elem    *TypeInfo   // KindArray element type (nil = untyped array)
	Ref     RefCategory // KindReference
	Poly    PolyRule    // KindPolymorphic
	Options []*TypeInfo // KindUnionReturn, ordered
	Reason  string      // KindInvalid diagnostic
}

// Singletons for the stateless variants; reused everywhere.
var (
	TypeString   = &TypeInfo{Kind: KindPrimitive, Prim: PrimString}
	TypeInteger  = &TypeInfo{Kind: KindPrimitive, Prim: PrimInteger}
	TypeNumber   = &TypeInfo{Kind: KindPrimitive, Prim: PrimNumber}
	TypeDate     = &TypeInfo{Kind: KindPrimitive, Prim: PrimDate}
	TypeDateTime = &TypeInfo{Kind: KindPrimitive, Prim: PrimDateTime}
	TypeTime     = &TypeInfo{Kind: KindPrimitive, Prim: PrimTime}
	TypeBoolean  = &TypeInfo{Kind: KindPrimitive, Prim: PrimBoolean}
	TypeObject   = &TypeInfo{Kind: KindObject}
	TypeAny      = &TypeInfo{Kind: KindAny}
	TypeVoid     = &TypeInfo{Kind: KindVoid}
	TypeUnknown  = &TypeInfo{Kind: KindUnknown}
)

var builtinKinds = map[string]BuiltinKind{
	"record":     BuiltinRecord,
	"scroll":     BuiltinScroll,
	"field":      BuiltinField,
	"row":        BuiltinRow,
	"rowset":     BuiltinRowset,
	"sql":        BuiltinSQL,
	"file":       BuiltinFile,
	"exception":  BuiltinException,
	"grid":       BuiltinGrid,
	"chart":      BuiltinChart,
	"javaobject": BuiltinJavaObject,
	"apiobject":  BuiltinApiObject,
	"message":    BuiltinMessage,
	"xmldoc":     BuiltinXmlDoc,
	"xmlnode":    BuiltinXmlNode,
}

var builtinSingletons = map[BuiltinKind]*TypeInfo{}

func init() {
	for name, kind := range builtinKinds {
		if kind == BuiltinOther {
			continue
		}
		builtinSingletons[kind] = &TypeInfo{Kind: KindBuiltinObject, Builtin: kind, Name: canonicalBuiltinName(name)}
	}
}

func canonicalBuiltinName(lower string) string {
	// Display names follow PeopleBooks capitalization
	special := map[string]string{
		"sql":        "SQL",
		"javaobject": "JavaObject",
		"apiobject":  "ApiObject",
		"xmldoc":     "XmlDoc",
		"xmlnode":    "XmlNode",
	}
	if s, ok := special[lower]; ok {
		return s
	}
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// NewBuiltinObject returns the TypeInfo for a builtin object class name.
// Names the front end tracks first-class share singletons; everything else
// gets name-based identity.
func NewBuiltinObject(name string) *TypeInfo {
	if kind, ok := builtinKinds[strings.ToLower(name)]; ok {
		return builtinSingletons[kind]
	}
	return &TypeInfo{Kind: KindBuiltinObject, Builtin: BuiltinOther, Name: name}
}

// NewAppClass builds an application-class type from a qualified
// colon-separated path (PKG:SUB:ClassName). The package path and simple name
// are derived at construction.
func NewAppClass(qualified string) *TypeInfo {
	parts := strings.Split(qualified, ":")
	simple := parts[len(parts)-1]
	return &TypeInfo{
		Kind:    KindAppClass,
		Name:    simple,
		Package: parts[:len(parts)-1],
	}
}

// QualifiedName returns the colon-separated path of an application class.
func (t *TypeInfo) QualifiedName() string {
	if t.Kind != KindAppClass {
		return t.Name
	}
	if len(t.Package) == 0 {
		return t.Name
	}
	return strings.Join(t.Package, ":") + ":" + t.Name
}

// NewArray builds an array type of the given dimensionality (1..9) and
// element type. A nil element means an untyped array.
func NewArray(dims int, elem *TypeInfo) *TypeInfo {
	if dims < 1 {
		dims = 1
	}
	if dims > 9 {
		dims = 9
	}
	return &TypeInfo{Kind: KindArray, Dims: dims, Elem: elem}
}

// NewReference builds a definition-reference type for the given category.
func NewReference(cat RefCategory) *TypeInfo {
	return &TypeInfo{Kind: KindReference, Ref: cat}
}

// NewPolymorphic builds a call-site-resolved return type.
func NewPolymorphic(rule PolyRule) *TypeInfo {
	return &TypeInfo{Kind: KindPolymorphic, Poly: rule}
}

// NewUnionReturn builds an ordered union of possible return types.
func NewUnionReturn(options ...*TypeInfo) *TypeInfo {
	return &TypeInfo{Kind: KindUnionReturn, Options: options}
}

// NewInvalid builds the invalid type carrying a diagnostic reason.
func NewInvalid(reason string) *TypeInfo {
	return &TypeInfo{Kind: KindInvalid, Reason: reason}
}

// IsNumeric reports whether t is one of the numeric primitives.
func (t *TypeInfo) IsNumeric() bool {
	return t.Kind == KindPrimitive && (t.Prim == PrimInteger || t.Prim == PrimNumber)
}

// IsObjectLike reports whether a value of t is a non-primitive instance.
func (t *TypeInfo) IsObjectLike() bool {
	switch t.Kind {
	case KindBuiltinObject, KindAppClass, KindArray, KindObject:
		return true
	default:
		return false
	}
}

// String renders the type the way PeopleCode declarations spell it.
func (t *TypeInfo) String() string {
	switch t.Kind {
	case KindPrimitive:
		return t.Prim.String()
	case KindBuiltinObject:
		return t.Name
	case KindAppClass:
		return t.QualifiedName()
	case KindArray:
		name := "array"
		if t.Dims > 1 {
			name = fmt.Sprintf("array%d", t.Dims)
		}
		if t.Elem == nil {
			return name
		}
		return name + " of " + t.Elem.String()
	case KindObject:
		return "object"
	case KindAny:
		return "any"
	case KindVoid:
		return "void"
	case KindUnknown:
		return "unknown"
	case KindInvalid:
		if t.Reason != "" {
			return "invalid (" + t.Reason + ")"
		}
		return "invalid"
	case KindReference:
		return t.Ref.String() + " reference"
	case KindPolymorphic:
		switch t.Poly {
		case PolySameAsObject:
			return "same as object"
		case PolyElementOfObject:
			return "element of object"
		case PolySameAsFirstParameter:
			return "same as first parameter"
		case PolyArrayOfFirstParameter:
			return "array of first parameter"
		}
		return "polymorphic"
	case KindUnionReturn:
		parts := make([]string, len(t.Options))
		for i, o := range t.Options {
			parts[i] = o.String()
		}
		return strings.Join(parts, " | ")
	default:
		return t.Kind.String()
	}
}

// Equal reports structural type identity: kind and sub-enum first, with
// case-insensitive name comparison only where identity is name-based.
func (t *TypeInfo) Equal(other *TypeInfo) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindPrimitive:
		return t.Prim == other.Prim
	case KindBuiltinObject:
		if t.Builtin != other.Builtin {
			return false
		}
		if t.Builtin == BuiltinOther {
			return strings.EqualFold(t.Name, other.Name)
		}
		return true
	case KindAppClass:
		return strings.EqualFold(t.QualifiedName(), other.QualifiedName())
	case KindArray:
		if t.Dims != other.Dims {
			return false
		}
		if t.Elem == nil || other.Elem == nil {
			return t.Elem == other.Elem
		}
		return t.Elem.Equal(other.Elem)
	case KindReference:
		return t.Ref == other.Ref
	case KindPolymorphic:
		return t.Poly == other.Poly
	case KindUnionReturn:
		if len(t.Options) != len(other.Options) {
			return false
		}
		for i := range t.Options {
			if !t.Options[i].Equal(other.Options[i]) {
				return false
			}
		}
		return true
	default:
		// Object, Any, Void, Unknown, Invalid carry no identity payload
		return true
	}
}

// Key returns a stable map key for the type: enum-first, name-fallback.
func (t *TypeInfo) Key() string {
	switch t.Kind {
	case KindPrimitive:
		return fmt.Sprintf("p:%d", t.Prim)
	case KindBuiltinObject:
		if t.Builtin == BuiltinOther {
			return "b:" + strings.ToLower(t.Name)
		}
		return fmt.Sprintf("b:%d", t.Builtin)
	case KindAppClass:
		return "c:" + strings.ToLower(t.QualifiedName())
	case KindArray:
		elem := ""
		if t.Elem != nil {
			elem = t.Elem.Key()
		}
		return fmt.Sprintf("a:%d:%s", t.Dims, elem)
	case KindReference:
		return fmt.Sprintf("r:%d", t.Ref)
	case KindPolymorphic:
		return fmt.Sprintf("y:%d", t.Poly)
	case KindUnionReturn:
		parts := make([]string, len(t.Options))
		for i, o := range t.Options {
			parts[i] = o.Key()
		}
		return "u:" + strings.Join(parts, ",")
	default:
		return fmt.Sprintf("k:%d", t.Kind)
	}
}
