// Package metadata models externally-sourced type information for
// application classes and record fields, and defines the Resolver capability
// the inference pass consumes. Resolvers must tolerate missing data: a nil
// result means "not known", never an error condition the caller has to
// handle specially.
package metadata

import (
	"strconv"
	"strings"

	"github.com/pcodekit/pcodekit/core/typesys"
)

// ParameterSig is one formal parameter of an externally-declared method.
type ParameterSig struct {
	Name string
	Type *typesys.TypeInfo
	Out  bool
}

// MethodSig describes one method of an application class.
type MethodSig struct {
	Name       string
	Parameters []ParameterSig
	Return     *typesys.TypeInfo // nil means void
	Visibility string
}

// PropertySig describes one property of an application class.
type PropertySig struct {
	Name       string
	Type       *typesys.TypeInfo
	ReadOnly   bool
	Visibility string
}

// TypeMetadata is everything the front end needs to know about one
// application class: members plus the base class for inheritance walks.
type TypeMetadata struct {
	QualifiedName string
	BaseClass     string // qualified name, empty at the root of the chain
	Methods       []MethodSig
	Properties    []PropertySig
}

// FindMethod returns the method with the given name, case-insensitively.
func (m *TypeMetadata) FindMethod(name string) *MethodSig {
	for i := range m.Methods {
		if strings.EqualFold(m.Methods[i].Name, name) {
			return &m.Methods[i]
		}
	}
	return nil
}

// FindProperty returns the property with the given name, case-insensitively.
func (m *TypeMetadata) FindProperty(name string) *PropertySig {
	for i := range m.Properties {
		if strings.EqualFold(m.Properties[i].Name, name) {
			return &m.Properties[i]
		}
	}
	return nil
}

// Resolver supplies externally-stored type information. Implementations may
// perform I/O; the front end calls it synchronously and treats a nil result
// as "unknown", degrading inference to Any rather than failing.
type Resolver interface {
	// GetTypeMetadata returns the metadata for a qualified application-class
	// name (PKG:SUB:Class), or nil when the class is not known.
	GetTypeMetadata(qualifiedName string) *TypeMetadata

	// GetFieldType returns the PeopleCode type of a record field, or nil
	// when the field is not known.
	GetFieldType(fieldName string) *typesys.TypeInfo
}

// TypeFromString parses a declared type as metadata files spell it:
// primitives ("string"), builtin objects ("Record"), arrays ("array of
// string", "array2 of number", bare "array"), and colon-qualified
// application classes ("PKG:SUB:Class"). Unknown spellings become builtin
// objects by name; empty strings mean Any.
func TypeFromString(s string) *typesys.TypeInfo {
	s = strings.TrimSpace(s)
	if s == "" {
		return typesys.TypeAny
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "array") {
		rest := lower[len("array"):]
		dims := 1
		head, tail, found := strings.Cut(rest, " of ")
		if !found {
			head = rest
		}
		if head != "" {
			if n, err := strconv.Atoi(strings.TrimSpace(head)); err == nil {
				dims = n
			} else {
				// not an array spelling after all (e.g. "arraybuffer")
				return typesys.ByName(s)
			}
		}
		var elem *typesys.TypeInfo
		if found {
			elem = TypeFromString(s[len(s)-len(tail):])
		}
		return typesys.NewArray(dims, elem)
	}

	if strings.Contains(s, ":") {
		return typesys.NewAppClass(s)
	}
	return typesys.ByName(s)
}
