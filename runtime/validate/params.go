// Package validate checks call argument lists against builtin parameter
// signatures and answers the call-tip query of what may come next.
package validate

import (
	"strings"

	"github.com/pcodekit/pcodekit/core/typesys"
)

// Parameter is one slot shape in an overload signature. The set of
// implementations is closed: Single, Union, Group, Variable, Reference.
type Parameter interface {
	paramNode()
}

// SingleParameter accepts one argument of one declared type.
type SingleParameter struct {
	Name string
	Type *typesys.TypeInfo
	Out  bool // must be an assignable variable at the call site
}

// UnionParameter accepts one argument matching any of the options, tried in
// declared order.
type UnionParameter struct {
	Name    string
	Options []*typesys.TypeInfo
}

// ParameterGroup matches its items in sequence; an Optional group may be
// skipped entirely (all-or-nothing).
type ParameterGroup struct {
	Items    []Parameter
	Optional bool
}

// VariableParameter repeats its item between Min and Max times. Max <= 0
// means unbounded.
type VariableParameter struct {
	Item Parameter
	Min  int
	Max  int
}

// ReferenceParameter accepts a definition reference (Record.FOO style) of
// one of the listed categories.
type ReferenceParameter struct {
	Name       string
	Categories []typesys.RefCategory
}

func (SingleParameter) paramNode()    {}
func (UnionParameter) paramNode()     {}
func (ParameterGroup) paramNode()     {}
func (VariableParameter) paramNode()  {}
func (ReferenceParameter) paramNode() {}

// Single is shorthand for a required typed parameter.
func Single(t *typesys.TypeInfo) SingleParameter { return SingleParameter{Type: t} }

// Union is shorthand for a one-of parameter.
func Union(options ...*typesys.TypeInfo) UnionParameter {
	return UnionParameter{Options: options}
}

// Optional wraps parameters into a skippable group.
func Optional(items ...Parameter) ParameterGroup {
	return ParameterGroup{Items: items, Optional: true}
}

// Variadic repeats a parameter zero or more times.
func Variadic(item Parameter) VariableParameter {
	return VariableParameter{Item: item, Min: 0}
}

// Reference is shorthand for a definition-reference parameter.
func Reference(categories ...typesys.RefCategory) ReferenceParameter {
	return ReferenceParameter{Categories: categories}
}

// Argument is one concrete call-site argument: its inferred type plus
// whether it is an assignable variable (needed for out parameters).
type Argument struct {
	Type       *typesys.TypeInfo
	IsVariable bool
}

// Overload is one acceptable argument shape of a builtin function.
type Overload struct {
	Parameters []Parameter
}

func describeTypes(types []*typesys.TypeInfo) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, " or ")
}
