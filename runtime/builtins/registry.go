// Package builtins carries the signature catalog for PeopleCode's built-in
// functions and built-in object members. It feeds two consumers: the call
// validator (parameter shapes) and the inference pass (return types,
// including the polymorphic ones resolved at the call site).
package builtins

import (
	"strings"

	"github.com/pcodekit/pcodekit/core/typesys"
	"github.com/pcodekit/pcodekit/runtime/validate"
)

// Function is one built-in function: its overloads plus its return type,
// which may be polymorphic or a union.
type Function struct {
	Name      string
	Overloads []validate.Overload
	Return    *typesys.TypeInfo // nil means no value (statement-position call)
}

// MemberKind distinguishes object methods from object properties
type MemberKind int

const (
	MemberMethod MemberKind = iota
	MemberProperty
)

// Member is one method or property of a built-in object class (or of
// arrays, which are looked up separately by kind rather than by name).
type Member struct {
	Name      string
	Kind      MemberKind
	Type      *typesys.TypeInfo // property type
	Overloads []validate.Overload
	Return    *typesys.TypeInfo // method return, may be polymorphic
}

var (
	functions = make(map[string]*Function)
	members   = make(map[string]map[string]*Member) // object name -> member name
)

func register(fn *Function) {
	functions[strings.ToLower(fn.Name)] = fn
}

func registerMember(object string, m *Member) {
	key := strings.ToLower(object)
	if members[key] == nil {
		members[key] = make(map[string]*Member)
	}
	members[key][strings.ToLower(m.Name)] = m
}

// Lookup finds a built-in function by name, case-insensitively.
func Lookup(name string) (*Function, bool) {
	fn, ok := functions[strings.ToLower(name)]
	return fn, ok
}

// LookupMember finds a method or property on a built-in object or array
// type. Returns false for types that have no member table.
func LookupMember(t *typesys.TypeInfo, name string) (*Member, bool) {
	if t == nil {
		return nil, false
	}
	var table map[string]*Member
	switch t.Kind {
	case typesys.KindArray:
		table = members["array"]
	case typesys.KindBuiltinObject:
		table = members[strings.ToLower(t.Name)]
	default:
		return nil, false
	}
	m, ok := table[strings.ToLower(name)]
	return m, ok
}

// FunctionNames returns every registered function name, for fuzzy
// suggestions on unknown calls.
func FunctionNames() []string {
	out := make([]string, 0, len(functions))
	for _, fn := range functions {
		out = append(out, fn.Name)
	}
	return out
}
