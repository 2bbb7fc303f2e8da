package validate

import (
	"fmt"

	"github.com/pcodekit/pcodekit/core/typesys"
)

// FailureKind classifies why no overload matched
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureTypeMismatch
	FailureMissingArgument
	FailureTooManyArguments
)

func (k FailureKind) String() string {
	switch k {
	case FailureTypeMismatch:
		return "TypeMismatch"
	case FailureMissingArgument:
		return "MissingArgument"
	case FailureTooManyArguments:
		return "TooManyArguments"
	default:
		return "None"
	}
}

// ValidationResult is the validator's structured output. A non-matching call
// is normal output, not an error: IsValid is false and the failure fields
// describe the most specific problem found across all overloads.
type ValidationResult struct {
	FunctionName string
	IsValid      bool
	Failure      FailureKind
	ArgIndex     int                 // 0-based argument position of the failure
	Expected     []*typesys.TypeInfo // acceptable types at that position, merged across overloads
	Found        *typesys.TypeInfo   // nil for MissingArgument
}

// GetDetailedError renders the one-line human message the editor shows in
// call tips. Valid results render empty.
func (r *ValidationResult) GetDetailedError() string {
	if r.IsValid {
		return ""
	}
	n := r.ArgIndex + 1
	switch r.Failure {
	case FailureMissingArgument:
		return fmt.Sprintf("%s(): Argument %d is missing, expected %s",
			r.FunctionName, n, describeTypes(r.Expected))
	case FailureTooManyArguments:
		return fmt.Sprintf("%s(): Argument %d is not expected", r.FunctionName, n)
	default:
		return fmt.Sprintf("%s(): Argument %d should be %s, found %s",
			r.FunctionName, n, describeTypes(r.Expected), r.Found)
	}
}

// Validate checks the argument list against each overload and returns the
// first match, or the deepest classified failure when none match.
func Validate(name string, overloads []Overload, args []Argument) *ValidationResult {
	if len(overloads) == 0 {
		return &ValidationResult{FunctionName: name, IsValid: true}
	}

	m := &matcher{args: args}
	for _, ov := range overloads {
		if m.match(ov.Parameters, 0) {
			return &ValidationResult{FunctionName: name, IsValid: true}
		}
	}

	result := &ValidationResult{
		FunctionName: name,
		Failure:      FailureTypeMismatch,
	}
	if m.best != nil {
		result.Failure = m.best.kind
		result.ArgIndex = m.best.index
		result.Expected = m.best.expected
		result.Found = m.best.found
	}
	return result
}

type failureRecord struct {
	kind     FailureKind
	index    int
	expected []*typesys.TypeInfo
	found    *typesys.TypeInfo
}

// matcher runs the structural match; backtracking is confined to variadic
// repetition counts and union option order. It accumulates the deepest,
// most specific failure across every attempted path.
type matcher struct {
	args []Argument
	best *failureRecord
}

func (m *matcher) match(params []Parameter, pos int) bool {
	if len(params) == 0 {
		if pos == len(m.args) {
			return true
		}
		m.record(FailureTooManyArguments, pos, nil, m.args[pos].Type)
		return false
	}

	switch p := params[0].(type) {
	case SingleParameter:
		if pos >= len(m.args) {
			m.record(FailureMissingArgument, pos, []*typesys.TypeInfo{p.Type}, nil)
			return false
		}
		arg := m.args[pos]
		if !accepts(p.Type, arg.Type) || p.Out && !arg.IsVariable && !isUnknown(arg.Type) {
			m.record(FailureTypeMismatch, pos, []*typesys.TypeInfo{p.Type}, arg.Type)
			return false
		}
		return m.match(params[1:], pos+1)

	case UnionParameter:
		if pos >= len(m.args) {
			m.record(FailureMissingArgument, pos, p.Options, nil)
			return false
		}
		arg := m.args[pos]
		anyAccepted := false
		for _, opt := range p.Options {
			if accepts(opt, arg.Type) {
				anyAccepted = true
				if m.match(params[1:], pos+1) {
					return true
				}
			}
		}
		if !anyAccepted {
			m.record(FailureTypeMismatch, pos, p.Options, arg.Type)
		}
		return false

	case ParameterGroup:
		expanded := make([]Parameter, 0, len(p.Items)+len(params)-1)
		expanded = append(expanded, p.Items...)
		expanded = append(expanded, params[1:]...)
		if m.match(expanded, pos) {
			return true
		}
		if p.Optional {
			return m.match(params[1:], pos)
		}
		return false

	case VariableParameter:
		// greedy: longest repetition first
		most := len(m.args) - pos
		if p.Max > 0 && p.Max < most {
			most = p.Max
		}
		if most < p.Min {
			most = p.Min // still attempted, so Missing gets recorded
		}
		for n := most; n >= p.Min; n-- {
			expanded := make([]Parameter, 0, n+len(params)-1)
			for i := 0; i < n; i++ {
				expanded = append(expanded, p.Item)
			}
			expanded = append(expanded, params[1:]...)
			if m.match(expanded, pos) {
				return true
			}
		}
		return false

	case ReferenceParameter:
		if pos >= len(m.args) {
			m.record(FailureMissingArgument, pos, referenceTypes(p.Categories), nil)
			return false
		}
		arg := m.args[pos]
		if !acceptsReference(p.Categories, arg.Type) {
			m.record(FailureTypeMismatch, pos, referenceTypes(p.Categories), arg.Type)
			return false
		}
		return m.match(params[1:], pos+1)
	}
	return false
}

// record keeps the furthest-progressed failure; at equal depth a
// TypeMismatch beats the other kinds, and equal failures merge their
// expected-type sets so the user sees every acceptable type at once.
func (m *matcher) record(kind FailureKind, index int, expected []*typesys.TypeInfo, found *typesys.TypeInfo) {
	if m.best == nil || index > m.best.index {
		m.best = &failureRecord{kind: kind, index: index, expected: dedupe(expected), found: found}
		return
	}
	if index < m.best.index {
		return
	}
	if kind == FailureTypeMismatch && m.best.kind != FailureTypeMismatch {
		m.best = &failureRecord{kind: kind, index: index, expected: dedupe(expected), found: found}
		return
	}
	if kind == m.best.kind {
		m.best.expected = dedupe(append(m.best.expected, expected...))
	}
}

// accepts reports whether a declared parameter type takes the argument.
// Unknown arguments are always accepted: the validator rejects only on
// "known and wrong", never on "don't know".
func accepts(declared, arg *typesys.TypeInfo) bool {
	if arg == nil || isUnknown(arg) {
		return true
	}
	return declared.IsAssignableFrom(arg)
}

func acceptsReference(categories []typesys.RefCategory, arg *typesys.TypeInfo) bool {
	if arg == nil || isUnknown(arg) || arg == typesys.TypeAny {
		return true
	}
	if arg.Kind != typesys.KindReference {
		return false
	}
	if len(categories) == 0 {
		return true
	}
	for _, cat := range categories {
		if arg.Ref == cat {
			return true
		}
	}
	return false
}

func isUnknown(t *typesys.TypeInfo) bool {
	return t == nil || t.Kind == typesys.KindUnknown
}

func referenceTypes(categories []typesys.RefCategory) []*typesys.TypeInfo {
	out := make([]*typesys.TypeInfo, len(categories))
	for i, cat := range categories {
		out[i] = typesys.NewReference(cat)
	}
	return out
}

func dedupe(types []*typesys.TypeInfo) []*typesys.TypeInfo {
	seen := make(map[string]bool, len(types))
	out := make([]*typesys.TypeInfo, 0, len(types))
	for _, t := range types {
		if t == nil || seen[t.Key()] {
			continue
		}
		seen[t.Key()] = true
		out = append(out, t)
	}
	return out
}
