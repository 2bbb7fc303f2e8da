// Package scope computes lexical scopes over a parsed program and answers
// the autocomplete query: which variables are accessible at a byte position.
package scope

import (
	"sort"
	"strings"

	"github.com/pcodekit/pcodekit/core/ast"
	"github.com/pcodekit/pcodekit/core/invariant"
	"github.com/pcodekit/pcodekit/core/types"
	"github.com/pcodekit/pcodekit/core/typesys"
)

// VariableKind classifies where a variable was declared
type VariableKind int

const (
	KindLocal VariableKind = iota
	KindParameter
	KindInstance
	KindGlobal
	KindComponent
	KindProperty
	KindConstant
	KindException
)

var kindNames = [...]string{
	KindLocal:     "Local",
	KindParameter: "Parameter",
	KindInstance:  "Instance",
	KindGlobal:    "Global",
	KindComponent: "Component",
	KindProperty:  "Property",
	KindConstant:  "Constant",
	KindException: "Exception",
}

func (k VariableKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// VariableInfo describes one accessible variable. Produced by Collect,
// consumed read-only by autocomplete.
type VariableInfo struct {
	Kind VariableKind
	Name string
	Type *typesys.TypeInfo
	Decl ast.Node // owning declaration, for position filtering

	// NameSpan is the defining name token; DeclEnd is the byte offset after
	// which the variable becomes visible (locals have no forward visibility).
	NameSpan types.SourceSpan
	DeclEnd  int
}

// frame is the set of variables introduced by one lexical construct.
type frame struct {
	span types.SourceSpan
	vars []VariableInfo
}

// Collector holds the collected scope frames for one program. Stateless
// after construction; queries do not mutate it.
type Collector struct {
	program *ast.ProgramNode
	tokens  []types.Token
	root    frame
	frames  []frame
}

// Collect walks the program once and builds every scope frame: the
// program-level frame plus one frame per function, method implementation and
// property accessor body.
func Collect(program *ast.ProgramNode, tokens []types.Token) *Collector {
	c := &Collector{program: program, tokens: tokens}
	if program == nil {
		return c
	}

	c.root.span = program.Span()
	for _, v := range program.Variables {
		kind := KindGlobal
		if v.Scope == ast.ScopeComponent {
			kind = KindComponent
		}
		c.root.vars = append(c.root.vars, variablesOf(v, kind)...)
	}
	c.root.vars = append(c.root.vars, bodyVariables(program.Main)...)
	for _, con := range program.Constants {
		c.root.vars = append(c.root.vars, constantInfo(con))
	}
	if cls := program.Class; cls != nil {
		for _, v := range cls.Instances {
			c.root.vars = append(c.root.vars, variablesOf(v, KindInstance)...)
		}
		for _, con := range cls.Constants {
			c.root.vars = append(c.root.vars, constantInfo(con))
		}
		for _, prop := range cls.Properties {
			c.root.vars = append(c.root.vars, VariableInfo{
				Kind:     KindProperty,
				Name:     prop.Name,
				Type:     resolveType(prop.Type),
				Decl:     prop,
				NameSpan: prop.NameToken.Span,
				DeclEnd:  prop.Span().End.Offset,
			})
		}
	}

	for _, fn := range program.Functions {
		f := frame{span: fn.Span()}
		for _, param := range fn.Parameters {
			f.vars = append(f.vars, parameterInfo(param))
		}
		f.vars = append(f.vars, bodyVariables(fn.Body)...)
		c.frames = append(c.frames, f)
	}

	for _, impl := range program.Implementations {
		switch node := impl.(type) {
		case *ast.MethodImplementationNode:
			f := frame{span: node.Span()}
			if node.Declaration != nil {
				for _, param := range node.Declaration.Parameters {
					f.vars = append(f.vars, parameterInfo(param))
				}
			}
			f.vars = append(f.vars, bodyVariables(node.Body)...)
			c.frames = append(c.frames, f)

		case *ast.PropertyImplementationNode:
			f := frame{span: node.Span()}
			if !node.IsGetter && node.Declaration != nil {
				// setters receive the incoming value as &NewValue
				f.vars = append(f.vars, VariableInfo{
					Kind:     KindParameter,
					Name:     "&NewValue",
					Type:     resolveType(node.Declaration.Type),
					Decl:     node,
					NameSpan: node.NameToken.Span,
				})
			}
			f.vars = append(f.vars, bodyVariables(node.Body)...)
			c.frames = append(c.frames, f)
		}
	}

	return c
}

// AccessibleAt returns the de-duplicated variables visible at the byte
// position. Without allowed types the list follows declaration order; with
// them, type-compatible variables sort first and each group is ordered
// case-insensitive alphabetically.
//
// Positions inside a string literal or inside a declaration's own name token
// return nil: no suggestions while typing a string or the name itself.
func (c *Collector) AccessibleAt(pos int, allowed []*typesys.TypeInfo) []VariableInfo {
	invariant.Precondition(pos >= 0, "position must be non-negative, got %d", pos)
	if c.program == nil || c.insideStringLiteral(pos) {
		return nil
	}

	var candidates []VariableInfo
	for _, f := range c.frames {
		if f.span.Contains(pos) {
			candidates = append(candidates, f.vars...)
		}
	}
	candidates = append(candidates, c.root.vars...)

	for _, v := range candidates {
		if v.NameSpan.Contains(pos) || pos == v.NameSpan.End.Offset && v.NameSpan.Contains(pos-1) {
			return nil
		}
	}

	seen := make(map[string]bool)
	var out []VariableInfo
	for _, v := range candidates {
		if (v.Kind == KindLocal || v.Kind == KindException) && v.DeclEnd > pos {
			continue
		}
		key := strings.ToLower(v.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}

	// Without a type hint the list follows declaration order; with one,
	// compatible variables sort first and each group goes alphabetical.
	if len(allowed) == 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].NameSpan.Start.Offset < out[j].NameSpan.Start.Offset
		})
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := compatible(out[i], allowed), compatible(out[j], allowed)
		if ci != cj {
			return ci
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Lookup resolves one name (case-insensitive) at a position, for the
// inference pass. Returns false when nothing with that name is visible.
func (c *Collector) Lookup(name string, pos int) (VariableInfo, bool) {
	if c.program == nil {
		return VariableInfo{}, false
	}
	for _, f := range c.frames {
		if !f.span.Contains(pos) {
			continue
		}
		if v, ok := findNamed(f.vars, name, pos); ok {
			return v, true
		}
	}
	return findNamed(c.root.vars, name, pos)
}

func findNamed(vars []VariableInfo, name string, pos int) (VariableInfo, bool) {
	for _, v := range vars {
		if !strings.EqualFold(v.Name, name) {
			continue
		}
		if (v.Kind == KindLocal || v.Kind == KindException) && v.DeclEnd > pos {
			continue
		}
		return v, true
	}
	return VariableInfo{}, false
}

func compatible(v VariableInfo, allowed []*typesys.TypeInfo) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, want := range allowed {
		if want.IsAssignableFrom(v.Type) {
			return true
		}
	}
	return false
}

func (c *Collector) insideStringLiteral(pos int) bool {
	for _, tok := range c.tokens {
		switch tok.Type {
		case types.STRING, types.INTERP_START, types.INTERP_TEXT, types.INTERP_END:
			if tok.Span.Contains(pos) && pos > tok.Span.Start.Offset {
				return true
			}
		}
	}
	return false
}

// bodyVariables walks a body block for Local declarations and catch-clause
// exception variables.
func bodyVariables(body *ast.BlockNode) []VariableInfo {
	if body == nil {
		return nil
	}
	var out []VariableInfo
	ast.Walk(body, func(node ast.Node) bool {
		switch n := node.(type) {
		case *ast.ProgramVariableNode:
			if n.Scope == ast.ScopeLocal {
				out = append(out, variablesOf(n, KindLocal)...)
			}
		case *ast.CatchNode:
			if n.Var != nil {
				out = append(out, VariableInfo{
					Kind:     KindException,
					Name:     n.Var.Name,
					Type:     resolveType(n.ExceptionType),
					Decl:     n,
					NameSpan: n.Var.Span(),
					DeclEnd:  n.Var.Span().End.Offset,
				})
			}
		}
		return true
	})
	return out
}

func variablesOf(decl *ast.ProgramVariableNode, kind VariableKind) []VariableInfo {
	typ := resolveType(decl.Type)
	out := make([]VariableInfo, 0, len(decl.Names))
	for i, name := range decl.Names {
		info := VariableInfo{
			Kind:    kind,
			Name:    name,
			Type:    typ,
			Decl:    decl,
			DeclEnd: decl.Span().End.Offset,
		}
		if i < len(decl.NameTokens) {
			info.NameSpan = decl.NameTokens[i].Span
		}
		out = append(out, info)
	}
	return out
}

func parameterInfo(param *ast.ParameterNode) VariableInfo {
	return VariableInfo{
		Kind:     KindParameter,
		Name:     param.Name,
		Type:     resolveType(param.Type),
		Decl:     param,
		NameSpan: param.NameToken.Span,
	}
}

func constantInfo(con *ast.ConstantNode) VariableInfo {
	typ := typesys.TypeUnknown
	if lit, ok := con.Value.(*ast.LiteralNode); ok {
		typ = lit.PrimitiveType()
	}
	return VariableInfo{
		Kind:     KindConstant,
		Name:     con.Name,
		Type:     typ,
		Decl:     con,
		NameSpan: con.NameToken.Span,
		DeclEnd:  con.Span().End.Offset,
	}
}

func resolveType(t *ast.TypeNode) *typesys.TypeInfo {
	if t == nil {
		return typesys.TypeUnknown
	}
	return t.Resolve()
}
