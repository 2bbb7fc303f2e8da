package ast

import (
	"fmt"
	"strings"

	"github.com/pcodekit/pcodekit/core/types"
	"github.com/pcodekit/pcodekit/core/typesys"
)

// Visibility of class members
type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}

// TypeNode is a parsed type annotation. Built during parsing; Resolve turns
// it into the immutable TypeInfo the later passes work with.
type TypeNode struct {
	base
	Name         string    // primitive or builtin object name
	AppClassPath []string  // colon-separated segments when naming an app class
	ArrayDims    int       // > 0 for array types
	ElemType     *TypeNode // array element annotation, nil for untyped arrays
}

// NewNamedType builds an annotation for a simple named type.
func NewNamedType(tok types.Token) *TypeNode {
	n := &TypeNode{Name: tok.Value}
	n.SetSpan(tok.Span)
	return n
}

// NewAppClassType builds an annotation for a package-qualified class path.
func NewAppClassType(path []string, span types.SourceSpan) *TypeNode {
	n := &TypeNode{AppClassPath: path}
	n.SetSpan(span)
	return n
}

// NewArrayType builds an annotation for arrayN of elem.
func NewArrayType(dims int, elem *TypeNode, span types.SourceSpan) *TypeNode {
	n := &TypeNode{ArrayDims: dims, ElemType: elem}
	n.SetSpan(span)
	if elem != nil {
		Adopt(n, elem)
	}
	return n
}

func (n *TypeNode) String() string {
	switch {
	case n == nil:
		// Recovery can leave a declaration without its annotation; render a
		// placeholder the way exprString does for missing expressions.
		return "<type>"
	case n.ArrayDims > 0:
		name := "array"
		if n.ArrayDims > 1 {
			name = fmt.Sprintf("array%d", n.ArrayDims)
		}
		if n.ElemType == nil {
			return name
		}
		return name + " of " + n.ElemType.String()
	case len(n.AppClassPath) > 0:
		return strings.Join(n.AppClassPath, ":")
	default:
		return n.Name
	}
}

// Resolve converts the annotation to its TypeInfo.
func (n *TypeNode) Resolve() *typesys.TypeInfo {
	switch {
	case n == nil:
		return typesys.TypeAny
	case n.ArrayDims > 0:
		var elem *typesys.TypeInfo
		if n.ElemType != nil {
			elem = n.ElemType.Resolve()
		}
		// array of array of X collapses into one multi-dimensional array
		if elem != nil && elem.Kind == typesys.KindArray {
			return typesys.NewArray(n.ArrayDims+elem.Dims, elem.Elem)
		}
		return typesys.NewArray(n.ArrayDims, elem)
	case len(n.AppClassPath) > 0:
		return typesys.NewAppClass(strings.Join(n.AppClassPath, ":"))
	default:
		return typesys.ByName(n.Name)
	}
}

// ImportNode represents `import PKG:SUB:Class;` or `import PKG:*;`
type ImportNode struct {
	base
	Path     []string
	Wildcard bool
}

func (n *ImportNode) String() string {
	path := strings.Join(n.Path, ":")
	if n.Wildcard {
		path += ":*"
	}
	return "import " + path + ";"
}

// QualifiedPrefix returns the package path segments covered by the import.
func (n *ImportNode) QualifiedPrefix() []string { return n.Path }

// ParameterNode represents one formal parameter of a method or function
type ParameterNode struct {
	base
	Name      string
	NameToken types.Token
	Type      *TypeNode
	Out       bool
}

func (n *ParameterNode) String() string {
	s := n.Name
	if n.Type != nil {
		s += " As " + n.Type.String()
	}
	if n.Out {
		s += " out"
	}
	return s
}

func (n *ParameterNode) DeclaredName() string { return n.Name }
func (n *ParameterNode) declNode()            {}

// MethodNode is a class-header method declaration. The out-of-line body is a
// separate MethodImplementationNode linked via Implementation.
type MethodNode struct {
	base
	Name           string
	NameToken      types.Token
	Visibility     Visibility
	Abstract       bool
	Parameters     []*ParameterNode
	ReturnType     *TypeNode
	Implementation *MethodImplementationNode // nil while unimplemented
}

func (n *MethodNode) String() string {
	params := make([]string, len(n.Parameters))
	for i, p := range n.Parameters {
		params[i] = p.String()
	}
	s := "method " + n.Name + "(" + strings.Join(params, ", ") + ")"
	if n.ReturnType != nil {
		s += " Returns " + n.ReturnType.String()
	}
	if n.Abstract {
		s += " abstract"
	}
	return s + ";"
}

func (n *MethodNode) DeclaredName() string { return n.Name }
func (n *MethodNode) declNode()            {}

// IsConstructor reports whether the method constructs its class (same name).
func (n *MethodNode) IsConstructor() bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if cls, ok := p.(*ClassNode); ok {
			return strings.EqualFold(cls.Name, n.Name)
		}
	}
	return false
}

// SetImplementation wires the declaration ↔ implementation back-reference.
func (n *MethodNode) SetImplementation(impl *MethodImplementationNode) {
	n.Implementation = impl
	if impl != nil {
		impl.Declaration = n
	}
}

// MethodImplementationNode is the out-of-line `method Name ... end-method`
// body following the class declaration.
type MethodImplementationNode struct {
	base
	Name        string
	NameToken   types.Token
	Declaration *MethodNode // back-reference, never owning
	Body        *BlockNode
}

func (n *MethodImplementationNode) String() string {
	return "method " + n.Name + "\n" + blockString(n.Body) + "end-method;"
}

// PropertyNode is a class-header property declaration
type PropertyNode struct {
	base
	Name       string
	NameToken  types.Token
	Visibility Visibility
	Type       *TypeNode
	HasGet     bool
	HasSet     bool
	ReadOnly   bool
	Abstract   bool
	GetImpl    *PropertyImplementationNode
	SetImpl    *PropertyImplementationNode
}

func (n *PropertyNode) String() string {
	s := "property " + n.Type.String() + " " + n.Name
	if n.HasGet {
		s += " get"
	}
	if n.HasSet {
		s += " set"
	}
	if n.ReadOnly {
		s += " readonly"
	}
	if n.Abstract {
		s += " abstract"
	}
	return s + ";"
}

func (n *PropertyNode) DeclaredName() string { return n.Name }
func (n *PropertyNode) declNode()            {}

// SetGetter wires the getter implementation back-reference.
func (n *PropertyNode) SetGetter(impl *PropertyImplementationNode) {
	n.GetImpl = impl
	if impl != nil {
		impl.Declaration = n
		impl.IsGetter = true
	}
}

// SetSetter wires the setter implementation back-reference.
func (n *PropertyNode) SetSetter(impl *PropertyImplementationNode) {
	n.SetImpl = impl
	if impl != nil {
		impl.Declaration = n
		impl.IsGetter = false
	}
}

// PropertyImplementationNode is a `get Name ... end-get` or
// `set Name ... end-set` accessor body.
type PropertyImplementationNode struct {
	base
	Name        string
	NameToken   types.Token
	IsGetter    bool
	Declaration *PropertyNode // back-reference, never owning
	Body        *BlockNode
}

func (n *PropertyImplementationNode) String() string {
	kw, end := "set", "end-set;"
	if n.IsGetter {
		kw, end = "get", "end-get;"
	}
	return kw + " " + n.Name + "\n" + blockString(n.Body) + end
}

// VariableScope classifies where a program variable lives
type VariableScope int

const (
	ScopeLocal VariableScope = iota
	ScopeGlobal
	ScopeComponent
	ScopeInstance
)

func (s VariableScope) String() string {
	switch s {
	case ScopeGlobal:
		return "Global"
	case ScopeComponent:
		return "Component"
	case ScopeInstance:
		return "instance"
	default:
		return "Local"
	}
}

// ProgramVariableNode represents `Local string &a, &b = expr;` at any scope.
// One node may declare several names. Local declarations appear in statement
// position, so the node doubles as a statement.
type ProgramVariableNode struct {
	stmtBase
	Scope      VariableScope
	Type       *TypeNode
	Names      []string
	NameTokens []types.Token
	Value      Expression // optional initializer on the last name
}

func (n *ProgramVariableNode) String() string {
	s := n.Scope.String() + " " + n.Type.String() + " " + strings.Join(n.Names, ", ")
	if n.Value != nil {
		s += " = " + n.Value.String()
	}
	return s + ";"
}

func (n *ProgramVariableNode) DeclaredName() string {
	if len(n.Names) == 0 {
		return ""
	}
	return n.Names[0]
}

func (n *ProgramVariableNode) declNode() {}

// ConstantNode represents `Constant &NAME = literal;`
type ConstantNode struct {
	base
	Name      string
	NameToken types.Token
	Value     Expression
}

func (n *ConstantNode) String() string {
	return "Constant " + n.Name + " = " + exprString(n.Value) + ";"
}

func (n *ConstantNode) DeclaredName() string { return n.Name }
func (n *ConstantNode) declNode()            {}

// FunctionNode represents a top-level `Function Name(...) Returns t ...
// End-Function` with its inline body.
type FunctionNode struct {
	base
	Name       string
	NameToken  types.Token
	Parameters []*ParameterNode
	ReturnType *TypeNode
	Body       *BlockNode
}

func (n *FunctionNode) String() string {
	params := make([]string, len(n.Parameters))
	for i, p := range n.Parameters {
		params[i] = p.String()
	}
	s := "Function " + n.Name + "(" + strings.Join(params, ", ") + ")"
	if n.ReturnType != nil {
		s += " Returns " + n.ReturnType.String()
	}
	return s + "\n" + blockString(n.Body) + "End-Function;"
}

func (n *FunctionNode) DeclaredName() string { return n.Name }
func (n *FunctionNode) declNode()            {}

// ClassNode represents a class or interface declaration with its member
// sections.
type ClassNode struct {
	base
	Name        string
	NameToken   types.Token
	IsInterface bool
	Extends     *TypeNode
	Implements  *TypeNode
	Methods     []*MethodNode
	Properties  []*PropertyNode
	Instances   []*ProgramVariableNode
	Constants   []*ConstantNode
}

func (n *ClassNode) String() string {
	kw := "class"
	if n.IsInterface {
		kw = "interface"
	}
	s := kw + " " + n.Name
	if n.Extends != nil {
		s += " extends " + n.Extends.String()
	}
	if n.Implements != nil {
		s += " implements " + n.Implements.String()
	}
	return s
}

func (n *ClassNode) DeclaredName() string { return n.Name }
func (n *ClassNode) declNode()            {}

// FindMethod returns the declared method with the given name,
// case-insensitively.
func (n *ClassNode) FindMethod(name string) *MethodNode {
	for _, m := range n.Methods {
		if strings.EqualFold(m.Name, name) {
			return m
		}
	}
	return nil
}

// FindProperty returns the declared property with the given name,
// case-insensitively.
func (n *ClassNode) FindProperty(name string) *PropertyNode {
	for _, p := range n.Properties {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

func blockString(b *BlockNode) string {
	if b == nil {
		return ""
	}
	s := b.String()
	if s == "" {
		return s
	}
	return s + "\n"
}
