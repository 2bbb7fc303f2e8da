// Package infer assigns a TypeInfo to every expression in a parsed program.
// Inference is best-effort and never fails: anything the engine cannot pin
// down comes back as Unknown (no information) or Invalid (information that
// proves the expression wrong, such as arithmetic on a boolean). External
// class shapes come from an optional metadata resolver; without one, member
// access on application classes degrades to Any rather than guessing.
package infer

import (
	"log/slog"
	"strings"

	"github.com/pcodekit/pcodekit/core/ast"
	"github.com/pcodekit/pcodekit/core/invariant"
	"github.com/pcodekit/pcodekit/core/metadata"
	"github.com/pcodekit/pcodekit/core/typesys"
	"github.com/pcodekit/pcodekit/runtime/builtins"
	"github.com/pcodekit/pcodekit/runtime/scope"
)

// Engine memoizes inferred types per expression node.
type Engine struct {
	program   *ast.ProgramNode
	scopes    *scope.Collector
	resolver  metadata.Resolver
	qualified string // app-class path of the program being analyzed, for %This
	logger    *slog.Logger

	types *ast.SideTable[*typesys.TypeInfo]
}

// Option configures an Engine
type Option func(*Engine)

// WithResolver supplies external class and record-field metadata.
func WithResolver(r metadata.Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithQualifiedName sets the colon-separated application-class path of the
// program under analysis, giving %This a concrete type.
func WithQualifiedName(qualified string) Option {
	return func(e *Engine) { e.qualified = qualified }
}

// WithLogger enables debug tracing of inference decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New builds an engine over an annotated program.
func New(program *ast.ProgramNode, scopes *scope.Collector, opts ...Option) *Engine {
	invariant.NotNil(program, "program")
	invariant.NotNil(scopes, "scopes")
	e := &Engine{
		program: program,
		scopes:  scopes,
		types:   ast.NewSideTable[*typesys.TypeInfo](),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) debugf(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

// TypeOf returns the inferred type of an expression. The result is never
// nil; repeated queries for the same node are served from the memo table.
func (e *Engine) TypeOf(expr ast.Expression) *typesys.TypeInfo {
	if expr == nil {
		return typesys.TypeUnknown
	}
	if t, ok := e.types.Get(expr); ok {
		return t
	}
	t := e.infer(expr)
	if t == nil {
		t = typesys.TypeUnknown
	}
	e.types.Set(expr, t)
	return t
}

func (e *Engine) infer(expr ast.Expression) *typesys.TypeInfo {
	switch n := expr.(type) {
	case *ast.LiteralNode:
		return n.PrimitiveType()
	case *ast.IdentifierNode:
		return e.inferIdentifier(n)
	case *ast.BinaryOperationNode:
		return e.inferBinary(n)
	case *ast.UnaryOperationNode:
		return e.inferUnary(n)
	case *ast.AssignmentNode:
		return e.TypeOf(n.Value)
	case *ast.MemberAccessNode:
		return e.inferMemberAccess(n)
	case *ast.ReferenceNode:
		return n.ReferenceType()
	case *ast.ArrayIndexNode:
		return e.inferIndex(n)
	case *ast.FunctionCallNode:
		return e.inferCall(n)
	case *ast.ObjectCreationNode:
		return resolveTypeNode(n.Type)
	case *ast.CastNode:
		return resolveTypeNode(n.Type)
	case *ast.InterpolatedStringNode:
		return typesys.TypeString
	case *ast.BadExpressionNode:
		return typesys.TypeUnknown
	default:
		return typesys.TypeUnknown
	}
}

func resolveTypeNode(t *ast.TypeNode) *typesys.TypeInfo {
	if t == nil {
		return typesys.TypeUnknown
	}
	return t.Resolve()
}

// system variables with fixed types; anything else is Any
var systemVariableTypes = map[string]*typesys.TypeInfo{
	"%userid":     typesys.TypeString,
	"%operatorid": typesys.TypeString,
	"%emplid":     typesys.TypeString,
	"%language":   typesys.TypeString,
	"%page":       typesys.TypeString,
	"%component":  typesys.TypeString,
	"%menu":       typesys.TypeString,
	"%date":       typesys.TypeDate,
	"%datetime":   typesys.TypeDateTime,
	"%time":       typesys.TypeTime,
	"%sqlrows":    typesys.TypeInteger,
}

func (e *Engine) inferIdentifier(n *ast.IdentifierNode) *typesys.TypeInfo {
	switch n.Kind {
	case ast.IdentUser:
		if v, ok := e.scopes.Lookup(n.Name, n.Span().Start.Offset); ok {
			return v.Type
		}
		e.debugf("unresolved variable", "name", n.Name)
		return typesys.TypeUnknown
	case ast.IdentSystem:
		lower := strings.ToLower(n.Name)
		if lower == "%this" {
			return e.thisType()
		}
		if lower == "%super" {
			return e.superType()
		}
		if t, ok := systemVariableTypes[lower]; ok {
			return t
		}
		return typesys.TypeAny
	default:
		// A bare identifier in expression position reads a record field
		// from the current component buffer.
		if e.resolver != nil {
			if t := e.resolver.GetFieldType(n.Name); t != nil {
				return t
			}
		}
		return typesys.TypeUnknown
	}
}

func (e *Engine) thisType() *typesys.TypeInfo {
	if e.qualified != "" {
		return typesys.NewAppClass(e.qualified)
	}
	if e.program.Class != nil {
		return typesys.NewAppClass(e.program.Class.Name)
	}
	return typesys.TypeUnknown
}

func (e *Engine) superType() *typesys.TypeInfo {
	if e.program.Class != nil && e.program.Class.Extends != nil {
		return e.program.Class.Extends.Resolve()
	}
	if e.resolver != nil {
		if self := e.selfQualifiedName(); self != "" {
			if meta := e.resolver.GetTypeMetadata(self); meta != nil && meta.BaseClass != "" {
				return typesys.NewAppClass(meta.BaseClass)
			}
		}
	}
	return typesys.TypeUnknown
}

func (e *Engine) inferBinary(n *ast.BinaryOperationNode) *typesys.TypeInfo {
	switch n.Op {
	case ast.OpOr, ast.OpAnd,
		ast.OpEqual, ast.OpNotEqual,
		ast.OpLess, ast.OpLessEqual, ast.OpGreater, ast.OpGreaterEqual:
		return typesys.TypeBoolean
	case ast.OpConcat:
		return typesys.TypeString
	default:
		return e.inferArithmetic(n)
	}
}

func (e *Engine) inferArithmetic(n *ast.BinaryOperationNode) *typesys.TypeInfo {
	left := e.TypeOf(n.Left)
	right := e.TypeOf(n.Right)

	if left.Kind == typesys.KindInvalid {
		return left
	}
	if right.Kind == typesys.KindInvalid {
		return right
	}
	if left == typesys.TypeUnknown || right == typesys.TypeUnknown {
		return typesys.TypeUnknown
	}
	if bad, ok := nonNumericOperand(left, right); ok {
		return typesys.NewInvalid("operator " + strings.TrimSpace(n.Op.Symbol()) + " needs numeric operands, found " + bad.String())
	}
	// Any on either side keeps the operation numeric without committing to
	// integer or number.
	if left == typesys.TypeAny || right == typesys.TypeAny {
		return typesys.TypeNumber
	}
	if n.Op == ast.OpDivide || n.Op == ast.OpPower {
		return typesys.TypeNumber
	}
	return left.GetCommonType(right)
}

func nonNumericOperand(left, right *typesys.TypeInfo) (*typesys.TypeInfo, bool) {
	if !left.IsNumeric() && left != typesys.TypeAny {
		return left, true
	}
	if !right.IsNumeric() && right != typesys.TypeAny {
		return right, true
	}
	return nil, false
}

func (e *Engine) inferUnary(n *ast.UnaryOperationNode) *typesys.TypeInfo {
	switch n.Op {
	case ast.OpNot:
		return typesys.TypeBoolean
	case ast.OpNegate:
		operand := e.TypeOf(n.Operand)
		switch {
		case operand.Kind == typesys.KindInvalid || operand == typesys.TypeUnknown:
			return operand
		case operand == typesys.TypeAny:
			return typesys.TypeNumber
		case operand.IsNumeric():
			return operand
		default:
			return typesys.NewInvalid("operator - needs a numeric operand, found " + operand.String())
		}
	default: // @ builds a definition reference out of a string at runtime
		return typesys.TypeAny
	}
}

func (e *Engine) inferIndex(n *ast.ArrayIndexNode) *typesys.TypeInfo {
	target := e.TypeOf(n.Target)
	if target.Kind != typesys.KindArray {
		if target == typesys.TypeAny || target == typesys.TypeUnknown {
			return typesys.TypeUnknown
		}
		return typesys.NewInvalid("cannot index " + target.String())
	}
	return peelDimensions(target, len(n.Indexes))
}

// peelDimensions removes one array dimension per subscript. Running out of
// dimensions lands on the element type, then Any.
func peelDimensions(arr *typesys.TypeInfo, count int) *typesys.TypeInfo {
	if count >= arr.Dims {
		if arr.Elem != nil {
			return arr.Elem
		}
		return typesys.TypeAny
	}
	return typesys.NewArray(arr.Dims-count, arr.Elem)
}

func (e *Engine) inferMemberAccess(n *ast.MemberAccessNode) *typesys.TypeInfo {
	receiver := e.TypeOf(n.Target)
	switch receiver.Kind {
	case typesys.KindArray, typesys.KindBuiltinObject:
		if m, ok := builtins.LookupMember(receiver, n.Member); ok && m.Kind == builtins.MemberProperty {
			return e.resolvePoly(m.Type, receiver, nil)
		}
		return typesys.TypeUnknown
	case typesys.KindAppClass:
		return e.classMemberType(receiver, n.Member, false, nil)
	case typesys.KindAny, typesys.KindUnknown:
		return typesys.TypeUnknown
	default:
		return typesys.TypeUnknown
	}
}

func (e *Engine) inferCall(n *ast.FunctionCallNode) *typesys.TypeInfo {
	args := make([]*typesys.TypeInfo, len(n.Args))
	for i, arg := range n.Args {
		args[i] = e.TypeOf(arg)
	}

	switch target := n.Target.(type) {
	case *ast.IdentifierNode:
		if target.Kind == ast.IdentPlain {
			if fn := e.findLocalFunction(target.Name); fn != nil {
				return returnTypeOf(fn.ReturnType)
			}
			if fn, ok := builtins.Lookup(target.Name); ok {
				if fn.Return == nil {
					return typesys.TypeVoid
				}
				return e.resolvePoly(fn.Return, nil, args)
			}
		}
		return typesys.TypeUnknown
	case *ast.MemberAccessNode:
		receiver := e.TypeOf(target.Target)
		switch receiver.Kind {
		case typesys.KindArray, typesys.KindBuiltinObject:
			if m, ok := builtins.LookupMember(receiver, target.Member); ok && m.Kind == builtins.MemberMethod {
				if m.Return == nil {
					return typesys.TypeVoid
				}
				return e.resolvePoly(m.Return, receiver, args)
			}
			return typesys.TypeUnknown
		case typesys.KindAppClass:
			return e.classMemberType(receiver, target.Member, true, args)
		default:
			return typesys.TypeUnknown
		}
	default:
		return typesys.TypeUnknown
	}
}

func (e *Engine) findLocalFunction(name string) *ast.FunctionNode {
	for _, fn := range e.program.Functions {
		if strings.EqualFold(fn.Name, name) {
			return fn
		}
	}
	return nil
}

func returnTypeOf(t *ast.TypeNode) *typesys.TypeInfo {
	if t == nil {
		return typesys.TypeVoid
	}
	return t.Resolve()
}

// classMemberType resolves a method return or property type on an
// application class, preferring the class declared in this very program,
// then walking the metadata inheritance chain. No metadata means Any, not
// an error: the class exists, its shape just isn't loaded.
func (e *Engine) classMemberType(receiver *typesys.TypeInfo, member string, isCall bool, args []*typesys.TypeInfo) *typesys.TypeInfo {
	if e.program.Class != nil && strings.EqualFold(receiver.QualifiedName(), e.selfQualifiedName()) {
		if t, ok := e.ownClassMember(member, isCall); ok {
			return t
		}
	}
	if e.resolver == nil {
		return typesys.TypeAny
	}
	qualified := receiver.QualifiedName()
	for hops := 0; qualified != "" && hops < 16; hops++ {
		meta := e.resolver.GetTypeMetadata(qualified)
		if meta == nil {
			e.debugf("no metadata for class", "class", qualified)
			return typesys.TypeAny
		}
		if isCall {
			if m := meta.FindMethod(member); m != nil {
				if m.Return == nil {
					return typesys.TypeVoid
				}
				return e.resolvePoly(m.Return, receiver, args)
			}
		}
		if p := meta.FindProperty(member); p != nil {
			return p.Type
		}
		qualified = meta.BaseClass
	}
	return typesys.TypeAny
}

func (e *Engine) selfQualifiedName() string {
	if e.qualified != "" {
		return e.qualified
	}
	if e.program.Class != nil {
		return e.program.Class.Name
	}
	return ""
}

// ownClassMember looks up a member on the class declared in this program.
func (e *Engine) ownClassMember(member string, isCall bool) (*typesys.TypeInfo, bool) {
	cls := e.program.Class
	if isCall {
		if m := cls.FindMethod(member); m != nil {
			return returnTypeOf(m.ReturnType), true
		}
	}
	if p := cls.FindProperty(member); p != nil {
		return resolveTypeNode(p.Type), true
	}
	for _, inst := range cls.Instances {
		for _, name := range inst.Names {
			if strings.EqualFold(strings.TrimPrefix(name, "&"), strings.TrimPrefix(member, "&")) {
				return resolveTypeNode(inst.Type), true
			}
		}
	}
	return nil, false
}

// resolvePoly pins a polymorphic or union return down at one call site.
func (e *Engine) resolvePoly(ret *typesys.TypeInfo, receiver *typesys.TypeInfo, args []*typesys.TypeInfo) *typesys.TypeInfo {
	if ret == nil {
		return typesys.TypeUnknown
	}
	if ret.Kind != typesys.KindPolymorphic {
		return ret
	}
	switch ret.Poly {
	case typesys.PolySameAsObject:
		if receiver != nil {
			return receiver
		}
	case typesys.PolyElementOfObject:
		if receiver != nil && receiver.Kind == typesys.KindArray {
			return peelDimensions(receiver, 1)
		}
	case typesys.PolySameAsFirstParameter:
		if len(args) > 0 && args[0] != nil {
			return args[0]
		}
	case typesys.PolyArrayOfFirstParameter:
		if len(args) > 0 && args[0] != nil {
			return typesys.NewArray(1, args[0])
		}
		return typesys.NewArray(1, nil)
	}
	return typesys.TypeUnknown
}

// Annotate walks the whole program and infers every expression once,
// filling the memo table for later position queries.
func (e *Engine) Annotate() {
	ast.Walk(e.program, func(n ast.Node) bool {
		if expr, ok := n.(ast.Expression); ok {
			e.TypeOf(expr)
		}
		return true
	})
}

// Known reports how many expressions have an inferred type on record.
func (e *Engine) Known() int { return e.types.Len() }
