package parser

import (
	"strconv"
	"strings"

	"github.com/pcodekit/pcodekit/core/ast"
	"github.com/pcodekit/pcodekit/core/types"
)

// parseImport handles `import PKG:SUB:Class;` and `import PKG:*;`
func (p *Parser) parseImport() {
	start := p.advance() // import

	node := &ast.ImportNode{}
	for {
		if tok, ok := p.accept(types.IDENT); ok {
			node.Path = append(node.Path, tok.Value)
		} else if _, ok := p.accept(types.STAR); ok {
			node.Wildcard = true
			break
		} else {
			p.recordUnexpected("package path segment")
			p.syncToStatementBoundary()
			break
		}
		if _, ok := p.accept(types.COLON); !ok {
			break
		}
	}
	p.accept(types.SEMI)

	node.SetSpan(p.spanFrom(start))
	p.program.Imports = append(p.program.Imports, node)
	ast.Adopt(p.program, node)
}

// parseClassDeclaration handles the class/interface header through end-class
func (p *Parser) parseClassDeclaration() {
	start := p.advance() // class or interface
	isInterface := start.Type == types.INTERFACE

	cls := &ast.ClassNode{IsInterface: isInterface}
	nameTok, ok := p.expect(types.IDENT, "class name")
	if ok {
		cls.Name = nameTok.Value
		cls.NameToken = nameTok
	}

	if _, ok := p.accept(types.EXTENDS); ok {
		cls.Extends = p.parseTypeAnnotation()
		if cls.Extends != nil {
			ast.Adopt(cls, cls.Extends)
		}
	}
	if _, ok := p.accept(types.IMPLEMENTS); ok {
		cls.Implements = p.parseTypeAnnotation()
		if cls.Implements != nil {
			ast.Adopt(cls, cls.Implements)
		}
	}

	endToken := types.END_CLASS
	if isInterface {
		endToken = types.END_INTERFACE
	}

	visibility := ast.Public
	for !p.atAny(endToken, types.EOF) {
		switch p.current().Type {
		case types.PRIVATE:
			p.advance()
			visibility = ast.Private
		case types.PROTECTED:
			p.advance()
			visibility = ast.Protected
		case types.METHOD:
			p.parseMethodDeclaration(cls, visibility)
		case types.PROPERTY:
			p.parsePropertyDeclaration(cls, visibility)
		case types.INSTANCE:
			p.parseInstanceVariable(cls)
		case types.CONSTANT:
			p.parseClassConstant(cls)
		case types.SEMI:
			p.advance()
		default:
			p.recordUnexpected("class member")
			p.syncToStatementBoundary()
			if recoveryBoundary[p.current().Type] && !p.at(endToken) {
				p.advance()
			}
		}
	}
	p.accept(endToken)
	p.accept(types.SEMI)

	cls.SetSpan(p.spanFrom(start))
	p.program.Class = cls
	ast.Adopt(p.program, cls)
}

// parseMethodDeclaration handles a class-header `method Name(...) Returns t
// [abstract];` line.
func (p *Parser) parseMethodDeclaration(cls *ast.ClassNode, visibility ast.Visibility) {
	start := p.advance() // method

	m := &ast.MethodNode{Visibility: visibility}
	if nameTok, ok := p.expect(types.IDENT, "method name"); ok {
		m.Name = nameTok.Value
		m.NameToken = nameTok
	}

	if _, ok := p.expect(types.LPAREN, "("); ok {
		m.Parameters = p.parseParameterList(m)
	}
	if _, ok := p.accept(types.RETURNS); ok {
		m.ReturnType = p.parseTypeAnnotation()
		if m.ReturnType != nil {
			ast.Adopt(m, m.ReturnType)
		}
	}
	if _, ok := p.accept(types.ABSTRACT); ok {
		m.Abstract = true
	}
	p.accept(types.SEMI)

	m.SetSpan(p.spanFrom(start))
	cls.Methods = append(cls.Methods, m)
	ast.Adopt(cls, m)
}

// parseParameterList consumes parameters up to the closing paren
func (p *Parser) parseParameterList(owner ast.Node) []*ast.ParameterNode {
	var params []*ast.ParameterNode
	for !p.atAny(types.RPAREN, types.EOF, types.SEMI) {
		start := p.current()
		param := &ast.ParameterNode{}
		if nameTok, ok := p.expect(types.USERVAR, "parameter name"); ok {
			param.Name = nameTok.Value
			param.NameToken = nameTok
		} else {
			p.syncToStatementBoundary()
			break
		}
		if _, ok := p.accept(types.AS); ok {
			param.Type = p.parseTypeAnnotation()
			if param.Type != nil {
				ast.Adopt(param, param.Type)
			}
		}
		if _, ok := p.accept(types.OUT); ok {
			param.Out = true
		}
		param.SetSpan(p.spanFrom(start))
		params = append(params, param)
		ast.Adopt(owner, param)

		if _, ok := p.accept(types.COMMA); !ok {
			break
		}
	}
	p.expect(types.RPAREN, ")")
	return params
}

// parsePropertyDeclaration handles `property type Name [get][set][readonly]
// [abstract];`
func (p *Parser) parsePropertyDeclaration(cls *ast.ClassNode, visibility ast.Visibility) {
	start := p.advance() // property

	prop := &ast.PropertyNode{Visibility: visibility}
	prop.Type = p.parseTypeAnnotation()
	if prop.Type != nil {
		ast.Adopt(prop, prop.Type)
	}
	if nameTok, ok := p.expect(types.IDENT, "property name"); ok {
		prop.Name = nameTok.Value
		prop.NameToken = nameTok
	}

	for {
		switch p.current().Type {
		case types.GET:
			p.advance()
			prop.HasGet = true
			continue
		case types.SET:
			p.advance()
			prop.HasSet = true
			continue
		case types.READONLY:
			p.advance()
			prop.ReadOnly = true
			continue
		case types.ABSTRACT:
			p.advance()
			prop.Abstract = true
			continue
		}
		break
	}
	p.accept(types.SEMI)

	prop.SetSpan(p.spanFrom(start))
	cls.Properties = append(cls.Properties, prop)
	ast.Adopt(cls, prop)
}

// parseInstanceVariable handles `instance type &a, &b;` inside a class body
func (p *Parser) parseInstanceVariable(cls *ast.ClassNode) {
	start := p.advance() // instance

	decl := &ast.ProgramVariableNode{Scope: ast.ScopeInstance}
	decl.Type = p.parseTypeAnnotation()
	if decl.Type != nil {
		ast.Adopt(decl, decl.Type)
	}
	p.parseVariableNames(decl)
	p.accept(types.SEMI)

	decl.SetSpan(p.spanFrom(start))
	cls.Instances = append(cls.Instances, decl)
	ast.Adopt(cls, decl)
}

// parseClassConstant handles `Constant &NAME = literal;` inside a class body
func (p *Parser) parseClassConstant(cls *ast.ClassNode) {
	c := p.parseConstantBody()
	cls.Constants = append(cls.Constants, c)
	ast.Adopt(cls, c)
}

// parseConstant handles a top-level constant declaration
func (p *Parser) parseConstant() {
	c := p.parseConstantBody()
	p.program.Constants = append(p.program.Constants, c)
	ast.Adopt(p.program, c)
}

func (p *Parser) parseConstantBody() *ast.ConstantNode {
	start := p.advance() // constant

	c := &ast.ConstantNode{}
	if nameTok, ok := p.expect(types.USERVAR, "constant name"); ok {
		c.Name = nameTok.Value
		c.NameToken = nameTok
	}
	if _, ok := p.expect(types.EQ, "="); ok {
		c.Value = p.parseExpression(0)
		if c.Value != nil {
			ast.Adopt(c, c.Value)
		}
	}
	p.accept(types.SEMI)

	c.SetSpan(p.spanFrom(start))
	return c
}

// parseProgramVariable handles Global/Component declarations at top level
func (p *Parser) parseProgramVariable() {
	start := p.current()
	scope := ast.ScopeGlobal
	if start.Type == types.COMPONENT {
		scope = ast.ScopeComponent
	}
	p.advance()

	decl := &ast.ProgramVariableNode{Scope: scope}
	decl.Type = p.parseTypeAnnotation()
	if decl.Type != nil {
		ast.Adopt(decl, decl.Type)
	}
	p.parseVariableNames(decl)
	if _, ok := p.accept(types.SEMI); ok {
		decl.SetHasSemicolon(true)
	}

	decl.SetSpan(p.spanFrom(start))
	p.program.Variables = append(p.program.Variables, decl)
	ast.Adopt(p.program, decl)
}

// parseVariableNames consumes `&a, &b [= expr]`
func (p *Parser) parseVariableNames(decl *ast.ProgramVariableNode) {
	for {
		nameTok, ok := p.expect(types.USERVAR, "variable name")
		if !ok {
			p.syncToStatementBoundary()
			return
		}
		decl.Names = append(decl.Names, nameTok.Value)
		decl.NameTokens = append(decl.NameTokens, nameTok)
		if _, ok := p.accept(types.COMMA); !ok {
			break
		}
	}
	if _, ok := p.accept(types.EQ); ok {
		decl.Value = p.parseExpression(0)
		if decl.Value != nil {
			ast.Adopt(decl, decl.Value)
		}
	}
}

// parseFunction handles `Function Name(...) [Returns t] ... End-Function`
func (p *Parser) parseFunction() {
	start := p.advance() // function

	fn := &ast.FunctionNode{}
	if nameTok, ok := p.expect(types.IDENT, "function name"); ok {
		fn.Name = nameTok.Value
		fn.NameToken = nameTok
	}
	if _, ok := p.accept(types.LPAREN); ok {
		fn.Parameters = p.parseParameterList(fn)
	}
	if _, ok := p.accept(types.RETURNS); ok {
		fn.ReturnType = p.parseTypeAnnotation()
		if fn.ReturnType != nil {
			ast.Adopt(fn, fn.ReturnType)
		}
	}
	p.accept(types.SEMI)

	fn.Body = p.parseStatementBlock(types.END_FUNCTION)
	ast.Adopt(fn, fn.Body)
	p.accept(types.END_FUNCTION)
	p.accept(types.SEMI)

	fn.SetSpan(p.spanFrom(start))
	p.program.Functions = append(p.program.Functions, fn)
	ast.Adopt(p.program, fn)
}

// parseMethodImplementation handles an out-of-line `method Name ...
// end-method` body and wires the declaration ↔ implementation link.
func (p *Parser) parseMethodImplementation() {
	start := p.advance() // method

	impl := &ast.MethodImplementationNode{}
	if nameTok, ok := p.expect(types.IDENT, "method name"); ok {
		impl.Name = nameTok.Value
		impl.NameToken = nameTok
	}

	impl.Body = p.parseStatementBlock(types.END_METHOD)
	ast.Adopt(impl, impl.Body)
	p.accept(types.END_METHOD)
	p.accept(types.SEMI)

	impl.SetSpan(p.spanFrom(start))
	p.program.Implementations = append(p.program.Implementations, impl)
	ast.Adopt(p.program, impl)

	if p.program.Class != nil {
		if decl := p.program.Class.FindMethod(impl.Name); decl != nil {
			decl.SetImplementation(impl)
		} else {
			p.recordSyntaxError("method " + impl.Name + " has no declaration in class " + p.program.Class.Name)
		}
	}
}

// parsePropertyImplementation handles `get Name ... end-get` and
// `set Name ... end-set` accessor bodies.
func (p *Parser) parsePropertyImplementation() {
	start := p.advance() // get or set
	isGetter := start.Type == types.GET

	impl := &ast.PropertyImplementationNode{}
	if nameTok, ok := p.expect(types.IDENT, "property name"); ok {
		impl.Name = nameTok.Value
		impl.NameToken = nameTok
	}

	endToken := types.END_SET
	if isGetter {
		endToken = types.END_GET
	}
	impl.Body = p.parseStatementBlock(endToken)
	ast.Adopt(impl, impl.Body)
	p.accept(endToken)
	p.accept(types.SEMI)

	impl.SetSpan(p.spanFrom(start))
	p.program.Implementations = append(p.program.Implementations, impl)
	ast.Adopt(p.program, impl)

	if p.program.Class != nil {
		if decl := p.program.Class.FindProperty(impl.Name); decl != nil {
			if isGetter {
				decl.SetGetter(impl)
			} else {
				decl.SetSetter(impl)
			}
		} else {
			p.recordSyntaxError("property " + impl.Name + " has no declaration in class " + p.program.Class.Name)
		}
	}
}

// parseTypeAnnotation parses a type name: a primitive or builtin object
// name, an arrayN [of elem] chain, or a colon-separated application class
// path.
func (p *Parser) parseTypeAnnotation() *ast.TypeNode {
	start := p.current()

	if arrTok, ok := p.accept(types.ARRAY); ok {
		dims := 1
		lower := strings.ToLower(arrTok.Value)
		if len(lower) > len("array") {
			if n, err := strconv.Atoi(lower[len("array"):]); err == nil {
				dims = n
			}
		}
		var elem *ast.TypeNode
		if _, ok := p.accept(types.OF); ok {
			elem = p.parseTypeAnnotation()
		}
		return ast.NewArrayType(dims, elem, p.spanFrom(start))
	}

	nameTok, ok := p.expect(types.IDENT, "type name")
	if !ok {
		p.advance()
		return nil
	}

	if p.at(types.COLON) {
		path := []string{nameTok.Value}
		for {
			if _, ok := p.accept(types.COLON); !ok {
				break
			}
			seg, ok := p.expect(types.IDENT, "package path segment")
			if !ok {
				break
			}
			path = append(path, seg.Value)
		}
		return ast.NewAppClassType(path, p.spanFrom(start))
	}

	return ast.NewNamedType(nameTok)
}
