package parser

import (
	"github.com/pcodekit/pcodekit/core/ast"
	"github.com/pcodekit/pcodekit/core/types"
	"github.com/pcodekit/pcodekit/core/typesys"
)

func binaryOp(tt types.TokenType) (ast.BinaryOperator, bool) {
	switch tt {
	case types.OR:
		return ast.OpOr, true
	case types.AND:
		return ast.OpAnd, true
	case types.EQ:
		return ast.OpEqual, true
	case types.NE:
		return ast.OpNotEqual, true
	case types.LT:
		return ast.OpLess, true
	case types.LE:
		return ast.OpLessEqual, true
	case types.GT:
		return ast.OpGreater, true
	case types.GE:
		return ast.OpGreaterEqual, true
	case types.PIPE:
		return ast.OpConcat, true
	case types.PLUS:
		return ast.OpAdd, true
	case types.MINUS:
		return ast.OpSubtract, true
	case types.STAR:
		return ast.OpMultiply, true
	case types.SLASH:
		return ast.OpDivide, true
	case types.POWER:
		return ast.OpPower, true
	default:
		return 0, false
	}
}

// parseExpression implements precedence climbing over the operator table:
// Or < And < equality < relational < concat < additive < multiplicative <
// power, with power binding right-to-left.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	return p.continueBinary(left, minPrec)
}

// continueBinary folds binary operators onto an already-parsed left operand.
func (p *Parser) continueBinary(left ast.Expression, minPrec int) ast.Expression {
	for {
		op, ok := binaryOp(p.current().Type)
		if !ok || op.Precedence() < minPrec {
			return left
		}
		p.advance()

		next := op.Precedence() + 1
		if op.RightAssociative() {
			next = op.Precedence()
		}
		right := p.parseExpression(next)
		if right == nil {
			p.recordMissing("right operand")
			right = ast.NewBadExpression(p.current())
		}
		left = ast.NewBinaryOperation(op, left, right)
	}
}

func (p *Parser) parseUnary() ast.Expression {
	switch p.current().Type {
	case types.NOT:
		p.advance()
		// Not takes everything through the comparison tier
		operand := p.parseExpression(ast.OpEqual.Precedence())
		if operand == nil {
			operand = ast.NewBadExpression(p.current())
		}
		return ast.NewUnaryOperation(ast.OpNot, operand)
	case types.MINUS:
		p.advance()
		operand := p.parseUnary()
		if operand == nil {
			operand = ast.NewBadExpression(p.current())
		}
		return ast.NewUnaryOperation(ast.OpNegate, operand)
	case types.AT:
		p.advance()
		operand := p.parseUnary()
		if operand == nil {
			operand = ast.NewBadExpression(p.current())
		}
		return ast.NewUnaryOperation(ast.OpAt, operand)
	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses a primary and folds member access, array indexing,
// calls and As casts onto it.
func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}

	for {
		switch p.current().Type {
		case types.DOT:
			p.advance()
			member := p.current()
			if member.Type == types.IDENT || isWordToken(member.Type) {
				p.advance()
				expr = ast.NewMemberAccess(expr, member)
				continue
			}
			p.recordUnexpected("member name")
			return expr

		case types.LBRACKET:
			p.advance()
			var indexes []ast.Expression
			for !p.atAny(types.RBRACKET, types.EOF) {
				idx := p.parseExpression(0)
				if idx == nil {
					break
				}
				indexes = append(indexes, idx)
				if _, ok := p.accept(types.COMMA); !ok {
					break
				}
			}
			p.expect(types.RBRACKET, "]")
			expr = ast.NewArrayIndex(expr, indexes)
			continue

		case types.LPAREN:
			p.advance()
			args := p.parseArgumentList()
			expr = ast.NewFunctionCall(expr, args)
			continue

		case types.AS:
			p.advance()
			typ := p.parseTypeAnnotation()
			if typ == nil {
				return expr
			}
			expr = ast.NewCast(expr, typ)
			continue
		}
		return expr
	}
}

// parseArgumentList consumes call arguments through the closing paren.
func (p *Parser) parseArgumentList() []ast.Expression {
	var args []ast.Expression
	for !p.atAny(types.RPAREN, types.EOF, types.SEMI) {
		arg := p.parseExpression(0)
		if arg == nil {
			break
		}
		args = append(args, arg)
		if _, ok := p.accept(types.COMMA); !ok {
			break
		}
	}
	p.expect(types.RPAREN, ")")
	return args
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.current()
	switch tok.Type {
	case types.INTEGER:
		p.advance()
		return ast.NewLiteral(ast.LiteralInteger, tok)
	case types.DECIMAL:
		p.advance()
		return ast.NewLiteral(ast.LiteralDecimal, tok)
	case types.STRING:
		p.advance()
		return ast.NewLiteral(ast.LiteralString, tok)
	case types.TRUE, types.FALSE:
		p.advance()
		return ast.NewLiteral(ast.LiteralBoolean, tok)
	case types.NULL:
		p.advance()
		return ast.NewLiteral(ast.LiteralNull, tok)

	case types.USERVAR:
		p.advance()
		return ast.NewIdentifier(ast.IdentUser, tok)
	case types.SYSVAR:
		p.advance()
		return ast.NewIdentifier(ast.IdentSystem, tok)

	case types.IDENT:
		// Record.FOO in expression position is a definition reference, not
		// a member access.
		if cat, ok := typesys.RefCategoryByName(tok.Value); ok &&
			p.peek().Type == types.DOT {
			p.advance()
			p.advance()
			if nameTok, ok := p.accept(types.IDENT); ok {
				ref := ast.NewReferenceExpr(cat, nameTok)
				ref.SetSpan(p.spanFrom(tok))
				return ref
			}
			p.recordMissing("definition name")
			return ast.NewBadExpression(p.current())
		}
		p.advance()
		return ast.NewIdentifier(ast.IdentPlain, tok)

	case types.LPAREN:
		p.advance()
		expr := p.parseExpression(0)
		p.expect(types.RPAREN, ")")
		return expr

	case types.CREATE:
		return p.parseObjectCreation()

	case types.INTERP_START:
		return p.parseInterpolatedString()

	default:
		p.recordUnexpected("expression")
		if tok.Type != types.EOF && tok.Type != types.SEMI && !recoveryBoundary[tok.Type] {
			p.advance()
		}
		return ast.NewBadExpression(tok)
	}
}

func (p *Parser) parseObjectCreation() ast.Expression {
	start := p.advance() // create

	typ := p.parseTypeAnnotation()
	var args []ast.Expression
	if _, ok := p.accept(types.LPAREN); ok {
		args = p.parseArgumentList()
	}
	node := ast.NewObjectCreation(typ, args)
	node.SetSpan(p.spanFrom(start))
	return node
}

// parseInterpolatedString assembles $"text {expr} text" from the lexer's
// sub-mode token triples.
func (p *Parser) parseInterpolatedString() ast.Expression {
	start := p.advance() // $"

	var parts []ast.Expression
	for {
		switch p.current().Type {
		case types.INTERP_TEXT:
			textTok := p.advance()
			parts = append(parts, ast.NewLiteral(ast.LiteralString, textTok))
			continue
		case types.INTERP_EXPR:
			p.advance()
			expr := p.parseExpression(0)
			if expr != nil {
				parts = append(parts, expr)
			}
			p.expect(types.RBRACE, "}")
			continue
		case types.INTERP_END:
			p.advance()
		case types.EOF:
			p.recordMissing("closing quote")
		default:
			p.recordUnexpected("interpolated string part")
			p.advance()
			continue
		}
		break
	}
	return ast.NewInterpolatedString(parts, p.spanFrom(start))
}

// isWordToken reports whether a keyword token can double as a member name
// (method names like Get or Set collide with keywords).
func isWordToken(tt types.TokenType) bool {
	return tt >= types.IF && tt <= types.OF || tt == types.TRUE || tt == types.FALSE || tt == types.NULL
}
