package parser

import (
	"github.com/pcodekit/pcodekit/core/ast"
	"github.com/pcodekit/pcodekit/core/invariant"
	"github.com/pcodekit/pcodekit/core/types"
)

// parseStatementBlock parses statements until one of the stop tokens (left
// in place) or EOF. Statements register themselves against the navigation
// indices as they are parsed, keeping source order; the stop token's line is
// registered by the owning construct, not here.
func (p *Parser) parseStatementBlock(stops ...types.TokenType) *ast.BlockNode {
	block := ast.NewBlock()
	block.SetSpan(p.cursorSpan())
	for !p.at(types.EOF) && !p.atAny(stops...) {
		if p.at(types.SEMI) {
			p.advance()
			continue
		}
		before := p.pos
		stmt := p.parseStatement()
		if stmt != nil {
			block.Append(stmt)
		}
		if p.pos == before {
			p.advance() // always make progress
		}
		invariant.Invariant(p.pos > before, "statement loop stuck at token %d", p.pos)
	}
	return block
}

// parseStatement dispatches on the leading token. Every produced statement
// has already been registered at its own starting line.
func (p *Parser) parseStatement() ast.Statement {
	switch p.current().Type {
	case types.LOCAL:
		return p.parseLocalVariable()
	case types.IF:
		return p.parseIf()
	case types.FOR:
		return p.parseFor()
	case types.WHILE:
		return p.parseWhile()
	case types.REPEAT:
		return p.parseRepeat()
	case types.EVALUATE:
		return p.parseEvaluate()
	case types.TRY:
		return p.parseTry()
	case types.RETURN:
		return p.parseReturn()
	case types.THROW:
		return p.parseThrow()
	case types.BREAK:
		return p.parseSimple(func() ast.Statement { return &ast.BreakNode{} })
	case types.CONTINUE:
		return p.parseSimple(func() ast.Statement { return &ast.ContinueNode{} })
	case types.EXIT:
		return p.parseExit()
	case types.ERROR:
		return p.parseMessageStatement(true)
	case types.WARNING:
		return p.parseMessageStatement(false)
	case types.ILLEGAL:
		bad := &ast.BadStatementNode{From: p.current()}
		bad.SetSpan(p.current().Span)
		p.recordSyntaxError("unrecognized input " + p.current().Value)
		p.syncToStatementBoundary()
		return bad
	default:
		return p.parseExpressionStatement()
	}
}

// finishStatement consumes an optional trailing semicolon and records it on
// the node; the semicolon's presence drives end-marker line counting.
func (p *Parser) finishStatement(stmt ast.Statement, start types.Token) {
	if _, ok := p.accept(types.SEMI); ok {
		stmt.SetHasSemicolon(true)
	}
	stmt.SetSpan(p.spanFrom(start))
}

func (p *Parser) parseLocalVariable() ast.Statement {
	start := p.advance() // local

	decl := &ast.ProgramVariableNode{Scope: ast.ScopeLocal}
	p.program.RegisterStatement(decl, start.Span.Start.Line)

	decl.Type = p.parseTypeAnnotation()
	if decl.Type != nil {
		ast.Adopt(decl, decl.Type)
	}
	p.parseVariableNames(decl)
	p.finishStatement(decl, start)
	return decl
}

func (p *Parser) parseIf() ast.Statement {
	start := p.advance() // if
	node := &ast.IfNode{}
	p.program.RegisterStatement(node, start.Span.Start.Line)

	node.Condition = p.parseExpression(0)
	if node.Condition != nil {
		ast.Adopt(node, node.Condition)
	}
	p.expect(types.THEN, "Then")

	node.Then = p.parseStatementBlock(types.ELSE, types.END_IF)
	ast.Adopt(node, node.Then)

	last := node.Then
	if elseTok, ok := p.accept(types.ELSE); ok {
		p.registerEndMarker(node, last, elseTok.Span.Start.Line)
		node.Else = p.parseStatementBlock(types.END_IF)
		ast.Adopt(node, node.Else)
		last = node.Else
	}

	if endTok, ok := p.accept(types.END_IF); ok {
		p.registerEndMarker(node, last, endTok.Span.Start.Line)
	} else {
		p.recordMissing("End-If")
	}
	p.finishStatement(node, start)
	return node
}

func (p *Parser) parseFor() ast.Statement {
	start := p.advance() // for
	node := &ast.ForNode{}
	p.program.RegisterStatement(node, start.Span.Start.Line)

	if iterTok, ok := p.expect(types.USERVAR, "loop variable"); ok {
		node.Iterator = ast.NewIdentifier(ast.IdentUser, iterTok)
		ast.Adopt(node, node.Iterator)
	}
	p.expect(types.EQ, "=")
	node.From = p.parseExpression(0)
	if node.From != nil {
		ast.Adopt(node, node.From)
	}
	p.expect(types.TO, "To")
	node.To = p.parseExpression(0)
	if node.To != nil {
		ast.Adopt(node, node.To)
	}
	if _, ok := p.accept(types.STEP); ok {
		node.Step = p.parseExpression(0)
		if node.Step != nil {
			ast.Adopt(node, node.Step)
		}
	}
	p.accept(types.SEMI)

	node.Body = p.parseStatementBlock(types.END_FOR)
	ast.Adopt(node, node.Body)

	if endTok, ok := p.accept(types.END_FOR); ok {
		p.registerEndMarker(node, node.Body, endTok.Span.Start.Line)
	} else {
		p.recordMissing("End-For")
	}
	p.finishStatement(node, start)
	return node
}

func (p *Parser) parseWhile() ast.Statement {
	start := p.advance() // while
	node := &ast.WhileNode{}
	p.program.RegisterStatement(node, start.Span.Start.Line)

	node.Condition = p.parseExpression(0)
	if node.Condition != nil {
		ast.Adopt(node, node.Condition)
	}
	p.accept(types.SEMI)

	node.Body = p.parseStatementBlock(types.END_WHILE)
	ast.Adopt(node, node.Body)

	if endTok, ok := p.accept(types.END_WHILE); ok {
		p.registerEndMarker(node, node.Body, endTok.Span.Start.Line)
	} else {
		p.recordMissing("End-While")
	}
	p.finishStatement(node, start)
	return node
}

func (p *Parser) parseRepeat() ast.Statement {
	start := p.advance() // repeat
	node := &ast.RepeatNode{}
	p.program.RegisterStatement(node, start.Span.Start.Line)

	node.Body = p.parseStatementBlock(types.UNTIL)
	ast.Adopt(node, node.Body)

	if untilTok, ok := p.accept(types.UNTIL); ok {
		p.registerEndMarker(node, node.Body, untilTok.Span.Start.Line)
		node.Condition = p.parseExpression(0)
		if node.Condition != nil {
			ast.Adopt(node, node.Condition)
		}
	} else {
		p.recordMissing("Until")
	}
	p.finishStatement(node, start)
	return node
}

func (p *Parser) parseEvaluate() ast.Statement {
	start := p.advance() // evaluate
	node := &ast.EvaluateNode{}
	p.program.RegisterStatement(node, start.Span.Start.Line)

	node.Subject = p.parseExpression(0)
	if node.Subject != nil {
		ast.Adopt(node, node.Subject)
	}
	p.accept(types.SEMI)

	var previous *ast.BlockNode
	for {
		switch p.current().Type {
		case types.WHEN:
			whenTok := p.advance()
			p.registerEndMarker(node, previous, whenTok.Span.Start.Line)
			clause := &ast.WhenClauseNode{Op: ast.OpEqual}
			if op, ok := comparisonOp(p.current().Type); ok {
				p.advance()
				clause.Op = op
			}
			clause.Value = p.parseExpression(0)
			if clause.Value != nil {
				ast.Adopt(clause, clause.Value)
			}
			clause.Body = p.parseStatementBlock(types.WHEN, types.WHEN_OTHER, types.END_EVALUATE)
			ast.Adopt(clause, clause.Body)
			clause.SetSpan(p.spanFrom(whenTok))
			node.Whens = append(node.Whens, clause)
			ast.Adopt(node, clause)
			previous = clause.Body
			continue

		case types.WHEN_OTHER:
			otherTok := p.advance()
			p.registerEndMarker(node, previous, otherTok.Span.Start.Line)
			clause := &ast.WhenClauseNode{IsOther: true}
			p.accept(types.SEMI)
			clause.Body = p.parseStatementBlock(types.WHEN, types.WHEN_OTHER, types.END_EVALUATE)
			ast.Adopt(clause, clause.Body)
			clause.SetSpan(p.spanFrom(otherTok))
			node.Whens = append(node.Whens, clause)
			ast.Adopt(node, clause)
			previous = clause.Body
			continue
		}
		break
	}

	if endTok, ok := p.accept(types.END_EVALUATE); ok {
		p.registerEndMarker(node, previous, endTok.Span.Start.Line)
	} else {
		p.recordMissing("End-Evaluate")
	}
	p.finishStatement(node, start)
	return node
}

// parseTry owns its catch blocks: catch lines are registered here, by the
// try, never independently.
func (p *Parser) parseTry() ast.Statement {
	start := p.advance() // try
	node := &ast.TryNode{}
	p.program.RegisterStatement(node, start.Span.Start.Line)

	node.Body = p.parseStatementBlock(types.CATCH, types.END_TRY)
	ast.Adopt(node, node.Body)

	previous := node.Body
	for {
		catchTok, ok := p.accept(types.CATCH)
		if !ok {
			break
		}
		p.registerEndMarker(node, previous, catchTok.Span.Start.Line)

		clause := &ast.CatchNode{}
		clause.ExceptionType = p.parseTypeAnnotation()
		if clause.ExceptionType != nil {
			ast.Adopt(clause, clause.ExceptionType)
		}
		if varTok, ok := p.expect(types.USERVAR, "exception variable"); ok {
			clause.Var = ast.NewIdentifier(ast.IdentUser, varTok)
			ast.Adopt(clause, clause.Var)
		}
		clause.Body = p.parseStatementBlock(types.CATCH, types.END_TRY)
		ast.Adopt(clause, clause.Body)
		clause.SetSpan(p.spanFrom(catchTok))
		node.Catches = append(node.Catches, clause)
		ast.Adopt(node, clause)
		previous = clause.Body
	}

	if endTok, ok := p.accept(types.END_TRY); ok {
		p.registerEndMarker(node, previous, endTok.Span.Start.Line)
	} else {
		p.recordMissing("end-try")
	}
	p.finishStatement(node, start)
	return node
}

func (p *Parser) parseReturn() ast.Statement {
	start := p.advance() // return
	node := &ast.ReturnNode{}
	p.program.RegisterStatement(node, start.Span.Start.Line)

	if !p.atAny(types.SEMI, types.EOF) && !recoveryBoundary[p.current().Type] {
		node.Value = p.parseExpression(0)
		if node.Value != nil {
			ast.Adopt(node, node.Value)
		}
	}
	p.finishStatement(node, start)
	return node
}

func (p *Parser) parseThrow() ast.Statement {
	start := p.advance() // throw
	node := &ast.ThrowNode{}
	p.program.RegisterStatement(node, start.Span.Start.Line)

	node.Value = p.parseExpression(0)
	if node.Value != nil {
		ast.Adopt(node, node.Value)
	}
	p.finishStatement(node, start)
	return node
}

func (p *Parser) parseExit() ast.Statement {
	start := p.advance() // exit
	node := &ast.ExitNode{}
	p.program.RegisterStatement(node, start.Span.Start.Line)

	if !p.atAny(types.SEMI, types.EOF) && !recoveryBoundary[p.current().Type] {
		node.Code = p.parseExpression(0)
		if node.Code != nil {
			ast.Adopt(node, node.Code)
		}
	}
	p.finishStatement(node, start)
	return node
}

func (p *Parser) parseMessageStatement(isError bool) ast.Statement {
	start := p.advance() // error or warning
	var node ast.Statement
	if isError {
		errNode := &ast.ErrorNode{}
		p.program.RegisterStatement(errNode, start.Span.Start.Line)
		errNode.Message = p.parseExpression(0)
		if errNode.Message != nil {
			ast.Adopt(errNode, errNode.Message)
		}
		node = errNode
	} else {
		warnNode := &ast.WarningNode{}
		p.program.RegisterStatement(warnNode, start.Span.Start.Line)
		warnNode.Message = p.parseExpression(0)
		if warnNode.Message != nil {
			ast.Adopt(warnNode, warnNode.Message)
		}
		node = warnNode
	}
	p.finishStatement(node, start)
	return node
}

func (p *Parser) parseSimple(make func() ast.Statement) ast.Statement {
	start := p.advance()
	node := make()
	p.program.RegisterStatement(node, start.Span.Start.Line)
	p.finishStatement(node, start)
	return node
}

// parseExpressionStatement handles assignments and bare calls. The leading
// `=` after an l-value is an assignment; any later `=` compares.
func (p *Parser) parseExpressionStatement() ast.Statement {
	start := p.current()

	left := p.parseUnary()
	if left == nil {
		bad := &ast.BadStatementNode{From: start}
		bad.SetSpan(start.Span)
		p.program.RegisterStatement(bad, start.Span.Start.Line)
		p.syncToStatementBoundary()
		bad.SetSpan(p.spanFrom(start))
		return bad
	}

	var expr ast.Expression
	if _, ok := p.accept(types.EQ); ok {
		value := p.parseExpression(0)
		expr = ast.NewAssignment(left, value)
	} else {
		expr = p.continueBinary(left, 0)
	}

	node := ast.NewExpressionStatement(expr)
	p.program.RegisterStatement(node, start.Span.Start.Line)
	p.finishStatement(node, start)
	return node
}

func comparisonOp(tt types.TokenType) (ast.BinaryOperator, bool) {
	switch tt {
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
	default:
		return 0, false
	}
}
