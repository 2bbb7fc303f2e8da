// Package parser builds the PeopleCode syntax tree by recursive descent.
// The parser never aborts: unexpected input records a diagnostic, recovery
// skips to the nearest statement boundary, and a best-effort partial tree is
// always produced. Line/statement navigation indices are registered in
// source order as a side effect of parsing, not as a separate pass.
package parser

import (
	"log/slog"

	"github.com/pcodekit/pcodekit/core/ast"
	"github.com/pcodekit/pcodekit/core/types"
	"github.com/pcodekit/pcodekit/runtime/lexer"
)

// Result bundles everything one parse produces
type Result struct {
	Program     *ast.ProgramNode
	Diagnostics []Diagnostic
	Tokens      []types.Token
	Comments    []types.Comment
	Directives  []types.Directive
}

// Option configures a parse
type Option func(*Parser)

// WithLogger enables debug tracing of parser decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// Parser consumes a token stream and builds the tree
type Parser struct {
	input   string
	tokens  []types.Token
	pos     int
	program *ast.ProgramNode

	diagnostics []Diagnostic
	logger      *slog.Logger
}

// Parse lexes and parses one source buffer.
func Parse(source string, opts ...Option) *Result {
	p := &Parser{input: source}
	for _, opt := range opts {
		opt(p)
	}

	lex := lexer.New(source)
	p.tokens = lex.Tokenize()
	p.program = ast.NewProgram()

	p.parseProgram()

	p.program.Comments = lex.Comments()
	p.program.Directives = lex.Directives()
	if len(p.tokens) > 0 {
		last := p.tokens[len(p.tokens)-1].Span
		p.program.SetSpan(types.SourceSpan{
			Start: types.SourcePosition{Line: 1, Column: 1, Offset: 0},
			End:   last.End,
		})
	}

	return &Result{
		Program:     p.program,
		Diagnostics: p.diagnostics,
		Tokens:      p.tokens,
		Comments:    lex.Comments(),
		Directives:  lex.Directives(),
	}
}

// token access

func (p *Parser) current() types.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() types.Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) previous() types.Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	if p.pos-1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) advance() types.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) at(tt types.TokenType) bool { return p.current().Type == tt }

func (p *Parser) atAny(tts ...types.TokenType) bool {
	cur := p.current().Type
	for _, tt := range tts {
		if cur == tt {
			return true
		}
	}
	return false
}

func (p *Parser) accept(tt types.TokenType) (types.Token, bool) {
	if p.at(tt) {
		return p.advance(), true
	}
	return types.Token{}, false
}

// expect consumes the wanted token or records a diagnostic and stays put.
func (p *Parser) expect(tt types.TokenType, context string) (types.Token, bool) {
	if p.at(tt) {
		return p.advance(), true
	}
	p.recordUnexpected(context)
	return p.current(), false
}

// spanFrom covers everything from the given token through the last consumed
// token.
func (p *Parser) spanFrom(start types.Token) types.SourceSpan {
	return types.SourceSpan{Start: start.Span.Start, End: p.previous().Span.End}
}

// cursorSpan is a zero-length span at the current token, used to seed empty
// blocks so their spans still nest inside their parents.
func (p *Parser) cursorSpan() types.SourceSpan {
	start := p.current().Span.Start
	return types.SourceSpan{Start: start, End: start}
}

// statement-boundary tokens recovery skips to but never consumes
var recoveryBoundary = map[types.TokenType]bool{
	types.EOF:           true,
	types.ELSE:          true,
	types.END_IF:        true,
	types.END_FOR:       true,
	types.END_WHILE:     true,
	types.UNTIL:         true,
	types.WHEN:          true,
	types.WHEN_OTHER:    true,
	types.END_EVALUATE:  true,
	types.CATCH:         true,
	types.END_TRY:       true,
	types.END_METHOD:    true,
	types.END_FUNCTION:  true,
	types.END_GET:       true,
	types.END_SET:       true,
	types.END_CLASS:     true,
	types.END_INTERFACE: true,
}

// syncToStatementBoundary drops tokens until a semicolon (consumed) or a
// block end marker (left in place).
func (p *Parser) syncToStatementBoundary() {
	for {
		if _, ok := p.accept(types.SEMI); ok {
			return
		}
		if recoveryBoundary[p.current().Type] {
			return
		}
		p.advance()
	}
}

// parseProgram is the top-level production: imports, an optional class or
// interface declaration, then functions, variables, constants, method
// implementations and main-block statements in source order.
func (p *Parser) parseProgram() {
	for p.at(types.IMPORT) {
		p.parseImport()
	}

	if p.atAny(types.CLASS, types.INTERFACE) {
		p.parseClassDeclaration()
	}

	main := ast.NewBlock()
	main.SetSpan(p.cursorSpan())
	p.program.Main = main
	ast.Adopt(p.program, main)

	for !p.at(types.EOF) {
		switch p.current().Type {
		case types.IMPORT:
			p.parseImport()
		case types.FUNCTION:
			p.parseFunction()
		case types.GLOBAL, types.COMPONENT:
			p.parseProgramVariable()
		case types.CONSTANT:
			p.parseConstant()
		case types.METHOD:
			p.parseMethodImplementation()
		case types.GET, types.SET:
			p.parsePropertyImplementation()
		case types.SEMI:
			p.advance()
		default:
			stmt := p.parseStatement()
			if stmt != nil {
				main.Append(stmt)
				if local, ok := stmt.(*ast.ProgramVariableNode); ok && local.Scope == ast.ScopeLocal {
					p.program.Locals = append(p.program.Locals, local)
				}
			}
		}
	}
}

// registerEndMarker records a construct's end-marker (End-If, Else, Until,
// catch, ...) as its own statement line only when the preceding block ended
// with a semicolon or was empty. This mirrors PeopleCode's optional-
// semicolon line numbering exactly; step-mapping downstream depends on it.
func (p *Parser) registerEndMarker(owner ast.Statement, preceding *ast.BlockNode, markerLine int) {
	if preceding == nil || preceding.EndsWithSemicolon() {
		p.program.RegisterStatement(owner, markerLine)
	}
}

func (p *Parser) debugf(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
