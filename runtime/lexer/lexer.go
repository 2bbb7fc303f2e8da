// Package lexer tokenizes PeopleCode source. The lexer is restartable and
// never fails: malformed input becomes ILLEGAL tokens so the parser can
// recover, comments are captured off the token stream, and preprocessor
// directives are recorded as skipped spans. Byte offsets are exact so
// consumers can splice raw source for incremental edits.
package lexer

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pcodekit/pcodekit/core/types"
)

// lexMode tracks the sub-lexing state for interpolated strings
type lexMode int

const (
	modeSource     lexMode = iota // ordinary PeopleCode tokens
	modeInterpText                // literal text inside $"..."
	modeInterpExpr                // embedded {expr} inside $"..."
)

// Lexer produces the token stream for one source buffer
type Lexer struct {
	input    string
	position int  // byte offset of ch
	readPos  int  // byte offset of the next rune
	ch       rune // current rune, 0 at EOF
	line     int  // 1-based line of ch
	column   int  // 1-based column of ch

	modes []lexMode // mode stack; bottom is always modeSource

	comments   []types.Comment
	directives []types.Directive

	logger *slog.Logger
}

// Option configures the lexer
type Option func(*Lexer)

// WithLogger enables debug-level token tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lexer) { l.logger = logger }
}

// New creates a Lexer over the complete source text.
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0, // first readChar moves to 1
		modes:  []lexMode{modeSource},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.readChar()
	return l
}

// Tokenize consumes the whole input and returns every token including the
// trailing EOF.
func (l *Lexer) Tokenize() []types.Token {
	var tokens []types.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == types.EOF {
			return tokens
		}
	}
}

// Comments returns the comments captured so far, in source order.
func (l *Lexer) Comments() []types.Comment { return l.comments }

// Directives returns the skipped directive spans captured so far.
func (l *Lexer) Directives() []types.Directive { return l.directives }

// NextToken returns the next token. After EOF it keeps returning EOF.
func (l *Lexer) NextToken() types.Token {
	var tok types.Token
	switch l.mode() {
	case modeInterpText:
		tok = l.lexInterpText()
	default:
		tok = l.lexDefault()
	}
	if l.logger != nil {
		l.logger.Debug("token",
			"type", tok.Type.String(),
			"value", tok.Value,
			"pos", tok.Position())
	}
	return tok
}

func (l *Lexer) mode() lexMode { return l.modes[len(l.modes)-1] }

func (l *Lexer) pushMode(m lexMode) { l.modes = append(l.modes, m) }

func (l *Lexer) popMode() {
	if len(l.modes) > 1 {
		l.modes = l.modes[:len(l.modes)-1]
	}
}

func (l *Lexer) readChar() {
	if l.ch == 0 && l.position >= len(l.input) && l.readPos > 0 {
		return // stay at EOF
	}
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPos = len(l.input) + 1
		l.column++
		return
	}
	r, width := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.position = l.readPos
	l.readPos += width
	l.ch = r
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) pos() types.SourcePosition {
	return types.SourcePosition{Line: l.line, Column: l.column, Offset: l.position}
}

func (l *Lexer) atEOF() bool { return l.ch == 0 && l.position >= len(l.input) }

func (l *Lexer) makeToken(tt types.TokenType, value string, start types.SourcePosition) types.Token {
	end := l.pos()
	raw := ""
	if start.Offset <= len(l.input) && end.Offset <= len(l.input) {
		raw = l.input[start.Offset:end.Offset]
	}
	return types.Token{
		Type:     tt,
		Semantic: semanticFor(tt),
		Value:    value,
		Raw:      raw,
		Span:     types.SourceSpan{Start: start, End: end},
	}
}

// lexDefault handles source mode and embedded-expression mode; the two only
// differ in how a closing brace is interpreted.
func (l *Lexer) lexDefault() types.Token {
	l.skipTrivia()
	start := l.pos()

	switch {
	case l.atEOF():
		return l.makeToken(types.EOF, "", start)

	case l.ch == '&' && isIdentStartRune(l.peekChar()):
		l.readChar()
		name := l.readIdentifier()
		return l.makeToken(types.USERVAR, "&"+name, start)

	case l.ch == '%' && isIdentStartRune(l.peekChar()):
		l.readChar()
		name := l.readIdentifier()
		return l.makeToken(types.SYSVAR, "%"+name, start)

	case isIdentStartRune(l.ch):
		return l.lexWord(start)

	case isDigitRune(l.ch):
		return l.lexNumber(start)

	case l.ch == '"':
		return l.lexString(start)

	case l.ch == '$' && l.peekChar() == '"':
		l.readChar()
		l.readChar()
		l.pushMode(modeInterpText)
		return l.makeToken(types.INTERP_START, `$"`, start)

	case l.ch == '}':
		l.readChar()
		if l.mode() == modeInterpExpr {
			l.popMode()
			return l.makeToken(types.RBRACE, "}", start)
		}
		return l.makeToken(types.ILLEGAL, "}", start)

	case l.ch == '*':
		l.readChar()
		if l.ch == '*' {
			l.readChar()
			return l.makeToken(types.POWER, "**", start)
		}
		return l.makeToken(types.STAR, "*", start)

	case l.ch == '<':
		l.readChar()
		switch l.ch {
		case '>':
			l.readChar()
			return l.makeToken(types.NE, "<>", start)
		case '=':
			l.readChar()
			return l.makeToken(types.LE, "<=", start)
		}
		return l.makeToken(types.LT, "<", start)

	case l.ch == '>':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return l.makeToken(types.GE, ">=", start)
		}
		return l.makeToken(types.GT, ">", start)

	default:
		ch := l.ch
		l.readChar()
		if ch < 128 && singleCharTokens[ch] != types.ILLEGAL {
			return l.makeToken(singleCharTokens[ch], string(ch), start)
		}
		return l.makeToken(types.ILLEGAL, string(ch), start)
	}
}

// skipTrivia consumes whitespace, comments and directives. Comments and
// directive spans are recorded as they are skipped.
func (l *Lexer) skipTrivia() {
	for {
		switch {
		case l.ch < 128 && l.ch > 0 && isWhitespace[l.ch]:
			l.readChar()

		case l.ch == '/' && l.peekChar() == '*':
			l.skipBlockComment()

		case l.ch == '<' && l.peekChar() == '*':
			l.skipNestedComment()

		case l.ch == '#' && isIdentStartRune(l.peekChar()):
			l.skipDirective()

		case isIdentStartRune(l.ch) && l.isRemComment():
			l.skipRemComment()

		default:
			return
		}
	}
}

func (l *Lexer) skipBlockComment() {
	start := l.pos()
	l.readChar()
	l.readChar()
	for !l.atEOF() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			break
		}
		l.readChar()
	}
	l.recordComment(start)
}

// skipNestedComment consumes a <* ... *> comment, which nests.
func (l *Lexer) skipNestedComment() {
	start := l.pos()
	depth := 0
	for !l.atEOF() {
		switch {
		case l.ch == '<' && l.peekChar() == '*':
			depth++
			l.readChar()
			l.readChar()
		case l.ch == '*' && l.peekChar() == '>':
			depth--
			l.readChar()
			l.readChar()
			if depth == 0 {
				l.recordComment(start)
				return
			}
		default:
			l.readChar()
		}
	}
	l.recordComment(start)
}

// isRemComment looks ahead for the rem keyword without consuming input.
func (l *Lexer) isRemComment() bool {
	if l.position+3 > len(l.input) {
		return false
	}
	word := l.input[l.position:min(l.position+4, len(l.input))]
	if len(word) < 3 || !strings.EqualFold(word[:3], "rem") {
		return false
	}
	// must be a whole word
	return len(word) == 3 || !isIdentPartByte(word[3])
}

// skipRemComment consumes `rem ... ;` including the terminating semicolon.
func (l *Lexer) skipRemComment() {
	start := l.pos()
	for !l.atEOF() && l.ch != ';' {
		l.readChar()
	}
	if l.ch == ';' {
		l.readChar()
	}
	l.recordComment(start)
}

func (l *Lexer) recordComment(start types.SourcePosition) {
	end := l.pos()
	l.comments = append(l.comments, types.Comment{
		Text: l.input[start.Offset:min(end.Offset, len(l.input))],
		Span: types.SourceSpan{Start: start, End: end},
	})
}

// skipDirective records a #If / #Then / #Else / #End-If span. The directive
// word itself never becomes a token; the code between directives lexes
// normally.
func (l *Lexer) skipDirective() {
	start := l.pos()
	l.readChar() // consume '#'
	name := l.readIdentifier()
	if hyphenJoiners[strings.ToLower(name)] && l.ch == '-' && isIdentStartRune(l.peekChar()) {
		l.readChar()
		name = name + "-" + l.readIdentifier()
	}
	end := l.pos()
	l.directives = append(l.directives, types.Directive{
		Name: "#" + name,
		Span: types.SourceSpan{Start: start, End: end},
	})
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isIdentPartRune(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// lexWord produces an identifier or keyword token, joining hyphenated
// keywords such as end-if and when-other.
func (l *Lexer) lexWord(start types.SourcePosition) types.Token {
	word := l.readIdentifier()
	lower := strings.ToLower(word)

	if hyphenJoiners[lower] && l.ch == '-' && isIdentStartRune(l.peekChar()) {
		mark := l.position
		markLine, markCol, markRead, markCh := l.line, l.column, l.readPos, l.ch
		l.readChar()
		tail := l.readIdentifier()
		joined := lower + "-" + strings.ToLower(tail)
		if tt, ok := lookupKeyword(joined); ok {
			return l.makeToken(tt, word+"-"+tail, start)
		}
		// not a compound keyword, rewind to the bare word
		l.position, l.line, l.column, l.readPos, l.ch = mark, markLine, markCol, markRead, markCh
	}

	if tt, ok := lookupKeyword(lower); ok {
		return l.makeToken(tt, word, start)
	}
	return l.makeToken(types.IDENT, word, start)
}

func (l *Lexer) lexNumber(start types.SourcePosition) types.Token {
	for isDigitRune(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigitRune(l.peekChar()) {
		l.readChar()
		for isDigitRune(l.ch) {
			l.readChar()
		}
		return l.makeToken(types.DECIMAL, l.input[start.Offset:l.position], start)
	}
	return l.makeToken(types.INTEGER, l.input[start.Offset:l.position], start)
}

// lexString consumes a double-quoted literal with doubled-quote escaping.
// An unterminated string produces an ILLEGAL token covering what was read.
func (l *Lexer) lexString(start types.SourcePosition) types.Token {
	var value strings.Builder
	l.readChar() // opening quote
	for {
		switch {
		case l.atEOF():
			return l.makeToken(types.ILLEGAL, value.String(), start)
		case l.ch == '"':
			if l.peekChar() == '"' {
				value.WriteRune('"')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			return l.makeToken(types.STRING, value.String(), start)
		default:
			value.WriteRune(l.ch)
			l.readChar()
		}
	}
}

// lexInterpText lexes inside $"..." between embedded expressions.
func (l *Lexer) lexInterpText() types.Token {
	start := l.pos()
	switch {
	case l.atEOF():
		l.popMode()
		return l.makeToken(types.EOF, "", start)
	case l.ch == '"' && l.peekChar() != '"':
		l.readChar()
		l.popMode()
		return l.makeToken(types.INTERP_END, `"`, start)
	case l.ch == '{':
		l.readChar()
		l.pushMode(modeInterpExpr)
		return l.makeToken(types.INTERP_EXPR, "{", start)
	}

	var text strings.Builder
	for !l.atEOF() && l.ch != '{' {
		if l.ch == '"' {
			if l.peekChar() != '"' {
				break
			}
			text.WriteRune('"')
			l.readChar()
			l.readChar()
			continue
		}
		text.WriteRune(l.ch)
		l.readChar()
	}
	return l.makeToken(types.INTERP_TEXT, text.String(), start)
}

func isIdentStartRune(r rune) bool { return r < 128 && r > 0 && isIdentStart[r] }
func isDigitRune(r rune) bool      { return r < 128 && r > 0 && isDigit[r] }

func isIdentPartRune(r rune) bool { return r < 128 && r > 0 && isIdentPart[r] }

func isIdentPartByte(b byte) bool { return b < 128 && isIdentPart[b] }
