package lexer

import "github.com/pcodekit/pcodekit/core/types"

// ASCII character lookup tables for fast classification
var (
	isWhitespace     [128]bool
	isLetter         [128]bool
	isDigit          [128]bool
	isIdentStart     [128]bool
	isIdentPart      [128]bool
	singleCharTokens [128]types.TokenType
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\n'
		isLetter[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
		isDigit[i] = '0' <= ch && ch <= '9'
		isIdentStart[i] = isLetter[i]
		isIdentPart[i] = isLetter[i] || isDigit[i] || ch == '#'
		singleCharTokens[i] = types.ILLEGAL
	}

	singleCharTokens['+'] = types.PLUS
	singleCharTokens['-'] = types.MINUS
	singleCharTokens['/'] = types.SLASH
	singleCharTokens['|'] = types.PIPE
	singleCharTokens['='] = types.EQ
	singleCharTokens['@'] = types.AT
	singleCharTokens['.'] = types.DOT
	singleCharTokens[':'] = types.COLON
	singleCharTokens[','] = types.COMMA
	singleCharTokens[';'] = types.SEMI
	singleCharTokens['('] = types.LPAREN
	singleCharTokens[')'] = types.RPAREN
	singleCharTokens['['] = types.LBRACKET
	singleCharTokens[']'] = types.RBRACKET
}
