package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcodekit/pcodekit/core/types"
)

type tokenExpectation struct {
	typ    types.TokenType
	value  string
	line   int
	column int
}

func expectTokens(t *testing.T, input string, expected []tokenExpectation) {
	t.Helper()
	lex := New(input)
	tokens := lex.Tokenize()
	require.Len(t, tokens, len(expected), "token count for %q", input)
	for i, want := range expected {
		got := tokens[i]
		assert.Equal(t, want.typ, got.Type, "token %d type in %q", i, input)
		assert.Equal(t, want.value, got.Value, "token %d value in %q", i, input)
		if want.line > 0 {
			assert.Equal(t, want.line, got.Span.Start.Line, "token %d line", i)
			assert.Equal(t, want.column, got.Span.Start.Column, "token %d column", i)
		}
	}
}

func TestIdentifiersAndVariables(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenExpectation
	}{
		{
			name:  "user variable",
			input: "&buffer",
			expected: []tokenExpectation{
				{types.USERVAR, "&buffer", 1, 1},
				{types.EOF, "", 1, 8},
			},
		},
		{
			name:  "system variable",
			input: "%UserId",
			expected: []tokenExpectation{
				{types.SYSVAR, "%UserId", 1, 1},
				{types.EOF, "", 1, 8},
			},
		},
		{
			name:  "plain identifier",
			input: "SomeRecord",
			expected: []tokenExpectation{
				{types.IDENT, "SomeRecord", 1, 1},
				{types.EOF, "", 1, 11},
			},
		},
		{
			name:  "case-insensitive keyword",
			input: "IF &x THEN",
			expected: []tokenExpectation{
				{types.IF, "IF", 1, 1},
				{types.USERVAR, "&x", 1, 4},
				{types.THEN, "THEN", 1, 7},
				{types.EOF, "", 1, 11},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectTokens(t, tt.input, tt.expected)
		})
	}
}

func TestHyphenatedKeywords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenExpectation
	}{
		{
			name:  "end-if",
			input: "End-If;",
			expected: []tokenExpectation{
				{types.END_IF, "End-If", 1, 1},
				{types.SEMI, ";", 1, 7},
				{types.EOF, "", 1, 8},
			},
		},
		{
			name:  "when-other",
			input: "When-Other",
			expected: []tokenExpectation{
				{types.WHEN_OTHER, "When-Other", 1, 1},
				{types.EOF, "", 1, 11},
			},
		},
		{
			name:  "end followed by non-keyword stays split",
			input: "end-foo",
			expected: []tokenExpectation{
				{types.IDENT, "end", 1, 1},
				{types.MINUS, "-", 1, 4},
				{types.IDENT, "foo", 1, 5},
				{types.EOF, "", 1, 8},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectTokens(t, tt.input, tt.expected)
		})
	}
}

func TestNumbers(t *testing.T) {
	expectTokens(t, "42 3.14", []tokenExpectation{
		{types.INTEGER, "42", 1, 1},
		{types.DECIMAL, "3.14", 1, 4},
		{types.EOF, "", 1, 8},
	})
}

func TestStrings(t *testing.T) {
	t.Run("simple", func(t *testing.T) {
		expectTokens(t, `"hello"`, []tokenExpectation{
			{types.STRING, "hello", 1, 1},
			{types.EOF, "", 1, 8},
		})
	})

	t.Run("doubled quote escaping", func(t *testing.T) {
		expectTokens(t, `"say ""hi"""`, []tokenExpectation{
			{types.STRING, `say "hi"`, 1, 1},
			{types.EOF, "", 1, 13},
		})
	})

	t.Run("unterminated becomes error token", func(t *testing.T) {
		lex := New(`"oops`)
		tokens := lex.Tokenize()
		require.Len(t, tokens, 2)
		assert.Equal(t, types.ILLEGAL, tokens[0].Type)
		assert.Equal(t, types.EOF, tokens[1].Type)
	})
}

func TestOperators(t *testing.T) {
	expectTokens(t, "+ - * ** / | = <> < <= > >= @", []tokenExpectation{
		{types.PLUS, "+", 1, 1},
		{types.MINUS, "-", 1, 3},
		{types.STAR, "*", 1, 5},
		{types.POWER, "**", 1, 7},
		{types.SLASH, "/", 1, 10},
		{types.PIPE, "|", 1, 12},
		{types.EQ, "=", 1, 14},
		{types.NE, "<>", 1, 16},
		{types.LT, "<", 1, 19},
		{types.LE, "<=", 1, 21},
		{types.GT, ">", 1, 24},
		{types.GE, ">=", 1, 26},
		{types.AT, "@", 1, 29},
		{types.EOF, "", 1, 30},
	})
}

func TestByteOffsets(t *testing.T) {
	input := "&a = 1;\n&b = 2;"
	lex := New(input)
	tokens := lex.Tokenize()

	// every token's raw text must splice back out of the source by offset
	for _, tok := range tokens {
		if tok.Type == types.EOF {
			continue
		}
		start, end := tok.Span.Start.Offset, tok.Span.End.Offset
		assert.Equal(t, tok.Raw, input[start:end], "offset splice for %s", tok.Type)
	}

	require.GreaterOrEqual(t, len(tokens), 5)
	assert.Equal(t, 2, tokens[4].Span.Start.Line, "&b starts line 2")
	assert.Equal(t, 1, tokens[4].Span.Start.Column)
	assert.Equal(t, 8, tokens[4].Span.Start.Offset)
}

func TestComments(t *testing.T) {
	input := "/* block */ &a = 1; rem trailing remark;\n<* outer <* inner *> still outer *> &b"
	lex := New(input)
	tokens := lex.Tokenize()

	var kinds []types.TokenType
	for _, tok := range tokens {
		kinds = append(kinds, tok.Type)
	}
	assert.Equal(t, []types.TokenType{
		types.USERVAR, types.EQ, types.INTEGER, types.SEMI, types.USERVAR, types.EOF,
	}, kinds, "comments never reach the token stream")

	comments := lex.Comments()
	require.Len(t, comments, 3)
	assert.Equal(t, "/* block */", comments[0].Text)
	assert.Equal(t, "rem trailing remark;", comments[1].Text)
	assert.Equal(t, "<* outer <* inner *> still outer *>", comments[2].Text)
}

func TestDirectives(t *testing.T) {
	input := "#If #Then &a = 1; #End-If"
	lex := New(input)
	tokens := lex.Tokenize()

	var kinds []types.TokenType
	for _, tok := range tokens {
		kinds = append(kinds, tok.Type)
	}
	assert.Equal(t, []types.TokenType{
		types.USERVAR, types.EQ, types.INTEGER, types.SEMI, types.EOF,
	}, kinds, "directives are skipped spans, not tokens")

	directives := lex.Directives()
	require.Len(t, directives, 3)
	assert.Equal(t, "#If", directives[0].Name)
	assert.Equal(t, "#Then", directives[1].Name)
	assert.Equal(t, "#End-If", directives[2].Name)
}

func TestInterpolatedStrings(t *testing.T) {
	t.Run("text and expression parts", func(t *testing.T) {
		expectTokens(t, `$"total is {&n + 1}!"`, []tokenExpectation{
			{types.INTERP_START, `$"`, 1, 1},
			{types.INTERP_TEXT, "total is ", 1, 3},
			{types.INTERP_EXPR, "{", 1, 12},
			{types.USERVAR, "&n", 1, 13},
			{types.PLUS, "+", 1, 16},
			{types.INTEGER, "1", 1, 18},
			{types.RBRACE, "}", 1, 19},
			{types.INTERP_TEXT, "!", 1, 20},
			{types.INTERP_END, `"`, 1, 21},
			{types.EOF, "", 1, 22},
		})
	})

	t.Run("doubled quotes inside text", func(t *testing.T) {
		expectTokens(t, `$"a ""b"" {&c}"`, []tokenExpectation{
			{types.INTERP_START, `$"`, 0, 0},
			{types.INTERP_TEXT, `a "b" `, 0, 0},
			{types.INTERP_EXPR, "{", 0, 0},
			{types.USERVAR, "&c", 0, 0},
			{types.RBRACE, "}", 0, 0},
			{types.INTERP_END, `"`, 0, 0},
			{types.EOF, "", 0, 0},
		})
	})

	t.Run("unterminated interpolation hits EOF cleanly", func(t *testing.T) {
		lex := New(`$"dangling {&x`)
		tokens := lex.Tokenize()
		assert.Equal(t, types.EOF, tokens[len(tokens)-1].Type)
	})
}

func TestUnknownCharactersBecomeErrorTokens(t *testing.T) {
	lex := New("&a ? &b")
	tokens := lex.Tokenize()
	require.Len(t, tokens, 4)
	assert.Equal(t, types.ILLEGAL, tokens[1].Type)
	assert.Equal(t, "?", tokens[1].Value)
	assert.Equal(t, types.USERVAR, tokens[2].Type, "lexing continues after an error token")
}
