package types

import "fmt"

// TokenType represents the type of token in PeopleCode source
type TokenType int

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Identifiers and literals
	IDENT   // RecordName, MethodName, bare identifiers
	USERVAR // &buffer, &i
	SYSVAR  // %This, %UserId, %Datetime
	INTEGER // 42, 100
	DECIMAL // 3.14, 0.5
	STRING  // "hello", "say ""hi"""
	TRUE    // true
	FALSE   // false
	NULL    // null

	// Interpolated string structure: $"text {expr} text"
	INTERP_START // $"
	INTERP_TEXT  // literal text inside an interpolated string
	INTERP_EXPR  // { opening an embedded expression
	INTERP_END   // closing "

	// Operators
	PLUS     // +
	MINUS    // -
	STAR     // *
	SLASH    // /
	POWER    // **
	PIPE     // | (string concatenation)
	EQ       // = (comparison or assignment, position decides)
	NE       // <>
	LT       // <
	LE       // <=
	GT       // >
	GE       // >=
	AT       // @ (dynamic definition reference)
	DOT      // .
	COLON    // : (application package path separator)
	COMMA    // ,
	SEMI     // ;
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	RBRACE   // } closing an embedded interpolation expression

	// Keywords: control flow
	IF
	THEN
	ELSE
	END_IF
	FOR
	TO
	STEP
	END_FOR
	WHILE
	END_WHILE
	REPEAT
	UNTIL
	EVALUATE
	WHEN
	WHEN_OTHER
	END_EVALUATE
	TRY
	CATCH
	END_TRY
	RETURN
	THROW
	BREAK
	CONTINUE
	EXIT
	ERROR
	WARNING

	// Keywords: declarations
	IMPORT
	CLASS
	END_CLASS
	INTERFACE
	END_INTERFACE
	EXTENDS
	IMPLEMENTS
	METHOD
	END_METHOD
	PROPERTY
	GET
	SET
	END_GET
	END_SET
	READONLY
	ABSTRACT
	PRIVATE
	PROTECTED
	INSTANCE
	CONSTANT
	FUNCTION
	END_FUNCTION
	RETURNS
	LOCAL
	GLOBAL
	COMPONENT
	OUT

	// Keywords: operators and expressions
	AND
	OR
	NOT
	CREATE
	AS
	ARRAY
	OF
)

// Pre-computed token name lookup for fast debugging
var tokenNames = [...]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:   "IDENT",
	USERVAR: "USERVAR",
	SYSVAR:  "SYSVAR",
	INTEGER: "INTEGER",
	DECIMAL: "DECIMAL",
	STRING:  "STRING",
	TRUE:    "TRUE",
	FALSE:   "FALSE",
	NULL:    "NULL",

	INTERP_START: "INTERP_START",
	INTERP_TEXT:  "INTERP_TEXT",
	INTERP_EXPR:  "INTERP_EXPR",
	INTERP_END:   "INTERP_END",

	PLUS:     "PLUS",
	MINUS:    "MINUS",
	STAR:     "STAR",
	SLASH:    "SLASH",
	POWER:    "POWER",
	PIPE:     "PIPE",
	EQ:       "EQ",
	NE:       "NE",
	LT:       "LT",
	LE:       "LE",
	GT:       "GT",
	GE:       "GE",
	AT:       "AT",
	DOT:      "DOT",
	COLON:    "COLON",
	COMMA:    "COMMA",
	SEMI:     "SEMI",
	LPAREN:   "LPAREN",
	RPAREN:   "RPAREN",
	LBRACKET: "LBRACKET",
	RBRACKET: "RBRACKET",
	RBRACE:   "RBRACE",

	IF:           "IF",
	THEN:         "THEN",
	ELSE:         "ELSE",
	END_IF:       "END_IF",
	FOR:          "FOR",
	TO:           "TO",
	STEP:         "STEP",
	END_FOR:      "END_FOR",
	WHILE:        "WHILE",
	END_WHILE:    "END_WHILE",
	REPEAT:       "REPEAT",
	UNTIL:        "UNTIL",
	EVALUATE:     "EVALUATE",
	WHEN:         "WHEN",
	WHEN_OTHER:   "WHEN_OTHER",
	END_EVALUATE: "END_EVALUATE",
	TRY:          "TRY",
	CATCH:        "CATCH",
	END_TRY:      "END_TRY",
	RETURN:       "RETURN",
	THROW:        "THROW",
	BREAK:        "BREAK",
	CONTINUE:     "CONTINUE",
	EXIT:         "EXIT",
	ERROR:        "ERROR",
	WARNING:      "WARNING",

	IMPORT:        "IMPORT",
	CLASS:         "CLASS",
	END_CLASS:     "END_CLASS",
	INTERFACE:     "INTERFACE",
	END_INTERFACE: "END_INTERFACE",
	EXTENDS:       "EXTENDS",
	IMPLEMENTS:    "IMPLEMENTS",
	METHOD:        "METHOD",
	END_METHOD:    "END_METHOD",
	PROPERTY:      "PROPERTY",
	GET:           "GET",
	SET:           "SET",
	END_GET:       "END_GET",
	END_SET:       "END_SET",
	READONLY:      "READONLY",
	ABSTRACT:      "ABSTRACT",
	PRIVATE:       "PRIVATE",
	PROTECTED:     "PROTECTED",
	INSTANCE:      "INSTANCE",
	CONSTANT:      "CONSTANT",
	FUNCTION:      "FUNCTION",
	END_FUNCTION:  "END_FUNCTION",
	RETURNS:       "RETURNS",
	LOCAL:         "LOCAL",
	GLOBAL:        "GLOBAL",
	COMPONENT:     "COMPONENT",
	OUT:           "OUT",

	AND:    "AND",
	OR:     "OR",
	NOT:    "NOT",
	CREATE: "CREATE",
	AS:     "AS",
	ARRAY:  "ARRAY",
	OF:     "OF",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) && int(t) >= 0 && tokenNames[t] != "" {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// SemanticTokenType represents semantic categories for syntax highlighting
type SemanticTokenType int

const (
	SemKeyword  SemanticTokenType = iota // if, evaluate, end-method, ...
	SemIdent                             // bare identifiers
	SemVariable                          // &user variables
	SemSystem                            // %system variables and constants
	SemString                            // string literals and interpolation text
	SemNumber                            // numeric literals
	SemComment                           // comments
	SemOperator                          // punctuation and operators
	SemType                              // type names in declarations
)

// SourcePosition represents a position in source code
type SourcePosition struct {
	Line   int `json:"line"`   // 1-based
	Column int `json:"column"` // 1-based
	Offset int `json:"offset"` // 0-based byte offset
}

// SourceSpan represents a precise location in source code.
// End is exclusive; End.Offset - Start.Offset is the byte length.
type SourceSpan struct {
	Start SourcePosition `json:"start"`
	End   SourcePosition `json:"end"`
}

// Contains reports whether the byte offset falls inside the span.
func (s SourceSpan) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

// Covers reports whether other lies entirely within this span.
func (s SourceSpan) Covers(other SourceSpan) bool {
	return other.Start.Offset >= s.Start.Offset && other.End.Offset <= s.End.Offset
}

// Join returns the smallest span covering both s and other.
func (s SourceSpan) Join(other SourceSpan) SourceSpan {
	out := s
	if other.Start.Offset < out.Start.Offset {
		out.Start = other.Start
	}
	if other.End.Offset > out.End.Offset {
		out.End = other.End
	}
	return out
}

// Token represents a single token produced by the lexer. Immutable once
// produced.
type Token struct {
	Type     TokenType
	Semantic SemanticTokenType
	Value    string // decoded value (doubled quotes collapsed for strings)
	Raw      string // exact bytes from source
	Span     SourceSpan
}

// Position returns a formatted position string for error reporting
func (t Token) Position() string {
	if t.Span.Start.Line == t.Span.End.Line {
		return fmt.Sprintf("%d:%d-%d", t.Span.Start.Line, t.Span.Start.Column, t.Span.End.Column)
	}
	return fmt.Sprintf("%d:%d-%d:%d", t.Span.Start.Line, t.Span.Start.Column, t.Span.End.Line, t.Span.End.Column)
}

// Comment represents a source comment captured off the token stream.
type Comment struct {
	Text string // comment text including delimiters
	Span SourceSpan
}

// Directive represents a skipped preprocessor-style directive span
// (#If, #Then, #Else, #End-If). Directives never reach the parser.
type Directive struct {
	Name string
	Span SourceSpan
}
