package lexer

import "github.com/pcodekit/pcodekit/core/types"

// keywords maps lowercased words to their token types. PeopleCode keywords
// are case-insensitive; the token keeps the source spelling in Raw.
var keywords = map[string]types.TokenType{
	"if":           types.IF,
	"then":         types.THEN,
	"else":         types.ELSE,
	"end-if":       types.END_IF,
	"for":          types.FOR,
	"to":           types.TO,
	"step":         types.STEP,
	"end-for":      types.END_FOR,
	"while":        types.WHILE,
	"end-while":    types.END_WHILE,
	"repeat":       types.REPEAT,
	"until":        types.UNTIL,
	"evaluate":     types.EVALUATE,
	"when":         types.WHEN,
	"when-other":   types.WHEN_OTHER,
	"end-evaluate": types.END_EVALUATE,
	"try":          types.TRY,
	"catch":        types.CATCH,
	"end-try":      types.END_TRY,
	"return":       types.RETURN,
	"throw":        types.THROW,
	"break":        types.BREAK,
	"continue":     types.CONTINUE,
	"exit":         types.EXIT,
	"error":        types.ERROR,
	"warning":      types.WARNING,

	"import":        types.IMPORT,
	"class":         types.CLASS,
	"end-class":     types.END_CLASS,
	"interface":     types.INTERFACE,
	"end-interface": types.END_INTERFACE,
	"extends":       types.EXTENDS,
	"implements":    types.IMPLEMENTS,
	"method":        types.METHOD,
	"end-method":    types.END_METHOD,
	"property":      types.PROPERTY,
	"get":           types.GET,
	"set":           types.SET,
	"end-get":       types.END_GET,
	"end-set":       types.END_SET,
	"readonly":      types.READONLY,
	"abstract":      types.ABSTRACT,
	"private":       types.PRIVATE,
	"protected":     types.PROTECTED,
	"instance":      types.INSTANCE,
	"constant":      types.CONSTANT,
	"function":      types.FUNCTION,
	"end-function":  types.END_FUNCTION,
	"returns":       types.RETURNS,
	"local":         types.LOCAL,
	"global":        types.GLOBAL,
	"component":     types.COMPONENT,
	"out":           types.OUT,

	"and":    types.AND,
	"or":     types.OR,
	"not":    types.NOT,
	"create": types.CREATE,
	"as":     types.AS,
	"of":     types.OF,

	// array and the dimensioned spellings all lex as ARRAY; the parser
	// reads the dimensionality from the raw text
	"array":  types.ARRAY,
	"array2": types.ARRAY,
	"array3": types.ARRAY,
	"array4": types.ARRAY,
	"array5": types.ARRAY,
	"array6": types.ARRAY,
	"array7": types.ARRAY,
	"array8": types.ARRAY,
	"array9": types.ARRAY,

	"true":  types.TRUE,
	"false": types.FALSE,
	"null":  types.NULL,
}

// hyphenJoiners are the identifier prefixes that may continue across a
// hyphen into a compound keyword (end-if, when-other, ...).
var hyphenJoiners = map[string]bool{
	"end":  true,
	"when": true,
}

func lookupKeyword(lower string) (types.TokenType, bool) {
	t, ok := keywords[lower]
	return t, ok
}

func semanticFor(t types.TokenType) types.SemanticTokenType {
	switch t {
	case types.IDENT:
		return types.SemIdent
	case types.USERVAR:
		return types.SemVariable
	case types.SYSVAR:
		return types.SemSystem
	case types.STRING, types.INTERP_START, types.INTERP_TEXT, types.INTERP_END:
		return types.SemString
	case types.INTEGER, types.DECIMAL:
		return types.SemNumber
	case types.TRUE, types.FALSE, types.NULL:
		return types.SemKeyword
	default:
		if isKeywordToken(t) {
			return types.SemKeyword
		}
		return types.SemOperator
	}
}

func isKeywordToken(t types.TokenType) bool {
	return t >= types.IF && t <= types.OF
}
