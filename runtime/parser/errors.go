package parser

import (
	"fmt"
	"strings"

	"github.com/pcodekit/pcodekit/core/types"
)

// DiagnosticKind categorizes recorded parse problems
type DiagnosticKind int

const (
	DiagSyntax DiagnosticKind = iota
	DiagUnexpected
	DiagMissing
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagUnexpected:
		return "unexpected token"
	case DiagMissing:
		return "missing"
	default:
		return "syntax error"
	}
}

// Diagnostic is one recorded parse problem. Diagnostics are data, never
// thrown: the parser records them and keeps going so editor buffers that are
// mid-keystroke still produce a usable partial tree.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
	Token   types.Token
	Input   string
}

// Error returns the formatted message with line/column and a code snippet
func (d Diagnostic) Error() string {
	snippet := d.createCodeSnippet()
	if snippet == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s\n%s", d.Kind, d.Message, snippet)
}

// createCodeSnippet renders the offending line with a caret pointer
func (d Diagnostic) createCodeSnippet() string {
	line := d.Token.Span.Start.Line
	column := d.Token.Span.Start.Column
	if d.Input == "" || line == 0 {
		return ""
	}

	lines := strings.Split(d.Input, "\n")
	if line > len(lines) {
		return ""
	}
	lineContent := lines[line-1]

	var snippet strings.Builder
	snippet.WriteString(fmt.Sprintf("  --> %d:%d\n", line, column))
	snippet.WriteString("   |\n")
	snippet.WriteString(fmt.Sprintf("%2d | %s\n", line, lineContent))
	snippet.WriteString("   | ")
	if column > 0 && column <= len(lineContent)+1 {
		snippet.WriteString(strings.Repeat(" ", column-1) + "^")
	}
	return snippet.String()
}

func (p *Parser) recordSyntaxError(message string) {
	p.diagnostics = append(p.diagnostics, Diagnostic{
		Kind:    DiagSyntax,
		Message: message,
		Token:   p.current(),
		Input:   p.input,
	})
}

func (p *Parser) recordUnexpected(expected string) {
	got := p.current()
	p.diagnostics = append(p.diagnostics, Diagnostic{
		Kind:    DiagUnexpected,
		Message: fmt.Sprintf("expected %s, got %s", expected, got.Type),
		Token:   got,
		Input:   p.input,
	})
}

func (p *Parser) recordMissing(expected string) {
	p.diagnostics = append(p.diagnostics, Diagnostic{
		Kind:    DiagMissing,
		Message: "expected " + expected,
		Token:   p.current(),
		Input:   p.input,
	})
}
