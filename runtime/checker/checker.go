// Package checker drives a full front-end pass over one source buffer:
// parse, scope collection, type inference, then call validation against the
// builtin catalog and locally declared functions. The output is a flat issue
// list ordered by source position, ready for rendering.
package checker

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pcodekit/pcodekit/core/ast"
	"github.com/pcodekit/pcodekit/core/metadata"
	"github.com/pcodekit/pcodekit/core/types"
	"github.com/pcodekit/pcodekit/core/typesys"
	"github.com/pcodekit/pcodekit/runtime/builtins"
	"github.com/pcodekit/pcodekit/runtime/infer"
	"github.com/pcodekit/pcodekit/runtime/parser"
	"github.com/pcodekit/pcodekit/runtime/scope"
	"github.com/pcodekit/pcodekit/runtime/validate"
)

// Severity grades an issue
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Issue is one finding against the source buffer.
type Issue struct {
	Severity Severity
	Message  string
	Span     types.SourceSpan
}

// Report bundles everything one Run produced. The parse result, scopes and
// engine stay accessible for callers that want richer queries than the
// issue list (completion, hover, navigation).
type Report struct {
	Result *parser.Result
	Scopes *scope.Collector
	Engine *infer.Engine
	Issues []Issue
}

// Clean reports whether no errors were found. Warnings don't count.
func (r *Report) Clean() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Option configures a Run
type Option func(*config)

type config struct {
	resolver  metadata.Resolver
	qualified string
	logger    *slog.Logger
}

// WithResolver supplies external class and record-field metadata.
func WithResolver(r metadata.Resolver) Option {
	return func(c *config) { c.resolver = r }
}

// WithQualifiedName names the application class the buffer implements.
func WithQualifiedName(qualified string) Option {
	return func(c *config) { c.qualified = qualified }
}

// WithLogger enables debug tracing through every stage.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// Run analyzes one source buffer end to end.
func Run(source string, opts ...Option) *Report {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	var parseOpts []parser.Option
	if cfg.logger != nil {
		parseOpts = append(parseOpts, parser.WithLogger(cfg.logger))
	}
	result := parser.Parse(source, parseOpts...)
	scopes := scope.Collect(result.Program, result.Tokens)

	inferOpts := []infer.Option{}
	if cfg.resolver != nil {
		inferOpts = append(inferOpts, infer.WithResolver(cfg.resolver))
	}
	if cfg.qualified != "" {
		inferOpts = append(inferOpts, infer.WithQualifiedName(cfg.qualified))
	}
	if cfg.logger != nil {
		inferOpts = append(inferOpts, infer.WithLogger(cfg.logger))
	}
	engine := infer.New(result.Program, scopes, inferOpts...)
	engine.Annotate()

	report := &Report{Result: result, Scopes: scopes, Engine: engine}
	for _, diag := range result.Diagnostics {
		report.Issues = append(report.Issues, Issue{
			Severity: SeverityError,
			Message:  diag.Message,
			Span:     diag.Token.Span,
		})
	}
	report.checkCalls()

	sort.SliceStable(report.Issues, func(i, j int) bool {
		return report.Issues[i].Span.Start.Offset < report.Issues[j].Span.Start.Offset
	})
	return report
}

// checkCalls validates every plain function call against the builtin catalog
// or the program's own function declarations. Method calls are left to the
// inference pass, which already degrades them to Any or Unknown.
func (r *Report) checkCalls() {
	ast.Walk(r.Result.Program, func(n ast.Node) bool {
		call, ok := n.(*ast.FunctionCallNode)
		if !ok {
			return true
		}
		target, ok := call.Target.(*ast.IdentifierNode)
		if !ok || target.Kind != ast.IdentPlain {
			return true
		}
		r.checkCall(call, target.Name)
		return true
	})
}

func (r *Report) checkCall(call *ast.FunctionCallNode, name string) {
	args := make([]validate.Argument, len(call.Args))
	for i, arg := range call.Args {
		args[i] = validate.Argument{
			Type:       r.Engine.TypeOf(arg),
			IsVariable: arg.IsLValue(),
		}
	}

	if fn := r.findLocalFunction(name); fn != nil {
		result := validate.Validate(fn.Name, []validate.Overload{localOverload(fn)}, args)
		if !result.IsValid {
			r.Issues = append(r.Issues, Issue{
				Severity: SeverityError,
				Message:  result.GetDetailedError(),
				Span:     call.Span(),
			})
		}
		return
	}

	fn, ok := builtins.Lookup(name)
	if !ok {
		r.Issues = append(r.Issues, Issue{
			Severity: SeverityWarning,
			Message:  unknownFunctionMessage(name),
			Span:     call.Span(),
		})
		return
	}
	result := validate.Validate(fn.Name, fn.Overloads, args)
	if !result.IsValid {
		r.Issues = append(r.Issues, Issue{
			Severity: SeverityError,
			Message:  result.GetDetailedError(),
			Span:     call.Span(),
		})
	}
}

func (r *Report) findLocalFunction(name string) *ast.FunctionNode {
	for _, fn := range r.Result.Program.Functions {
		if strings.EqualFold(fn.Name, name) {
			return fn
		}
	}
	return nil
}

// localOverload builds the single signature of a program-declared function.
func localOverload(fn *ast.FunctionNode) validate.Overload {
	params := make([]validate.Parameter, len(fn.Parameters))
	for i, p := range fn.Parameters {
		t := typesys.TypeAny
		if p.Type != nil {
			t = p.Type.Resolve()
		}
		params[i] = validate.SingleParameter{Name: p.Name, Type: t, Out: p.Out}
	}
	return validate.Overload{Parameters: params}
}

func unknownFunctionMessage(name string) string {
	msg := fmt.Sprintf("unknown function %s()", name)
	if suggestion := closestFunction(name); suggestion != "" {
		msg += fmt.Sprintf(", did you mean %s()?", suggestion)
	}
	return msg
}

// closestFunction finds the best catalog match for a misspelled name.
func closestFunction(name string) string {
	ranks := fuzzy.RankFindFold(name, builtins.FunctionNames())
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
