// Package expression_parser holds the expression nodes carried by bindings.
// Binding resolution never looks inside an expression; it only moves it from
// the builder into the view plan.
package expression_parser

import "fmt"

// ParseSpan is a [Start, End) range relative to the start of an expression.
type ParseSpan struct {
	Start int
	End   int
}

// AST is a compiled binding expression.
type AST interface {
	Span() ParseSpan
	String() string
}

// EmptyExpr is an expression with no content.
type EmptyExpr struct {
	span ParseSpan
}

// NewEmptyExpr creates a new EmptyExpr
func NewEmptyExpr(span ParseSpan) *EmptyExpr {
	return &EmptyExpr{span: span}
}

func (e *EmptyExpr) Span() ParseSpan { return e.span }

func (e *EmptyExpr) String() string { return "" }

// RawExpr keeps expression text that has not been parsed further.
type RawExpr struct {
	Text string
}

// NewRawExpr creates a new RawExpr
func NewRawExpr(text string) *RawExpr {
	return &RawExpr{Text: text}
}

func (r *RawExpr) Span() ParseSpan { return ParseSpan{Start: 0, End: len(r.Text)} }

func (r *RawExpr) String() string { return r.Text }

// ASTWithSource wraps an AST with the text it was compiled from.
type ASTWithSource struct {
	AST      AST
	Source   string
	Location string
}

// NewASTWithSource creates a new ASTWithSource
func NewASTWithSource(ast AST, source string, location string) *ASTWithSource {
	return &ASTWithSource{
		AST:      ast,
		Source:   source,
		Location: location,
	}
}

func (a *ASTWithSource) Span() ParseSpan {
	return ParseSpan{Start: 0, End: len(a.Source)}
}

func (a *ASTWithSource) String() string {
	if a.Location == "" {
		return a.Source
	}
	return fmt.Sprintf("%s in %s", a.Source, a.Location)
}
