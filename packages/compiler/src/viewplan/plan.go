package viewplan

import (
	"slices"

	"ngc-protoview/packages/compiler/src/core"
	"ngc-protoview/packages/compiler/src/expression_parser"
	"ngc-protoview/packages/compiler/src/util"
)

// ResolvedBinding is one validated binding of a host element.
type ResolvedBinding struct {
	Kind BindingKind
	// Name is the canonical property name for BindingKindProperty and the
	// name as written for every other kind.
	Name string
	// Unit is only set for style bindings such as "style.width.px".
	Unit            string
	Expression      expression_parser.AST
	SecurityContext core.SecurityContext
	// DirectiveIndex is the directive that contributed a host binding, or -1
	// for bindings written on the element itself.
	DirectiveIndex int
	SourceSpan     *util.ParseSourceSpan
}

// ElementPlan holds the resolved bindings of one element.
type ElementPlan struct {
	TagName     string
	ComponentID string
	IsCustom    bool
	// Ref is the value returned by the TemplateCloner for this element.
	Ref any

	bindings []ResolvedBinding
}

// Bindings returns the element's own bindings followed by directive host
// bindings in directive attach order.
func (e ElementPlan) Bindings() []ResolvedBinding {
	return slices.Clone(e.bindings)
}

// BindingsOfKind returns the bindings of a single kind, in plan order.
func (e ElementPlan) BindingsOfKind(kind BindingKind) []ResolvedBinding {
	var out []ResolvedBinding
	for _, b := range e.bindings {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// PropertyBindings is BindingsOfKind(BindingKindProperty).
func (e ElementPlan) PropertyBindings() []ResolvedBinding {
	return e.BindingsOfKind(BindingKindProperty)
}

// ViewPlan is the resolved form of a template. It is never modified after
// Resolve returns it, so it may be read from any goroutine.
type ViewPlan struct {
	elements []ElementPlan
}

// Len returns the number of elements.
func (p *ViewPlan) Len() int {
	return len(p.elements)
}

// Element returns the plan of the element at traversal index i.
func (p *ViewPlan) Element(i int) ElementPlan {
	return p.elements[i]
}

// Elements returns every element plan in traversal order.
func (p *ViewPlan) Elements() []ElementPlan {
	return slices.Clone(p.elements)
}

// BindingCount returns the total number of resolved bindings.
func (p *ViewPlan) BindingCount() int {
	n := 0
	for _, e := range p.elements {
		n += len(e.bindings)
	}
	return n
}
