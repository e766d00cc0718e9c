// Package viewplan turns the bindings collected while walking a template into
// a validated, immutable ViewPlan.
//
// A ViewPlanBuilder owns an arena of element records. Callers add elements in
// traversal order and receive integer-backed handles through which raw
// bindings, directives and host bindings are attached. Resolve then classifies,
// normalizes and validates every binding against an ElementSchemaRegistry in a
// single pass and returns the plan, or the first SchemaValidationError.
//
// A builder is not safe for concurrent use; a registry may be shared between
// builders running on different goroutines.
package viewplan

import (
	"log/slog"
	"strings"

	"ngc-protoview/packages/compiler/src/core"
	"ngc-protoview/packages/compiler/src/expression_parser"
	"ngc-protoview/packages/compiler/src/util"
)

// ViewPlanBuilder accumulates the element bindings of one template.
type ViewPlanBuilder struct {
	elements []elementBinding
	schemas  []*core.SchemaMetadata
	logger   *slog.Logger
}

type elementBinding struct {
	tagName      string
	componentID  string
	hasComponent bool
	rawBindings []rawBinding
	directives  []directiveBinding
}

type rawBinding struct {
	key        string
	expr       expression_parser.AST
	sourceSpan *util.ParseSourceSpan
}

type directiveBinding struct {
	properties   []directiveProperty
	hostBindings []rawBinding
}

// directiveProperty records that a directive owns hostFacingName on its host.
// The internal name and expression never reach the plan.
type directiveProperty struct {
	internalName   string
	expr           expression_parser.AST
	hostFacingName string
}

// Option configures a ViewPlanBuilder.
type Option func(*ViewPlanBuilder)

// WithSchemas passes schemas such as core.CUSTOM_ELEMENTS_SCHEMA to every
// property lookup made during Resolve.
func WithSchemas(schemas ...*core.SchemaMetadata) Option {
	return func(b *ViewPlanBuilder) {
		b.schemas = append(b.schemas, schemas...)
	}
}

// WithLogger sets the logger used for debug traces during Resolve.
func WithLogger(logger *slog.Logger) Option {
	return func(b *ViewPlanBuilder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewViewPlanBuilder creates an empty builder.
func NewViewPlanBuilder(opts ...Option) *ViewPlanBuilder {
	b := &ViewPlanBuilder{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddElement appends an element in traversal order.
func (b *ViewPlanBuilder) AddElement(tagName string) ElementHandle {
	b.elements = append(b.elements, elementBinding{tagName: tagName})
	return ElementHandle{builder: b, index: len(b.elements) - 1}
}

// ElementCount returns the number of elements added so far.
func (b *ViewPlanBuilder) ElementCount() int {
	return len(b.elements)
}

// Element returns the handle of the element at index. It panics if index is
// out of range.
func (b *ViewPlanBuilder) Element(index int) ElementHandle {
	_ = b.elements[index]
	return ElementHandle{builder: b, index: index}
}

// BindingOption annotates a raw or host binding.
type BindingOption func(*rawBinding)

// WithSourceSpan records where the binding was written. The span is copied
// to the resolved binding and to validation errors.
func WithSourceSpan(span *util.ParseSourceSpan) BindingOption {
	return func(r *rawBinding) {
		r.sourceSpan = span
	}
}

func newRawBinding(key string, expr expression_parser.AST, opts []BindingOption) rawBinding {
	r := rawBinding{key: key, expr: expr}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// ElementHandle addresses one element of a ViewPlanBuilder.
type ElementHandle struct {
	builder *ViewPlanBuilder
	index   int
}

// Index is the traversal index of the element, equal to its position in the plan.
func (h ElementHandle) Index() int {
	return h.index
}

func (h ElementHandle) element() *elementBinding {
	return &h.builder.elements[h.index]
}

// TagName returns the tag the element was added with.
func (h ElementHandle) TagName() string {
	return h.element().tagName
}

// AddRawBinding binds rawKey (see Classify) directly on the element.
func (h ElementHandle) AddRawBinding(rawKey string, expr expression_parser.AST, opts ...BindingOption) {
	el := h.element()
	el.rawBindings = append(el.rawBindings, newRawBinding(rawKey, expr, opts))
}

// AddDirective attaches a new directive. Directives keep their attach order.
func (h ElementHandle) AddDirective() DirectiveHandle {
	el := h.element()
	el.directives = append(el.directives, directiveBinding{})
	return DirectiveHandle{builder: h.builder, element: h.index, index: len(el.directives) - 1}
}

// SetComponentID marks the element as the host of a component. Component
// hosts are validated strictly even when their tag is custom, including
// when id is empty.
func (h ElementHandle) SetComponentID(id string) {
	el := h.element()
	el.componentID = id
	el.hasComponent = true
}

// DirectiveHandle addresses one directive attached to an element.
type DirectiveHandle struct {
	builder *ViewPlanBuilder
	element int
	index   int
}

// Index is the attach position of the directive on its element.
func (h DirectiveHandle) Index() int {
	return h.index
}

// Element returns the handle of the directive's host element.
func (h DirectiveHandle) Element() ElementHandle {
	return ElementHandle{builder: h.builder, index: h.element}
}

func (h DirectiveHandle) directive() *directiveBinding {
	return &h.builder.elements[h.element].directives[h.index]
}

// AddPropertyBinding declares that the directive's internalName input is
// bindable from the template as hostFacingName. A top-level binding to the
// same name is then owned by the directive.
func (h DirectiveHandle) AddPropertyBinding(internalName string, expr expression_parser.AST, hostFacingName string) {
	d := h.directive()
	d.properties = append(d.properties, directiveProperty{
		internalName:   internalName,
		expr:           expr,
		hostFacingName: hostFacingName,
	})
}

// AddHostBinding binds rawKey on the host element on behalf of the directive.
func (h DirectiveHandle) AddHostBinding(rawKey string, expr expression_parser.AST, opts ...BindingOption) {
	d := h.directive()
	d.hostBindings = append(d.hostBindings, newRawBinding(rawKey, expr, opts))
}

// isCustomTag reports whether tagName is a user-defined element name.
func isCustomTag(tagName string) bool {
	return strings.Contains(tagName, "-")
}
