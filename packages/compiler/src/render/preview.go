// Package render turns a resolved view plan into HTML.
package render

import (
	"io"
	"strconv"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"ngc-protoview/packages/compiler/src/viewplan"
)

// ElementAttr is the data attribute carrying the traversal index of a cloned
// host element.
const ElementAttr = "ngc-element"

// HTMLCloner clones host elements as empty gomponents nodes tagged with their
// traversal index.
type HTMLCloner struct{}

var _ viewplan.TemplateCloner = HTMLCloner{}

func (HTMLCloner) CloneElement(elementIndex int, tagName string) any {
	return g.El(tagName, h.Data(ElementAttr, strconv.Itoa(elementIndex)))
}

// Preview writes an HTML summary of plan to w.
func Preview(w io.Writer, plan *viewplan.ViewPlan) error {
	return PlanNode(plan).Render(w)
}

// PlanNode returns the preview of plan as a node, for embedding in a page.
func PlanNode(plan *viewplan.ViewPlan) g.Node {
	elements := make([]g.Node, 0, plan.Len())
	for i, el := range plan.Elements() {
		elements = append(elements, elementNode(i, el))
	}
	return h.Section(h.Class("ngc-view-plan"), g.Group(elements))
}

func elementNode(index int, el viewplan.ElementPlan) g.Node {
	rows := make([]g.Node, 0, len(el.Bindings()))
	for _, b := range el.Bindings() {
		rows = append(rows, bindingRow(b))
	}

	return h.Article(h.Data("element", strconv.Itoa(index)),
		h.H2(
			h.Code(g.Text("<"+el.TagName+">")),
			g.If(el.ComponentID != "", h.Span(h.Class("component"), g.Text(el.ComponentID))),
		),
		refNode(el.Ref),
		h.Table(
			h.THead(h.Tr(
				h.Th(g.Text("kind")),
				h.Th(g.Text("name")),
				h.Th(g.Text("expression")),
				h.Th(g.Text("security")),
				h.Th(g.Text("source")),
			)),
			h.TBody(g.Group(rows)),
		),
	)
}

func bindingRow(b viewplan.ResolvedBinding) g.Node {
	name := b.Name
	if b.Unit != "" {
		name += "." + b.Unit
	}
	expr := ""
	if b.Expression != nil {
		expr = b.Expression.String()
	}
	source := ""
	if b.SourceSpan != nil {
		source = b.SourceSpan.Start.String()
	}
	return h.Tr(
		g.If(b.DirectiveIndex >= 0, h.Data("directive", strconv.Itoa(b.DirectiveIndex))),
		h.Td(g.Text(b.Kind.String())),
		h.Td(g.Text(name)),
		h.Td(h.Code(g.Text(expr))),
		h.Td(g.Text(b.SecurityContext.String())),
		h.Td(g.Text(source)),
	)
}

// refNode shows the cloned element when the plan was resolved with an
// HTMLCloner, and nothing otherwise.
func refNode(ref any) g.Node {
	n, ok := ref.(g.Node)
	if !ok {
		return nil
	}
	return g.El("template", n)
}
