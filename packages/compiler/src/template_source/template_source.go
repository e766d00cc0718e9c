// Package template_source reads YAML template descriptions and replays them
// into a viewplan.ViewPlanBuilder.
//
// A description lists elements in document order; children are visited
// depth-first right after their parent:
//
//	name: todo-item
//	schemas: [custom-elements]
//	elements:
//	  - tag: li
//	    bindings:
//	      class.done: item.done
//	      tabindex: index
//	    directives:
//	      - name: NgModel
//	        properties:
//	          - input: model
//	            name: ngModel
//	            expression: item.title
//	        host:
//	          class.ng-dirty: dirty
//	    children:
//	      - tag: todo-label
//	        component: TodoLabel
//
// Binding maps keep their written order, and every binding carries the source
// span of its key.
package template_source

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ngc-protoview/packages/compiler/src/core"
	"ngc-protoview/packages/compiler/src/expression_parser"
	"ngc-protoview/packages/compiler/src/util"
	"ngc-protoview/packages/compiler/src/viewplan"
)

// ErrInvalidTemplate is wrapped by every structural error in a description.
var ErrInvalidTemplate = errors.New("invalid template description")

// Template is a parsed template description.
type Template struct {
	Name     string
	Schemas  []*core.SchemaMetadata
	File     *util.ParseSourceFile
	Elements []Element
}

// Element is one host element, in traversal order.
type Element struct {
	Tag        string
	Component  string
	Depth      int
	Bindings   []Binding
	Directives []Directive
	SourceSpan *util.ParseSourceSpan
}

// Binding is a raw binding key and its expression text.
type Binding struct {
	Key        string
	Expression string
	SourceSpan *util.ParseSourceSpan
}

// Directive is a directive attached to an element.
type Directive struct {
	Name         string
	Properties   []DirectiveProperty
	HostBindings []Binding
}

// DirectiveProperty exposes the directive input Input to the template as Name.
type DirectiveProperty struct {
	Input      string
	Name       string
	Expression string
}

type documentYAML struct {
	Name     string        `yaml:"name"`
	Schemas  []string      `yaml:"schemas"`
	Elements []elementYAML `yaml:"elements"`
}

type elementYAML struct {
	Tag        string          `yaml:"tag"`
	Component  string          `yaml:"component"`
	Bindings   yaml.Node       `yaml:"bindings"`
	Directives []directiveYAML `yaml:"directives"`
	Children   []elementYAML   `yaml:"children"`
	// Position of the element mapping itself, filled in while walking.
	node *yaml.Node
}

type directiveYAML struct {
	Name       string         `yaml:"name"`
	Properties []propertyYAML `yaml:"properties"`
	Host       yaml.Node      `yaml:"host"`
}

type propertyYAML struct {
	Input      string `yaml:"input"`
	Name       string `yaml:"name"`
	Expression string `yaml:"expression"`
}

// LoadFile reads and parses the description stored at path.
func LoadFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	return Parse(data, path)
}

// Parse parses a description. url names the source in spans and errors.
func Parse(data []byte, url string) (*Template, error) {
	file := util.NewParseSourceFile(string(data), url)

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, url, err)
	}
	if root.Kind == 0 {
		return &Template{File: file}, nil
	}
	var doc documentYAML
	if err := root.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, url, err)
	}

	t := &Template{Name: doc.Name, File: file}
	for _, name := range doc.Schemas {
		s, ok := core.SchemaByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s: unknown schema %q", ErrInvalidTemplate, url, name)
		}
		t.Schemas = append(t.Schemas, s)
	}

	p := &parser{file: file, template: t}
	if err := p.elements(doc.Elements, elementNodes(&root), 0); err != nil {
		return nil, err
	}
	return t, nil
}

type parser struct {
	file     *util.ParseSourceFile
	template *Template
}

func (p *parser) elements(elements []elementYAML, nodes []*yaml.Node, depth int) error {
	for i := range elements {
		el := &elements[i]
		if i < len(nodes) {
			el.node = nodes[i]
		}
		if err := p.element(el, depth); err != nil {
			return err
		}
		if err := p.elements(el.Children, childNodes(el.node), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) element(el *elementYAML, depth int) error {
	var span *util.ParseSourceSpan
	if el.node != nil {
		span = p.span(el.node, "element")
	}
	if el.Tag == "" {
		return p.errorf(span, "element without a tag")
	}

	out := Element{
		Tag:        el.Tag,
		Component:  el.Component,
		Depth:      depth,
		SourceSpan: span,
	}
	bindings, err := p.bindings(&el.Bindings)
	if err != nil {
		return err
	}
	out.Bindings = bindings

	for _, d := range el.Directives {
		dir := Directive{Name: d.Name}
		for _, prop := range d.Properties {
			if prop.Name == "" {
				return p.errorf(span, "directive %q declares a property without a name", d.Name)
			}
			input := prop.Input
			if input == "" {
				input = prop.Name
			}
			dir.Properties = append(dir.Properties, DirectiveProperty{
				Input:      input,
				Name:       prop.Name,
				Expression: prop.Expression,
			})
		}
		if dir.HostBindings, err = p.bindings(&d.Host); err != nil {
			return err
		}
		out.Directives = append(out.Directives, dir)
	}

	p.template.Elements = append(p.template.Elements, out)
	return nil
}

// bindings reads an ordered key: expression mapping.
func (p *parser) bindings(node *yaml.Node) ([]Binding, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, p.errorf(p.span(node, ""), "bindings must be a mapping of key: expression")
	}
	var out []Binding
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return nil, p.errorf(p.span(key, ""), "binding %q must map to a scalar expression", key.Value)
		}
		out = append(out, Binding{
			Key:        key.Value,
			Expression: value.Value,
			SourceSpan: p.span(key, ""),
		})
	}
	return out, nil
}

func (p *parser) span(node *yaml.Node, details string) *util.ParseSourceSpan {
	start := p.file.LocationAt(node.Line, node.Column)
	end := start
	if start.Offset >= 0 && node.Kind == yaml.ScalarNode {
		end = start.MoveBy(len(node.Value))
	}
	return util.NewParseSourceSpan(start, end, details)
}

func (p *parser) errorf(span *util.ParseSourceSpan, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if span != nil {
		return fmt.Errorf("%w: %s: %s", ErrInvalidTemplate, span.Start, msg)
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidTemplate, p.file.URL, msg)
}

// elementNodes returns the mapping nodes of the top-level "elements" list.
func elementNodes(root *yaml.Node) []*yaml.Node {
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	return sequenceValue(doc, "elements")
}

func childNodes(el *yaml.Node) []*yaml.Node {
	if el == nil {
		return nil
	}
	return sequenceValue(el, "children")
}

func sequenceValue(mapping *yaml.Node, key string) []*yaml.Node {
	if mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key && mapping.Content[i+1].Kind == yaml.SequenceNode {
			return mapping.Content[i+1].Content
		}
	}
	return nil
}

// NewBuilder returns a builder populated with the template's elements. The
// template's schemas are applied before opts.
func (t *Template) NewBuilder(opts ...viewplan.Option) *viewplan.ViewPlanBuilder {
	all := append([]viewplan.Option{viewplan.WithSchemas(t.Schemas...)}, opts...)
	b := viewplan.NewViewPlanBuilder(all...)
	t.Populate(b)
	return b
}

// Populate replays the template's elements into b.
func (t *Template) Populate(b *viewplan.ViewPlanBuilder) {
	for _, el := range t.Elements {
		h := b.AddElement(el.Tag)
		if el.Component != "" {
			h.SetComponentID(el.Component)
		}
		for _, binding := range el.Bindings {
			h.AddRawBinding(binding.Key, t.expression(binding.Expression), viewplan.WithSourceSpan(binding.SourceSpan))
		}
		for _, dir := range el.Directives {
			d := h.AddDirective()
			for _, prop := range dir.Properties {
				d.AddPropertyBinding(prop.Input, t.expression(prop.Expression), prop.Name)
			}
			for _, host := range dir.HostBindings {
				d.AddHostBinding(host.Key, t.expression(host.Expression), viewplan.WithSourceSpan(host.SourceSpan))
			}
		}
	}
}

func (t *Template) expression(text string) expression_parser.AST {
	return expression_parser.NewASTWithSource(expression_parser.NewRawExpr(text), text, t.File.URL)
}
