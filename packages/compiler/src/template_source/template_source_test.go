package template_source_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngc-protoview/packages/compiler/src/core"
	"ngc-protoview/packages/compiler/src/schema"
	"ngc-protoview/packages/compiler/src/template_source"
	"ngc-protoview/packages/compiler/src/viewplan"
)

const todoTemplate = `name: todo-item
schemas: [custom-elements]
elements:
  - tag: li
    bindings:
      class.done: item.done
      tabindex: index
    directives:
      - name: NgModel
        properties:
          - input: model
            name: ngModel
            expression: item.title
        host:
          class.ng-dirty: dirty
    children:
      - tag: todo-label
        component: TodoLabel
        bindings:
          text: item.title
  - tag: input
    bindings:
      readonly: locked
      ngModel: item.title
    directives:
      - properties:
          - name: ngModel
            expression: item.title
`

func TestParse(t *testing.T) {
	t.Run("should read elements in traversal order", func(t *testing.T) {
		tmpl, err := template_source.Parse([]byte(todoTemplate), "todo.yaml")
		require.NoError(t, err)

		assert.Equal(t, "todo-item", tmpl.Name)
		assert.Equal(t, []*core.SchemaMetadata{&core.CUSTOM_ELEMENTS_SCHEMA}, tmpl.Schemas)
		require.Len(t, tmpl.Elements, 3)

		var tags []string
		var depths []int
		for _, el := range tmpl.Elements {
			tags = append(tags, el.Tag)
			depths = append(depths, el.Depth)
		}
		assert.Equal(t, []string{"li", "todo-label", "input"}, tags)
		assert.Equal(t, []int{0, 1, 0}, depths)
		assert.Equal(t, "TodoLabel", tmpl.Elements[1].Component)
	})

	t.Run("should keep binding order and spans", func(t *testing.T) {
		tmpl, err := template_source.Parse([]byte(todoTemplate), "todo.yaml")
		require.NoError(t, err)

		li := tmpl.Elements[0]
		require.Len(t, li.Bindings, 2)
		assert.Equal(t, "class.done", li.Bindings[0].Key)
		assert.Equal(t, "item.done", li.Bindings[0].Expression)
		assert.Equal(t, "tabindex", li.Bindings[1].Key)

		span := li.Bindings[1].SourceSpan
		require.NotNil(t, span)
		assert.Equal(t, "todo.yaml@6:6", span.Start.String())
		assert.Equal(t, "tabindex", span.Text())
	})

	t.Run("should read directives", func(t *testing.T) {
		tmpl, err := template_source.Parse([]byte(todoTemplate), "todo.yaml")
		require.NoError(t, err)

		dirs := tmpl.Elements[0].Directives
		require.Len(t, dirs, 1)
		assert.Equal(t, "NgModel", dirs[0].Name)
		assert.Equal(t, []template_source.DirectiveProperty{
			{Input: "model", Name: "ngModel", Expression: "item.title"},
		}, dirs[0].Properties)
		require.Len(t, dirs[0].HostBindings, 1)
		assert.Equal(t, "class.ng-dirty", dirs[0].HostBindings[0].Key)

		// input defaults to the host-facing name
		input := tmpl.Elements[2].Directives[0].Properties[0]
		assert.Equal(t, "ngModel", input.Input)
	})

	t.Run("should accept an empty document", func(t *testing.T) {
		tmpl, err := template_source.Parse(nil, "empty.yaml")
		require.NoError(t, err)
		assert.Empty(t, tmpl.Elements)
	})

	t.Run("should reject malformed descriptions", func(t *testing.T) {
		cases := map[string]string{
			"missing tag":        "elements:\n  - bindings: {a: b}\n",
			"unknown schema":     "schemas: [strict]\n",
			"sequence bindings":  "elements:\n  - tag: div\n    bindings: [a, b]\n",
			"nested expression":  "elements:\n  - tag: div\n    bindings:\n      a: {b: c}\n",
			"unnamed property":   "elements:\n  - tag: div\n    directives:\n      - properties:\n          - expression: x\n",
			"invalid yaml":       "elements: [\n",
			"wrong element type": "elements: nope\n",
		}
		for name, src := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := template_source.Parse([]byte(src), "bad.yaml")
				require.ErrorIs(t, err, template_source.ErrInvalidTemplate)
				assert.Contains(t, err.Error(), "bad.yaml")
			})
		}
	})

	t.Run("should locate a missing tag", func(t *testing.T) {
		_, err := template_source.Parse([]byte("elements:\n  - tag: div\n  - component: X\n"), "bad.yaml")
		require.ErrorIs(t, err, template_source.ErrInvalidTemplate)
		assert.Contains(t, err.Error(), "bad.yaml@2:4")
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(todoTemplate), 0o644))

	tmpl, err := template_source.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, tmpl.File.URL)

	_, err = template_source.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, template_source.ErrInvalidTemplate)
}

func TestNewBuilder(t *testing.T) {
	registry := schema.NewDomElementSchemaRegistry()

	t.Run("should resolve a described template", func(t *testing.T) {
		tmpl, err := template_source.Parse([]byte(todoTemplate), "todo.yaml")
		require.NoError(t, err)

		b := tmpl.NewBuilder()
		assert.Equal(t, 3, b.ElementCount())

		plan, err := b.Resolve(registry, nil)
		require.NoError(t, err)

		li := plan.Element(0)
		var names []string
		for _, binding := range li.Bindings() {
			names = append(names, binding.Name)
		}
		assert.Equal(t, []string{"done", "tabIndex", "ng-dirty"}, names)
		assert.Equal(t, 0, li.Bindings()[2].DirectiveIndex)
		assert.Equal(t, "item.done in todo.yaml", li.Bindings()[0].Expression.String())

		// ngModel is owned by the directive on <input>
		input := plan.Element(2)
		require.Len(t, input.Bindings(), 1)
		assert.Equal(t, "readOnly", input.Bindings()[0].Name)
	})

	t.Run("should report the span of an invalid binding", func(t *testing.T) {
		src := "elements:\n  - tag: div\n    bindings:\n      unknownProp: x\n"
		tmpl, err := template_source.Parse([]byte(src), "bad.yaml")
		require.NoError(t, err)

		_, err = tmpl.NewBuilder().Resolve(registry, nil)
		require.ErrorIs(t, err, viewplan.ErrUnknownProperty)
		assert.Contains(t, err.Error(), "'unknownProp'")
		assert.Contains(t, err.Error(), ": bad.yaml@3:6")
	})

	t.Run("should apply template schemas", func(t *testing.T) {
		src := "schemas: [no-errors-schema]\nelements:\n  - tag: div\n    bindings:\n      unknownProp: x\n"
		tmpl, err := template_source.Parse([]byte(src), "lax.yaml")
		require.NoError(t, err)

		plan, err := tmpl.NewBuilder().Resolve(registry, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, plan.BindingCount())
	})
}
