package render_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"

	"ngc-protoview/packages/compiler/src/expression_parser"
	"ngc-protoview/packages/compiler/src/render"
	"ngc-protoview/packages/compiler/src/schema"
	"ngc-protoview/packages/compiler/src/viewplan"
)

func TestHTMLCloner(t *testing.T) {
	ref := render.HTMLCloner{}.CloneElement(3, "div")
	n, ok := ref.(g.Node)
	require.True(t, ok)

	var sb strings.Builder
	require.NoError(t, n.Render(&sb))
	assert.Equal(t, `<div data-ngc-element="3"></div>`, sb.String())
}

func TestPreview(t *testing.T) {
	registry := schema.NewDomElementSchemaRegistry()

	b := viewplan.NewViewPlanBuilder()
	div := b.AddElement("div")
	div.AddRawBinding("tabindex", expression_parser.NewRawExpr("a && b"))
	div.AddRawBinding("style.width.px", expression_parser.NewRawExpr("w"))
	div.AddDirective().AddHostBinding("class.active", expression_parser.NewRawExpr("on"))
	b.AddElement("my-cmp").SetComponentID("MyCmp")

	t.Run("should render every element and binding", func(t *testing.T) {
		plan, err := b.Resolve(registry, render.HTMLCloner{})
		require.NoError(t, err)

		var sb strings.Builder
		require.NoError(t, render.Preview(&sb, plan))
		out := sb.String()

		assert.True(t, strings.HasPrefix(out, `<section class="ngc-view-plan">`))
		assert.Contains(t, out, `<article data-element="0"><h2><code>&lt;div&gt;</code></h2>`)
		assert.Contains(t, out, `<template><div data-ngc-element="0"></div></template>`)
		assert.Contains(t, out, `<td>PROPERTY</td><td>tabIndex</td><td><code>a &amp;&amp; b</code></td><td>NONE</td>`)
		assert.Contains(t, out, `<td>STYLE</td><td>width.px</td>`)
		assert.Contains(t, out, `<tr data-directive="0"><td>CLASS</td><td>active</td>`)
		assert.Contains(t, out, `<span class="component">MyCmp</span>`)
	})

	t.Run("should omit clones when resolved without a cloner", func(t *testing.T) {
		plan, err := b.Resolve(registry, nil)
		require.NoError(t, err)

		var sb strings.Builder
		require.NoError(t, render.Preview(&sb, plan))
		assert.NotContains(t, sb.String(), "<template>")
	})

	t.Run("should render an empty plan", func(t *testing.T) {
		plan, err := viewplan.NewViewPlanBuilder().Resolve(registry, nil)
		require.NoError(t, err)

		var sb strings.Builder
		require.NoError(t, render.Preview(&sb, plan))
		assert.Equal(t, `<section class="ngc-view-plan"></section>`, sb.String())
	})
}
