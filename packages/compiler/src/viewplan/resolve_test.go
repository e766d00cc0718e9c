package viewplan_test

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngc-protoview/packages/compiler/src/core"
	"ngc-protoview/packages/compiler/src/expression_parser"
	"ngc-protoview/packages/compiler/src/schema"
	"ngc-protoview/packages/compiler/src/util"
	"ngc-protoview/packages/compiler/src/viewplan"
)

func emptyExpr() expression_parser.AST {
	return expression_parser.NewASTWithSource(expression_parser.NewRawExpr(""), "empty", "empty")
}

func TestViewPlanBuilder(t *testing.T) {
	var (
		builder  *viewplan.ViewPlanBuilder
		registry *schema.DomElementSchemaRegistry
	)

	setup := func(opts ...viewplan.Option) {
		builder = viewplan.NewViewPlanBuilder(opts...)
		registry = schema.NewDomElementSchemaRegistry()
	}

	t.Run("verification of properties", func(t *testing.T) {
		t.Run("should throw for unknown properties", func(t *testing.T) {
			setup()
			builder.AddElement("div").AddRawBinding("unknownProperty", emptyExpr())

			plan, err := builder.Resolve(registry, nil)
			require.Nil(t, plan)
			require.EqualError(t, err,
				`Can't bind to 'unknownProperty' since it isn't a known property of the '<div>' element and there are no matching directives with a corresponding property. If this is an attribute, make sure to prefix its name with 'attr.'`)

			var verr *viewplan.SchemaValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "div", verr.TagName)
			assert.Equal(t, "unknownProperty", verr.Property)
			assert.Equal(t, 0, verr.ElementIndex)
			assert.Equal(t, -1, verr.DirectiveIndex)
			assert.False(t, verr.HostBinding)
			assert.ErrorIs(t, err, viewplan.ErrUnknownProperty)
		})

		t.Run("should allow unknown properties if a directive uses it", func(t *testing.T) {
			setup()
			el := builder.AddElement("div")
			el.AddDirective().AddPropertyBinding("someDirProperty", emptyExpr(), "directiveProperty")
			el.AddRawBinding("directiveProperty", emptyExpr())

			plan, err := builder.Resolve(registry, nil)
			require.NoError(t, err)
			assert.Empty(t, plan.Element(0).PropertyBindings(), spew.Sdump(plan.Element(0).Bindings()))
		})

		t.Run("should throw for unknown host properties even if another directive uses it", func(t *testing.T) {
			setup()
			el := builder.AddElement("div")
			el.AddDirective().AddPropertyBinding("someDirProperty", emptyExpr(), "someDirProperty")
			el.AddDirective().AddHostBinding("someDirProperty", emptyExpr())

			_, err := builder.Resolve(registry, nil)
			require.EqualError(t, err,
				`Can't bind to 'someDirProperty' since it isn't a known property of the '<div>' element`)

			var verr *viewplan.SchemaValidationError
			require.ErrorAs(t, err, &verr)
			assert.True(t, verr.HostBinding)
			assert.Equal(t, 1, verr.DirectiveIndex)
		})

		t.Run("should allow unknown properties on custom elements", func(t *testing.T) {
			setup()
			builder.AddElement("some-custom").AddRawBinding("unknownProperty", emptyExpr())

			plan, err := builder.Resolve(registry, nil)
			require.NoError(t, err)
			bindings := plan.Element(0).PropertyBindings()
			require.Len(t, bindings, 1)
			assert.Equal(t, "unknownProperty", bindings[0].Name)
			assert.True(t, plan.Element(0).IsCustom)
		})

		t.Run("should throw for unknown properties on custom elements if there is an ng component", func(t *testing.T) {
			setup()
			el := builder.AddElement("some-custom")
			el.AddRawBinding("unknownProperty", emptyExpr())
			el.SetComponentID("someComponent")

			_, err := builder.Resolve(registry, nil)
			require.EqualError(t, err,
				`Can't bind to 'unknownProperty' since it isn't a known property of the '<some-custom>' element and there are no matching directives with a corresponding property. If this is an attribute, make sure to prefix its name with 'attr.'`)
		})

		t.Run("should validate custom elements with an empty component id", func(t *testing.T) {
			setup()
			el := builder.AddElement("some-custom")
			el.AddRawBinding("unknownProperty", emptyExpr())
			el.SetComponentID("")

			_, err := builder.Resolve(registry, nil)
			var validationErr *viewplan.SchemaValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, "some-custom", validationErr.TagName)
			assert.Equal(t, "unknownProperty", validationErr.Property)
		})

		t.Run("should not exempt host bindings on custom elements", func(t *testing.T) {
			setup()
			builder.AddElement("some-custom").AddDirective().AddHostBinding("unknownProperty", emptyExpr())

			_, err := builder.Resolve(registry, nil)
			require.ErrorIs(t, err, viewplan.ErrUnknownProperty)
		})

		t.Run("should accept custom element properties with CUSTOM_ELEMENTS_SCHEMA", func(t *testing.T) {
			setup(viewplan.WithSchemas(&core.CUSTOM_ELEMENTS_SCHEMA))
			el := builder.AddElement("some-custom")
			el.SetComponentID("someComponent")
			el.AddRawBinding("unknownProperty", emptyExpr())
			el.AddDirective().AddHostBinding("otherProperty", emptyExpr())

			_, err := builder.Resolve(registry, nil)
			require.NoError(t, err)
		})

		t.Run("should accept anything with NO_ERRORS_SCHEMA", func(t *testing.T) {
			setup(viewplan.WithSchemas(&core.NO_ERRORS_SCHEMA))
			builder.AddElement("div").AddRawBinding("unknownProperty", emptyExpr())

			_, err := builder.Resolve(registry, nil)
			require.NoError(t, err)
		})

		t.Run("should never validate attribute, class and style bindings", func(t *testing.T) {
			setup()
			el := builder.AddElement("div")
			el.AddRawBinding("attr.unknown", emptyExpr())
			el.AddRawBinding("class.unknown", emptyExpr())
			el.AddRawBinding("style.unknown", emptyExpr())
			el.AddDirective().AddHostBinding("attr.role", emptyExpr())

			plan, err := builder.Resolve(registry, nil)
			require.NoError(t, err)
			assert.Len(t, plan.Element(0).Bindings(), 4)
		})

		t.Run("should report the first failure in traversal order", func(t *testing.T) {
			setup()
			builder.AddElement("div").AddRawBinding("title", emptyExpr())
			second := builder.AddElement("span")
			second.AddDirective().AddHostBinding("hostOnly", emptyExpr())
			second.AddRawBinding("first", emptyExpr())
			builder.AddElement("p").AddRawBinding("third", emptyExpr())

			_, err := builder.Resolve(registry, nil)
			var verr *viewplan.SchemaValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, 1, verr.ElementIndex)
			assert.Equal(t, "first", verr.Property)
			assert.False(t, verr.HostBinding)
		})

		t.Run("should include the source location in the message", func(t *testing.T) {
			setup()
			file := util.NewParseSourceFile("<div [unknownProperty]=\"x\"></div>", "app.html")
			start := file.LocationAt(1, 6)
			span := util.NewParseSourceSpan(start, start.MoveBy(17), "")
			builder.AddElement("div").AddRawBinding("unknownProperty", emptyExpr(), viewplan.WithSourceSpan(span))

			_, err := builder.Resolve(registry, nil)
			var verr *viewplan.SchemaValidationError
			require.ErrorAs(t, err, &verr)
			assert.Same(t, span, verr.SourceSpan)
			assert.Contains(t, err.Error(), ": app.html@0:5")
		})
	})

	t.Run("property normalization", func(t *testing.T) {
		cases := []struct {
			tag, key, want string
		}{
			{"div", "innerHtml", "innerHTML"},
			{"div", "tabindex", "tabIndex"},
			{"input", "readonly", "readOnly"},
			{"div", "class", "className"},
		}
		for _, c := range cases {
			t.Run("should normalize "+c.key+" to "+c.want, func(t *testing.T) {
				setup()
				builder.AddElement(c.tag).AddRawBinding(c.key, emptyExpr())

				plan, err := builder.Resolve(registry, nil)
				require.NoError(t, err)
				assert.Equal(t, c.want, plan.Element(0).PropertyBindings()[0].Name)
			})
		}

		t.Run("should not normalize other kinds", func(t *testing.T) {
			setup()
			el := builder.AddElement("div")
			el.AddRawBinding("attr.tabindex", emptyExpr())
			el.AddRawBinding("class.readonly", emptyExpr())
			el.AddRawBinding("style.innerHtml", emptyExpr())

			plan, err := builder.Resolve(registry, nil)
			require.NoError(t, err)
			bindings := plan.Element(0).Bindings()
			require.Len(t, bindings, 3)
			assert.Equal(t, "tabindex", bindings[0].Name)
			assert.Equal(t, "readonly", bindings[1].Name)
			assert.Equal(t, "innerHtml", bindings[2].Name)
		})

		t.Run("should normalize host property bindings", func(t *testing.T) {
			setup()
			builder.AddElement("div").AddDirective().AddHostBinding("tabindex", emptyExpr())

			plan, err := builder.Resolve(registry, nil)
			require.NoError(t, err)
			assert.Equal(t, "tabIndex", plan.Element(0).PropertyBindings()[0].Name)
		})
	})

	t.Run("property binding", func(t *testing.T) {
		t.Run("types", func(t *testing.T) {
			cases := []struct {
				key  string
				kind viewplan.BindingKind
			}{
				{"tabindex", viewplan.BindingKindProperty},
				{"attr.someName", viewplan.BindingKindAttribute},
				{"class.someName", viewplan.BindingKindClass},
				{"style.someName", viewplan.BindingKindStyle},
			}
			for _, c := range cases {
				t.Run("should detect "+c.kind.String(), func(t *testing.T) {
					setup()
					builder.AddElement("div").AddRawBinding(c.key, emptyExpr())

					plan, err := builder.Resolve(registry, nil)
					require.NoError(t, err)
					assert.Equal(t, c.kind, plan.Element(0).Bindings()[0].Kind)
				})
			}

			t.Run("should detect style units", func(t *testing.T) {
				setup()
				builder.AddElement("div").AddRawBinding("style.someName.someUnit", emptyExpr())

				plan, err := builder.Resolve(registry, nil)
				require.NoError(t, err)
				assert.Equal(t, "someUnit", plan.Element(0).Bindings()[0].Unit)
			})
		})

		t.Run("should not create a property binding when there is already same directive property binding", func(t *testing.T) {
			setup()
			el := builder.AddElement("div")
			el.AddRawBinding("tabindex", emptyExpr())
			el.AddDirective().AddPropertyBinding("tabindex", emptyExpr(), "tabindex")

			plan, err := builder.Resolve(registry, nil)
			require.NoError(t, err)
			assert.Len(t, plan.Element(0).PropertyBindings(), 0)
		})

		t.Run("should compare directive claims in canonical form", func(t *testing.T) {
			setup()
			el := builder.AddElement("div")
			el.AddDirective().AddPropertyBinding("index", emptyExpr(), "tabIndex")
			el.AddRawBinding("tabindex", emptyExpr())

			plan, err := builder.Resolve(registry, nil)
			require.NoError(t, err)
			assert.Empty(t, plan.Element(0).Bindings())
		})

		t.Run("should ignore directive claims of non-property keys", func(t *testing.T) {
			setup()
			el := builder.AddElement("div")
			el.AddDirective().AddPropertyBinding("role", emptyExpr(), "attr.unknownProperty")
			el.AddRawBinding("unknownProperty", emptyExpr())

			_, err := builder.Resolve(registry, nil)
			require.ErrorIs(t, err, viewplan.ErrUnknownProperty)
		})

		t.Run("should drop claimed properties regardless of directive order", func(t *testing.T) {
			setup()
			el := builder.AddElement("div")
			el.AddRawBinding("title", emptyExpr())
			el.AddDirective()
			el.AddDirective().AddPropertyBinding("heading", emptyExpr(), "title")

			plan, err := builder.Resolve(registry, nil)
			require.NoError(t, err)
			assert.Empty(t, plan.Element(0).Bindings())
		})

		t.Run("should order own bindings before host bindings in directive order", func(t *testing.T) {
			setup()
			el := builder.AddElement("a")
			first := el.AddDirective()
			second := el.AddDirective()
			second.AddHostBinding("attr.role", expression_parser.NewRawExpr("role"))
			first.AddHostBinding("href", expression_parser.NewRawExpr("url"))
			el.AddRawBinding("class.active", expression_parser.NewRawExpr("isActive"))
			el.AddRawBinding("style.width.px", expression_parser.NewRawExpr("width"))

			plan, err := builder.Resolve(registry, nil)
			require.NoError(t, err)

			want := []viewplan.ResolvedBinding{
				{Kind: viewplan.BindingKindClass, Name: "active", Expression: expression_parser.NewRawExpr("isActive"), DirectiveIndex: -1},
				{Kind: viewplan.BindingKindStyle, Name: "width", Unit: "px", Expression: expression_parser.NewRawExpr("width"), SecurityContext: core.SecurityContextSTYLE, DirectiveIndex: -1},
				{Kind: viewplan.BindingKindProperty, Name: "href", Expression: expression_parser.NewRawExpr("url"), SecurityContext: core.SecurityContextURL, DirectiveIndex: 0},
				{Kind: viewplan.BindingKindAttribute, Name: "role", Expression: expression_parser.NewRawExpr("role"), DirectiveIndex: 1},
			}
			if diff := cmp.Diff(want, plan.Element(0).Bindings()); diff != "" {
				t.Errorf("bindings mismatch (-want +got):\n%s", diff)
			}
		})

		t.Run("should attach security contexts", func(t *testing.T) {
			setup()
			el := builder.AddElement("div")
			el.AddRawBinding("innerHtml", emptyExpr())
			el.AddRawBinding("attr.innerHtml", emptyExpr())
			el.AddRawBinding("class.innerHTML", emptyExpr())

			plan, err := builder.Resolve(registry, nil)
			require.NoError(t, err)
			bindings := plan.Element(0).Bindings()
			assert.Equal(t, core.SecurityContextHTML, bindings[0].SecurityContext)
			assert.Equal(t, core.SecurityContextHTML, bindings[1].SecurityContext)
			assert.Equal(t, core.SecurityContextNONE, bindings[2].SecurityContext)
		})
	})

	t.Run("plan", func(t *testing.T) {
		t.Run("should align elements with traversal order and record metadata", func(t *testing.T) {
			setup()
			builder.AddElement("div")
			cmpEl := builder.AddElement("my-cmp")
			cmpEl.SetComponentID("MyCmp")
			builder.AddElement("span")

			var calls []int
			cloner := viewplan.TemplateClonerFunc(func(i int, tag string) any {
				calls = append(calls, i)
				return "clone:" + tag
			})
			plan, err := builder.Resolve(registry, cloner)
			require.NoError(t, err)
			require.Equal(t, 3, plan.Len())
			assert.Equal(t, []int{0, 1, 2}, calls)

			el := plan.Element(1)
			assert.Equal(t, "my-cmp", el.TagName)
			assert.Equal(t, "MyCmp", el.ComponentID)
			assert.True(t, el.IsCustom)
			assert.Equal(t, "clone:my-cmp", el.Ref)
			assert.False(t, plan.Element(0).IsCustom)
		})

		t.Run("should not clone when resolution fails", func(t *testing.T) {
			setup()
			builder.AddElement("div")
			builder.AddElement("div").AddRawBinding("unknownProperty", emptyExpr())

			called := false
			_, err := builder.Resolve(registry, viewplan.TemplateClonerFunc(func(int, string) any {
				called = true
				return nil
			}))
			require.Error(t, err)
			assert.False(t, called)
		})

		t.Run("should not be affected by changes to returned slices", func(t *testing.T) {
			setup()
			builder.AddElement("div").AddRawBinding("title", emptyExpr())

			plan, err := builder.Resolve(registry, nil)
			require.NoError(t, err)
			bindings := plan.Element(0).Bindings()
			bindings[0].Name = "changed"
			elements := plan.Elements()
			elements[0].TagName = "changed"

			assert.Equal(t, "title", plan.Element(0).Bindings()[0].Name)
			assert.Equal(t, "div", plan.Element(0).TagName)
		})

		t.Run("should be idempotent", func(t *testing.T) {
			setup()
			el := builder.AddElement("input")
			el.AddRawBinding("readonly", expression_parser.NewRawExpr("locked"))
			el.AddRawBinding("attr.aria-label", expression_parser.NewRawExpr("label"))
			dir := el.AddDirective()
			dir.AddPropertyBinding("model", expression_parser.NewRawExpr("m"), "ngModel")
			dir.AddHostBinding("class.ng-dirty", expression_parser.NewRawExpr("dirty"))
			el.AddRawBinding("ngModel", expression_parser.NewRawExpr("value"))
			builder.AddElement("my-widget").AddRawBinding("anything", expression_parser.NewRawExpr("x"))

			first, err := builder.Resolve(registry, nil)
			require.NoError(t, err)
			second, err := builder.Resolve(registry, nil)
			require.NoError(t, err)

			opt := cmp.AllowUnexported(viewplan.ViewPlan{}, viewplan.ElementPlan{})
			if diff := cmp.Diff(first, second, opt); diff != "" {
				t.Errorf("plans differ (-first +second):\n%s", diff)
			}
			assert.Equal(t, 4, first.BindingCount(), spew.Sdump(first.Elements()))
		})
	})

	t.Run("should log dropped bindings at debug level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		setup(viewplan.WithLogger(logger))
		el := builder.AddElement("div")
		el.AddRawBinding("tabindex", emptyExpr())
		el.AddDirective().AddPropertyBinding("tabindex", emptyExpr(), "tabindex")

		_, err := builder.Resolve(registry, nil)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "property binding owned by a directive")
		assert.Contains(t, buf.String(), "property=tabIndex")
	})
}

func TestConcurrentResolution(t *testing.T) {
	registry := schema.NewDomElementSchemaRegistry()

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := viewplan.NewViewPlanBuilder()
			el := b.AddElement("div")
			el.AddRawBinding("tabindex", emptyExpr())
			if i%2 == 1 {
				el.AddRawBinding("unknownProperty", emptyExpr())
			}
			_, errs[i] = b.Resolve(registry, nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if i%2 == 1 {
			assert.True(t, errors.Is(err, viewplan.ErrUnknownProperty), "template %d", i)
		} else {
			assert.NoError(t, err, "template %d", i)
		}
	}
}

func TestHandles(t *testing.T) {
	b := viewplan.NewViewPlanBuilder()
	first := b.AddElement("div")
	second := b.AddElement("span")
	dir := second.AddDirective()

	assert.Equal(t, 0, first.Index())
	assert.Equal(t, 1, second.Index())
	assert.Equal(t, 2, b.ElementCount())
	assert.Equal(t, "span", b.Element(1).TagName())
	assert.Equal(t, 0, dir.Index())
	assert.Equal(t, second, dir.Element())
	assert.Equal(t, 1, second.AddDirective().Index())
	assert.Panics(t, func() { b.Element(5) })
}
