package viewplan

import (
	"log/slog"

	"ngc-protoview/packages/compiler/src/core"
	"ngc-protoview/packages/compiler/src/schema"
)

// Resolve validates every binding of the builder against registry and returns
// the resulting plan. The first invalid binding aborts resolution with a
// *SchemaValidationError and no plan.
//
// Elements are processed in traversal order. Within an element the bindings
// written on the element come first, then the host bindings of each directive
// in attach order. cloner may be nil, in which case ElementPlan.Ref stays nil.
//
// Resolve does not modify the builder; resolving an unchanged builder twice
// yields equal plans.
func (b *ViewPlanBuilder) Resolve(registry schema.ElementSchemaRegistry, cloner TemplateCloner) (*ViewPlan, error) {
	plan := &ViewPlan{elements: make([]ElementPlan, 0, len(b.elements))}

	for i := range b.elements {
		el := &b.elements[i]
		bindings, err := b.resolveElement(registry, i, el)
		if err != nil {
			return nil, err
		}
		plan.elements = append(plan.elements, ElementPlan{
			TagName:     el.tagName,
			ComponentID: el.componentID,
			IsCustom:    isCustomTag(el.tagName),
			bindings:    bindings,
		})
	}

	if cloner != nil {
		for i := range plan.elements {
			plan.elements[i].Ref = cloner.CloneElement(i, plan.elements[i].TagName)
		}
	}

	b.logger.Debug("resolved view plan",
		slog.Int("elements", plan.Len()),
		slog.Int("bindings", plan.BindingCount()))
	return plan, nil
}

func (b *ViewPlanBuilder) resolveElement(registry schema.ElementSchemaRegistry, index int, el *elementBinding) ([]ResolvedBinding, error) {
	claimed := directiveClaims(registry, el)
	// Custom tags without a component accept any property.
	permissive := isCustomTag(el.tagName) && !el.hasComponent

	var out []ResolvedBinding
	for _, raw := range el.rawBindings {
		kind, name, unit := Classify(raw.key)
		if kind == BindingKindProperty {
			name = registry.GetMappedPropName(name)
			if claimed[name] {
				b.logger.Debug("property binding owned by a directive",
					slog.Int("element", index),
					slog.String("tag", el.tagName),
					slog.String("property", name))
				continue
			}
			if !permissive && !registry.HasProperty(el.tagName, name, b.schemas) {
				return nil, &SchemaValidationError{
					TagName:        el.tagName,
					Property:       name,
					ElementIndex:   index,
					DirectiveIndex: -1,
					SourceSpan:     raw.sourceSpan,
				}
			}
		}
		out = append(out, newResolvedBinding(registry, el.tagName, kind, name, unit, raw, -1))
	}

	for d, dir := range el.directives {
		for _, host := range dir.hostBindings {
			kind, name, unit := Classify(host.key)
			if kind == BindingKindProperty {
				name = registry.GetMappedPropName(name)
				// Host bindings target the element itself: only the schema counts.
				if !registry.HasProperty(el.tagName, name, b.schemas) {
					return nil, &SchemaValidationError{
						TagName:        el.tagName,
						Property:       name,
						ElementIndex:   index,
						DirectiveIndex: d,
						HostBinding:    true,
						SourceSpan:     host.sourceSpan,
					}
				}
			}
			out = append(out, newResolvedBinding(registry, el.tagName, kind, name, unit, host, d))
		}
	}
	return out, nil
}

// directiveClaims returns the canonical names of the properties the element's
// directives expose to the template.
func directiveClaims(registry schema.ElementSchemaRegistry, el *elementBinding) map[string]bool {
	claimed := make(map[string]bool)
	for _, dir := range el.directives {
		for _, prop := range dir.properties {
			kind, name, _ := Classify(prop.hostFacingName)
			if kind != BindingKindProperty {
				continue
			}
			claimed[registry.GetMappedPropName(name)] = true
		}
	}
	return claimed
}

func newResolvedBinding(
	registry schema.ElementSchemaRegistry,
	tagName string,
	kind BindingKind,
	name string,
	unit string,
	raw rawBinding,
	directiveIndex int,
) ResolvedBinding {
	var ctx core.SecurityContext
	switch kind {
	case BindingKindProperty:
		ctx = registry.SecurityContext(tagName, name, false)
	case BindingKindAttribute:
		ctx = registry.SecurityContext(tagName, name, true)
	case BindingKindStyle:
		ctx = core.SecurityContextSTYLE
	default:
		ctx = core.SecurityContextNONE
	}
	return ResolvedBinding{
		Kind:            kind,
		Name:            name,
		Unit:            unit,
		Expression:      raw.expr,
		SecurityContext: ctx,
		DirectiveIndex:  directiveIndex,
		SourceSpan:      raw.sourceSpan,
	}
}
