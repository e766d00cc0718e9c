// Package compiler groups the template-binding resolver packages.
//
// Main sub-packages:
//
//   - core: shared enums (SecurityContext) and schema metadata (CUSTOM_ELEMENTS_SCHEMA, NO_ERRORS_SCHEMA)
//   - util: source files, locations and spans
//   - expression_parser: opaque binding expressions
//   - schema: element schema registry for validation, security schema, YAML extensions
//   - viewplan: binding classification, the view plan builder and Resolve
//   - template_source: YAML template descriptions replayed into a builder
//   - render: gomponents cloner and HTML preview of a plan
//   - config: project configuration
//
// Typical use:
//
//	registry := schema.NewDomElementSchemaRegistry()
//	b := viewplan.NewViewPlanBuilder(viewplan.WithSchemas(&core.CUSTOM_ELEMENTS_SCHEMA))
//	el := b.AddElement("div")
//	el.AddRawBinding("tabindex", expr)
//	el.AddDirective().AddPropertyBinding("model", expr, "ngModel")
//	plan, err := b.Resolve(registry, nil)
package compiler
