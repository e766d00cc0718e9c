package schema

import (
	"ngc-protoview/packages/compiler/src/core"
)

// ElementSchemaRegistry answers questions about the bindable surface of
// element kinds. Implementations are read-only once constructed and may be
// shared by concurrent resolutions.
type ElementSchemaRegistry interface {
	// HasProperty checks if a property exists on an element
	HasProperty(tagName string, propName string, schemaMetas []*core.SchemaMetadata) bool

	// HasElement checks if an element exists
	HasElement(tagName string, schemaMetas []*core.SchemaMetadata) bool

	// SecurityContext returns the security context for a property
	SecurityContext(tagName string, propName string, isAttribute bool) core.SecurityContext

	// AllKnownElementNames returns all known element names
	AllKnownElementNames() []string

	// GetMappedPropName returns the canonical spelling of a property name,
	// or propName itself when no alias is registered.
	GetMappedPropName(propName string) string

	// GetDefaultComponentElementName returns the default component element name
	GetDefaultComponentElementName() string
}
