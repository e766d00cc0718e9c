package viewplan

import (
	"errors"
	"fmt"

	"ngc-protoview/packages/compiler/src/util"
)

// ErrUnknownProperty matches every SchemaValidationError with errors.Is.
var ErrUnknownProperty = errors.New("unknown property")

// SchemaValidationError reports a property binding that no schema entry, and
// for top-level bindings no directive, accepts.
type SchemaValidationError struct {
	TagName  string
	Property string
	// ElementIndex is the traversal index of the offending element.
	ElementIndex int
	// DirectiveIndex is the directive owning a failed host binding, or -1.
	DirectiveIndex int
	HostBinding    bool
	SourceSpan     *util.ParseSourceSpan
}

func (e *SchemaValidationError) Error() string {
	msg := fmt.Sprintf("Can't bind to '%s' since it isn't a known property of the '<%s>' element", e.Property, e.TagName)
	if !e.HostBinding {
		msg += " and there are no matching directives with a corresponding property." +
			" If this is an attribute, make sure to prefix its name with 'attr.'"
	}
	if e.SourceSpan != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.SourceSpan.Start)
	}
	return msg
}

func (e *SchemaValidationError) Is(target error) bool {
	return target == ErrUnknownProperty
}
