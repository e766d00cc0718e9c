package viewplan

import (
	"strings"
)

//go:generate go tool stringer -type=BindingKind -linecomment

// BindingKind selects how a resolved binding is applied to its host element.
type BindingKind int

const (
	BindingKindProperty  BindingKind = iota // PROPERTY
	BindingKindAttribute                    // ATTRIBUTE
	BindingKindClass                        // CLASS
	BindingKindStyle                        // STYLE
)

const (
	propertyPartsSeparator = "."
	attributePrefix        = "attr"
	classPrefix            = "class"
	stylePrefix            = "style"
)

// Classify splits a raw binding key into its kind, target name and unit.
//
// Keys starting with "attr.", "class." or "style." bind an attribute, a CSS
// class or a style; the prefix is removed. A third "style" segment is the unit
// ("style.width.px"). Any other key, including a bare "attr", "class" or
// "style", is a property binding named by the whole key. The unit is empty
// when absent.
func Classify(rawKey string) (kind BindingKind, name string, unit string) {
	parts := strings.Split(rawKey, propertyPartsSeparator)
	if len(parts) > 1 {
		switch parts[0] {
		case attributePrefix:
			return BindingKindAttribute, strings.Join(parts[1:], propertyPartsSeparator), ""
		case classPrefix:
			return BindingKindClass, strings.Join(parts[1:], propertyPartsSeparator), ""
		case stylePrefix:
			if len(parts) > 2 {
				unit = parts[2]
			}
			return BindingKindStyle, parts[1], unit
		}
	}
	return BindingKindProperty, rawKey, ""
}
