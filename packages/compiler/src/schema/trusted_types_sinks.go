package schema

import (
	"strings"
)

// trustedTypesSinks is the set of tagName|propertyName corresponding to Trusted Types sinks.
// Properties applying to all tags use '*'. All entries are lowercase.
var trustedTypesSinks = map[string]bool{
	// TrustedHTML
	"iframe|srcdoc": true,
	"*|innerhtml":   true,
	"*|outerhtml":   true,

	// TrustedScriptURL
	"embed|src":       true,
	"object|codebase": true,
	"object|data":     true,
}

// IsTrustedTypesSink reports whether propName on tagName only accepts
// Trusted Types values. Comparison is case insensitive.
func IsTrustedTypesSink(tagName string, propName string) bool {
	tagName = strings.ToLower(tagName)
	propName = strings.ToLower(propName)
	return trustedTypesSinks[tagName+"|"+propName] || trustedTypesSinks["*|"+propName]
}
