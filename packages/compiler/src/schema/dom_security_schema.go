package schema

import (
	"strings"
	"sync"

	"ngc-protoview/packages/compiler/src/core"
)

// Case is insignificant below, all element and attribute names are lower-cased for lookup.
var securitySchema = sync.OnceValue(func() map[string]core.SecurityContext {
	m := make(map[string]core.SecurityContext)
	register := func(ctx core.SecurityContext, specs ...string) {
		for _, key := range specs {
			m[strings.ToLower(key)] = ctx
		}
	}

	register(core.SecurityContextHTML,
		"iframe|srcdoc",
		"*|innerHTML",
		"*|outerHTML",
	)
	register(core.SecurityContextSTYLE, "*|style")
	// NB: no SCRIPT contexts here, they are never allowed due to the parser stripping them.
	register(core.SecurityContextURL,
		"*|formAction",
		"area|href",
		"area|ping",
		"audio|src",
		"a|href",
		"a|ping",
		"blockquote|cite",
		"body|background",
		"del|cite",
		"form|action",
		"img|src",
		"input|src",
		"ins|cite",
		"q|cite",
		"source|src",
		"track|src",
		"video|poster",
		"video|src",
	)
	register(core.SecurityContextRESOURCE_URL,
		"applet|code",
		"applet|codebase",
		"base|href",
		"embed|src",
		"frame|src",
		"head|profile",
		"html|manifest",
		"iframe|src",
		"link|href",
		"media|src",
		"object|codebase",
		"object|data",
		"script|src",
	)
	return m
})

// SecuritySchema returns the tag|property to security context table. The map
// is shared and must not be modified.
func SecuritySchema() map[string]core.SecurityContext {
	return securitySchema()
}
