package core

// SchemaMetadata names a schema that relaxes element and property checks.
type SchemaMetadata struct {
	Name string
}

var (
	CUSTOM_ELEMENTS_SCHEMA = SchemaMetadata{Name: "custom-elements"}
	NO_ERRORS_SCHEMA       = SchemaMetadata{Name: "no-errors-schema"}
)

// SchemaByName returns the well-known schema with the given name.
func SchemaByName(name string) (*SchemaMetadata, bool) {
	switch name {
	case CUSTOM_ELEMENTS_SCHEMA.Name:
		s := CUSTOM_ELEMENTS_SCHEMA
		return &s, true
	case NO_ERRORS_SCHEMA.Name:
		s := NO_ERRORS_SCHEMA
		return &s, true
	}
	return nil, false
}

// HasSchema reports whether schemaMetas contains a schema called name.
func HasSchema(schemaMetas []*SchemaMetadata, name string) bool {
	for _, s := range schemaMetas {
		if s != nil && s.Name == name {
			return true
		}
	}
	return false
}

// SecurityContext represents the security context for sanitization
type SecurityContext int

const (
	SecurityContextNONE SecurityContext = iota
	SecurityContextHTML
	SecurityContextSTYLE
	SecurityContextSCRIPT
	SecurityContextURL
	SecurityContextRESOURCE_URL
)

func (c SecurityContext) String() string {
	switch c {
	case SecurityContextHTML:
		return "HTML"
	case SecurityContextSTYLE:
		return "STYLE"
	case SecurityContextSCRIPT:
		return "SCRIPT"
	case SecurityContextURL:
		return "URL"
	case SecurityContextRESOURCE_URL:
		return "RESOURCE_URL"
	}
	return "NONE"
}
