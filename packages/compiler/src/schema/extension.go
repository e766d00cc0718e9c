package schema

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidExtension is returned for schema extensions that cannot be applied.
var ErrInvalidExtension = errors.New("invalid schema extension")

// SchemaExtension adds element kinds and property aliases to a registry.
//
//	elements:
//	  my-button:
//	    extends: "[HTMLElement]"
//	    properties: [label, "!pressed", "#count", "*activate"]
//	aliases:
//	  colspan: colSpan
type SchemaExtension struct {
	Elements map[string]ElementExtension `yaml:"elements,omitempty"`
	Aliases  map[string]string           `yaml:"aliases,omitempty"`
}

// ElementExtension describes one element kind. Properties use the same
// prefix notation as the built-in DOM schema.
type ElementExtension struct {
	Extends    string   `yaml:"extends,omitempty"`
	Properties []string `yaml:"properties,omitempty"`
}

// LoadExtension decodes a YAML schema extension. Unknown keys are rejected.
func LoadExtension(r io.Reader) (*SchemaExtension, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var ext SchemaExtension
	if err := dec.Decode(&ext); err != nil {
		if errors.Is(err, io.EOF) {
			return &ext, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidExtension, err)
	}
	return &ext, nil
}

// LoadExtensionFile reads a YAML schema extension from path.
func LoadExtensionFile(path string) (*SchemaExtension, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema extension: %w", err)
	}
	defer f.Close()

	ext, err := LoadExtension(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ext, nil
}

func (r *DomElementSchemaRegistry) extend(ext *SchemaExtension) error {
	// Elements may extend each other; define parents first, whatever the map order.
	pending := make([]string, 0, len(ext.Elements))
	for tag := range ext.Elements {
		pending = append(pending, tag)
	}
	sort.Strings(pending)

	for len(pending) > 0 {
		var deferred []string
		for _, tag := range pending {
			el := ext.Elements[tag]
			parent := strings.ToLower(el.Extends)
			if parent != "" {
				if _, ok := r.schema[parent]; !ok {
					deferred = append(deferred, tag)
					continue
				}
			}
			if err := r.defineElements([]string{tag}, el.Extends, el.Properties); err != nil {
				return err
			}
		}
		if len(deferred) == len(pending) {
			return fmt.Errorf("%w: element %q extends unknown element %q",
				ErrInvalidExtension, deferred[0], ext.Elements[deferred[0]].Extends)
		}
		pending = deferred
	}

	for from, to := range ext.Aliases {
		if from == "" || to == "" {
			return fmt.Errorf("%w: empty alias %q -> %q", ErrInvalidExtension, from, to)
		}
		r.attrToProp[from] = to
	}
	return nil
}
