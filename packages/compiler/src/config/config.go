package config

import (
	"fmt"
	"log/slog"
	"runtime"

	"ngc-protoview/packages/compiler/src/core"
	"ngc-protoview/packages/compiler/src/schema"
	"ngc-protoview/packages/compiler/src/viewplan"
)

// ProjectConfig represents the resolver configuration of a project
type ProjectConfig struct {
	Schemas []*core.SchemaMetadata
	// Extensions are schema extension files, loaded in order.
	Extensions  []string
	Concurrency int
	Logger      *slog.Logger
}

// NewProjectConfig creates a new ProjectConfig with optional parameters
func NewProjectConfig(opts ...ProjectConfigOption) *ProjectConfig {
	config := &ProjectConfig{
		Concurrency: ConcurrencyDefault(nil, runtime.GOMAXPROCS(0)),
		Logger:      slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// ProjectConfigOption is a function that modifies ProjectConfig
type ProjectConfigOption func(*ProjectConfig)

// WithSchemas adds schemas applied to every template of the project
func WithSchemas(schemas ...*core.SchemaMetadata) ProjectConfigOption {
	return func(c *ProjectConfig) {
		for _, s := range schemas {
			if !core.HasSchema(c.Schemas, s.Name) {
				c.Schemas = append(c.Schemas, s)
			}
		}
	}
}

// WithExtensions appends schema extension files
func WithExtensions(paths ...string) ProjectConfigOption {
	return func(c *ProjectConfig) {
		c.Extensions = append(c.Extensions, paths...)
	}
}

// WithConcurrency sets how many templates are resolved at once
func WithConcurrency(n int) ProjectConfigOption {
	return func(c *ProjectConfig) {
		c.Concurrency = ConcurrencyDefault(&n, c.Concurrency)
	}
}

// WithLogger sets the logger handed to every builder
func WithLogger(logger *slog.Logger) ProjectConfigOption {
	return func(c *ProjectConfig) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// ConcurrencyDefault returns the configured concurrency, or defaultSetting
// when it is unset or not positive
func ConcurrencyDefault(concurrencyOption *int, defaultSetting int) int {
	if concurrencyOption == nil || *concurrencyOption < 1 {
		return defaultSetting
	}
	return *concurrencyOption
}

// Registry builds the DOM schema registry with every configured extension.
func (c *ProjectConfig) Registry() (*schema.DomElementSchemaRegistry, error) {
	var opts []schema.RegistryOption
	for _, path := range c.Extensions {
		ext, err := schema.LoadExtensionFile(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, schema.WithExtension(ext))
	}
	registry, err := schema.BuildDomElementSchemaRegistry(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build schema registry: %w", err)
	}
	return registry, nil
}

// BuilderOptions returns the viewplan options implied by the config.
func (c *ProjectConfig) BuilderOptions() []viewplan.Option {
	return []viewplan.Option{
		viewplan.WithSchemas(c.Schemas...),
		viewplan.WithLogger(c.Logger),
	}
}
