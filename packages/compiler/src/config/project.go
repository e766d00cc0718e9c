package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"ngc-protoview/packages/compiler/src/core"
)

// ProjectFileName is the project file looked up in the working directory.
const ProjectFileName = "ngc-protoview.yaml"

// ErrInvalidConfig is wrapped by errors in a project file.
var ErrInvalidConfig = errors.New("invalid project config")

// ProjectFile is the on-disk form of a ProjectConfig.
type ProjectFile struct {
	Schemas     []string `yaml:"schemas"`
	Extensions  []string `yaml:"extensions"`
	Concurrency *int     `yaml:"concurrency"`
}

// ParseProjectFile reads and parses a project file
func ParseProjectFile(path string) (*ProjectFile, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read project config: %w", err)
	}
	defer f.Close()

	var project ProjectFile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&project); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	return &project, nil
}

// GetProjectRoot returns the directory containing the project file
func (p *ProjectFile) GetProjectRoot(projectPath string) string {
	return filepath.Dir(projectPath)
}

// Options converts the file into config options. Relative extension paths
// are resolved against root.
func (p *ProjectFile) Options(root string) ([]ProjectConfigOption, error) {
	var opts []ProjectConfigOption
	for _, name := range p.Schemas {
		s, ok := core.SchemaByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown schema %q", ErrInvalidConfig, name)
		}
		opts = append(opts, WithSchemas(s))
	}
	for _, ext := range p.Extensions {
		if !filepath.IsAbs(ext) {
			ext = filepath.Join(root, ext)
		}
		opts = append(opts, WithExtensions(ext))
	}
	if p.Concurrency != nil {
		if *p.Concurrency < 1 {
			return nil, fmt.Errorf("%w: concurrency must be positive, got %d", ErrInvalidConfig, *p.Concurrency)
		}
		opts = append(opts, WithConcurrency(*p.Concurrency))
	}
	return opts, nil
}

// LoadProjectConfig builds a ProjectConfig from the project file at path,
// then applies opts on top. A missing file yields the defaults.
func LoadProjectConfig(path string, opts ...ProjectConfigOption) (*ProjectConfig, error) {
	project, err := ParseProjectFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return NewProjectConfig(opts...), nil
	case err != nil:
		return nil, err
	}

	fileOpts, err := project.Options(project.GetProjectRoot(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewProjectConfig(append(fileOpts, opts...)...), nil
}
