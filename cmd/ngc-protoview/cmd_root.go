package main

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"ngc-protoview/packages/compiler/src/config"
	"ngc-protoview/packages/compiler/src/core"
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	styleLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	styleValue = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	styleOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	styleErr   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath  string
	schemas     []string
	extensions  []string
	concurrency int
	verbose     bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Resolve template bindings into view plans",
		Long: appName + " classifies, normalizes and validates the bindings of YAML template\n" +
			"descriptions against the DOM element schema.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", config.ProjectFileName,
		"project config file (ignored when missing)")
	pf.StringArrayVar(&flags.schemas, "schema", nil,
		"schema applied to every template: custom-elements or no-errors-schema (repeatable)")
	pf.StringArrayVarP(&flags.extensions, "extension", "e", nil,
		"YAML schema extension file (repeatable)")
	pf.IntVarP(&flags.concurrency, "concurrency", "j", 0,
		"templates resolved at once (default: project config or GOMAXPROCS)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false,
		"log resolution details to stderr")

	rootCmd.AddCommand(
		newResolveCmd(flags),
		newClassifyCmd(flags),
		newPreviewCmd(flags),
		newSchemaCmd(flags),
	)
	return rootCmd
}

// load reads the project config and applies command-line flags on top.
func (f *rootFlags) load(cmd *cobra.Command) (*config.ProjectConfig, error) {
	var opts []config.ProjectConfigOption
	for _, name := range f.schemas {
		s, ok := core.SchemaByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown schema %q", name)
		}
		opts = append(opts, config.WithSchemas(s))
	}
	opts = append(opts, config.WithExtensions(f.extensions...))
	if cmd.Flags().Changed("concurrency") {
		opts = append(opts, config.WithConcurrency(f.concurrency))
	}
	if f.verbose {
		handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, config.WithLogger(slog.New(handler)))
	}
	return config.LoadProjectConfig(f.configPath, opts...)
}
