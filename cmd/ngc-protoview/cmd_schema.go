package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"ngc-protoview/packages/compiler/src/schema"
)

func newSchemaCmd(flags *rootFlags) *cobra.Command {
	var listElements bool

	cmd := &cobra.Command{
		Use:   "schema [tag [property]]",
		Short: "Query the element schema",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			registry, err := cfg.Registry()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch {
			case listElements || len(args) == 0:
				for _, name := range registry.AllKnownElementNames() {
					fmt.Fprintln(w, name)
				}
				return nil
			case len(args) == 1:
				field(w, "element", args[0])
				field(w, "known", strconv.FormatBool(registry.HasElement(args[0], cfg.Schemas)))
				return nil
			}

			tag, prop := args[0], registry.GetMappedPropName(args[1])
			field(w, "element", tag)
			field(w, "property", prop)
			field(w, "known", strconv.FormatBool(registry.HasProperty(tag, prop, cfg.Schemas)))
			if t := registry.PropertyType(tag, prop); t != "" {
				field(w, "type", t)
			}
			field(w, "security", registry.SecurityContext(tag, prop, false).String())
			field(w, "trusted types sink", strconv.FormatBool(schema.IsTrustedTypesSink(tag, prop)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&listElements, "elements", "l", false, "list every known element")
	return cmd
}

func field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", styleLabel.Render(label+":"), styleValue.Render(value))
}
