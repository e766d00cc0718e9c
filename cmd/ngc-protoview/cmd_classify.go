package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ngc-protoview/packages/compiler/src/viewplan"
)

func newClassifyCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <key>...",
		Short: "Show how raw binding keys are classified and normalized",
		Args:  cobra.MinimumNArgs(1),
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
			for _, key := range args {
				kind, name, unit := viewplan.Classify(key)
				if kind == viewplan.BindingKindProperty {
					name = registry.GetMappedPropName(name)
				}
				line := fmt.Sprintf("%s %s %s", styleLabel.Render(key), styleDim.Render("→"), styleValue.Render(kind.String()+" "+name))
				if unit != "" {
					line += styleDim.Render(" unit=" + unit)
				}
				fmt.Fprintln(w, line)
			}
			return nil
		},
	}
}
