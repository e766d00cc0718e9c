package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ngc-protoview/packages/compiler/src/render"
)

func newPreviewCmd(flags *rootFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "preview <template.yaml>",
		Short: "Render the resolved view plan of a template as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			registry, err := cfg.Registry()
			if err != nil {
				return err
			}
			plan, err := resolveFile(cfg, registry, args[0], render.HTMLCloner{})
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return render.Preview(cmd.OutOrStdout(), plan)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create preview: %w", err)
			}
			if err := render.Preview(f, plan); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s wrote %s\n", styleOK.Render("✓"), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the HTML to a file instead of stdout")
	return cmd
}
