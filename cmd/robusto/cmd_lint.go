package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Embrobusto/robusto/lint"
	"github.com/Embrobusto/robusto/loader"
)

func newLintCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "lint <protocol-file-or-glob>...",
		Short: "Validate protocol descriptions without generating code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := expandInputs(args)
			if err != nil {
				return err
			}

			var failed bool
			for _, input := range inputs {
				protocol, err := loader.LoadFile(input)
				if err != nil {
					return err
				}

				report := lint.Protocol(protocol)
				if err := report.Render(cmd.OutOrStdout()); err != nil {
					return err
				}
				if report.HasErrors() || (strict && report.Count(lint.Warning) > 0) {
					failed = true
				}
			}
			if failed {
				return fmt.Errorf("lint failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
	return cmd
}
