package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/Embrobusto/robusto"
	"github.com/Embrobusto/robusto/loader"
)

// generatedSuffix replaces the input document's extension: the output is
// Ragel-embedded C, to be fed to the ragel tool.
const generatedSuffix = ".c.rl"

func newGenerateCmd() *cobra.Command {
	var (
		outDir string
		strict bool
		tabs   bool
	)

	cmd := &cobra.Command{
		Use:   "generate <protocol-file-or-glob>...",
		Short: "Generate Ragel/C parser source from protocol descriptions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := expandInputs(args)
			if err != nil {
				return err
			}

			pipeline := robusto.NewCPipeline()
			pipeline.StrictLint = strict
			if tabs {
				pipeline.Writer.Indent = "\t"
			}

			for _, input := range inputs {
				if err := generateOne(cmd, pipeline, input, outDir); err != nil {
					return fmt.Errorf("%s: %w", input, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "",
		"directory for generated files (default: alongside each input)")
	cmd.Flags().BoolVar(&strict, "strict", false,
		"treat lint warnings as fatal")
	cmd.Flags().BoolVar(&tabs, "tabs", false,
		"indent generated code with tabs instead of four spaces")
	return cmd
}

func generateOne(cmd *cobra.Command, pipeline *robusto.Pipeline, input, outDir string) error {
	protocol, err := loader.LoadFile(input)
	if err != nil {
		return err
	}

	output := outputPath(input, outDir)
	file, err := os.Create(output)
	if err != nil {
		return err
	}

	report, runErr := pipeline.Run(protocol, file)
	if err := report.Render(cmd.ErrOrStderr()); err != nil {
		file.Close()
		return err
	}
	if runErr != nil {
		file.Close()
		os.Remove(output)
		return runErr
	}
	if err := file.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", input, output)
	return nil
}

// expandInputs resolves glob patterns (with ** support) into input paths.
// A literal path with no glob metacharacters passes through untouched so a
// missing file surfaces as an open error rather than "no matches".
func expandInputs(patterns []string) ([]string, error) {
	var inputs []string
	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			inputs = append(inputs, pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		inputs = append(inputs, matches...)
	}
	return inputs, nil
}

// outputPath derives the generated file's path from the input document's.
func outputPath(input, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if outDir == "" {
		outDir = filepath.Dir(input)
	}
	return filepath.Join(outDir, base+generatedSuffix)
}
