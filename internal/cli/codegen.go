package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// CodegenResult is the JSON payload of a successful codegen run.
type CodegenResult struct {
	Source string `json:"source"`
	Python string `json:"python"`
}

// NewCodegenCommand creates the codegen command.
func NewCodegenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &struct {
		*RootOptions
		TranslateOptions
		Output string
	}{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "codegen <document>",
		Short:         "Translate a declaration document to Python source",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}

			res, err := translateFile(formatter, args[0], opts.TranslateOptions)
			if err != nil {
				return err
			}
			if !res.OK() {
				return diagnosticsError(formatter, res)
			}

			if opts.Output != "" {
				if err := os.WriteFile(opts.Output, []byte(res.Python), 0644); err != nil {
					_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
					return WrapExitError(ExitCommandError, "writing output file", err)
				}
			}

			if formatter.Format == "json" {
				return formatter.Success(CodegenResult{Source: res.Source, Python: res.Python})
			}

			fmt.Fprint(formatter.Writer, res.Python)
			if opts.Output != "" {
				fmt.Fprintf(formatter.Writer, "\nWrote Python to %s\n", opts.Output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	addTranslateFlags(cmd, &opts.TranslateOptions)
	return cmd
}
