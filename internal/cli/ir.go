package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/natjson/natjson/internal/ir"
)

// IRResult is the JSON payload of a successful ir dump.
type IRResult struct {
	Source   string     `json:"source"`
	Commands int        `json:"commands"`
	Program  ir.Program `json:"program"`
}

// NewIRCommand creates the ir command.
func NewIRCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &struct {
		*RootOptions
		TranslateOptions
	}{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ir <document>",
		Short: "Dump the intermediate commands for a declaration document",
		Long: `Dump the intermediate command stream for a declaration document.

The stream reflects the optimizer flags: by default both passes run,
--no-optimize shows the raw lowering.`,
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

			if formatter.Format == "json" {
				return formatter.Success(IRResult{
					Source:   res.Source,
					Commands: len(res.IR),
					Program:  res.IR,
				})
			}

			out, err := json.MarshalIndent(res.IR, "", "  ")
			if err != nil {
				_ = formatter.Error(ErrCodeInternal, err.Error(), nil)
				return WrapExitError(ExitCommandError, "marshaling commands", err)
			}
			fmt.Fprintln(formatter.Writer, string(out))
			return nil
		},
	}

	addTranslateFlags(cmd, &opts.TranslateOptions)
	return cmd
}
