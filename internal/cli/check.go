package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/natjson/natjson/internal/pipeline"
)

// CheckResult is the JSON payload of a successful check.
type CheckResult struct {
	Source string         `json:"source"`
	Stats  pipeline.Stats `json:"stats"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &struct {
		*RootOptions
		TranslateOptions
	}{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "check <document>",
		Short:         "Validate a declaration document without emitting output",
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
				return formatter.Success(CheckResult{Source: res.Source, Stats: res.Stats})
			}

			fmt.Fprintf(formatter.Writer, "✓ %s: %d command(s), no errors\n",
				res.Source, res.Stats.CommandsProcessed)
			for _, sym := range res.Stats.Symbols {
				formatter.VerboseLog("  %s (%s)", sym.Name, sym.Kind)
			}
			return nil
		},
	}

	addTranslateFlags(cmd, &opts.TranslateOptions)
	return cmd
}
