package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/natjson/natjson/internal/pipeline"
	"github.com/natjson/natjson/internal/store"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	TranslateOptions
	Output  string // output file path
	Compact bool   // emit the compact document instead of the indented one
	Store   string // archive database path, empty disables archiving
}

// BuildResult is the JSON payload of a successful build.
type BuildResult struct {
	Source   string          `json:"source"`
	Document json.RawMessage `json:"document"`
	Stats    pipeline.Stats  `json:"stats"`
	RunID    string          `json:"run_id,omitempty"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <document>",
		Short: "Translate a declaration document to JSON",
		Long: `Translate a declaration document to a JSON value.

The document is validated, lowered to intermediate commands, optimized
and materialized. Diagnostics stop the translation before any output
is produced.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&opts.Compact, "compact", false, "emit compact JSON")
	cmd.Flags().StringVar(&opts.Store, "store", "", "archive the run in this database")
	addTranslateFlags(cmd, &opts.TranslateOptions)

	return cmd
}

func runBuild(opts *BuildOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	res, err := translateFile(formatter, path, opts.TranslateOptions)
	if err != nil {
		return err
	}
	if !res.OK() {
		return diagnosticsError(formatter, res)
	}

	doc := res.JSON
	if opts.Compact {
		doc = res.JSONCompact
	}

	runID := ""
	if opts.Store != "" {
		run, err := archiveRun(opts.Store, res)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "archiving run", err)
		}
		runID = run.ID
		formatter.VerboseLog("Archived run %s in %s", run.ID, opts.Store)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, append(append([]byte(nil), doc...), '\n'), 0644); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(BuildResult{
			Source:   res.Source,
			Document: json.RawMessage(doc),
			Stats:    res.Stats,
			RunID:    runID,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ Translated %s: %d command(s)\n\n", res.Source, res.Stats.CommandsProcessed)
	fmt.Fprintln(formatter.Writer, string(doc))
	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "\nWrote JSON to %s\n", opts.Output)
	}
	return nil
}

func archiveRun(path string, res *pipeline.Result) (store.Run, error) {
	s, err := store.Open(path)
	if err != nil {
		return store.Run{}, err
	}
	defer s.Close()
	return s.WriteRun(context.Background(), res)
}
