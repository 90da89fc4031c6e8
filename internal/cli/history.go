package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/natjson/natjson/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB    string
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List archived translation runs",
		Long: `List archived translation runs, newest first.

With a run id, show that single run including its stored JSON output
and diagnostics.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			return runHistory(opts, runID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "run archive database path")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, runID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	s, err := store.Open(opts.DB)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening archive", err)
	}
	defer s.Close()

	ctx := context.Background()

	if runID != "" {
		run, err := s.GetRun(ctx, runID)
		if err != nil {
			code := ErrCodeStore
			if errors.Is(err, store.ErrRunNotFound) {
				code = ErrCodeGeneric
			}
			_ = formatter.Error(code, err.Error(), nil)
			return WrapExitError(ExitCommandError, "reading run", err)
		}
		return outputRun(formatter, run)
	}

	runs, err := s.ListRuns(ctx, opts.Limit)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "listing runs", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No archived runs")
		return nil
	}
	for _, r := range runs {
		status := "ok"
		if r.LexicalErrors+r.SyntacticErrors+r.SemanticErrors > 0 {
			status = "error"
		}
		fmt.Fprintf(formatter.Writer, "%s  %s  %-5s  %s  %d command(s)\n",
			r.ID, r.CreatedAt, status, r.Source, r.Commands)
	}
	return nil
}

func outputRun(formatter *OutputFormatter, run *store.Run) error {
	if formatter.Format == "json" {
		return formatter.Success(run)
	}

	fmt.Fprintf(formatter.Writer, "Run %s\n", run.ID)
	fmt.Fprintf(formatter.Writer, "  Source:   %s\n", run.Source)
	fmt.Fprintf(formatter.Writer, "  Created:  %s\n", run.CreatedAt)
	fmt.Fprintf(formatter.Writer, "  Commands: %d\n", run.Commands)
	fmt.Fprintf(formatter.Writer, "  Errors:   %d lexical, %d syntactic, %d semantic\n",
		run.LexicalErrors, run.SyntacticErrors, run.SemanticErrors)
	if run.JSON != "" {
		fmt.Fprintf(formatter.Writer, "\n%s\n", run.JSON)
	}
	if run.Diagnostics != "" {
		fmt.Fprintf(formatter.Writer, "\n%s\n", run.Diagnostics)
	}
	return nil
}
