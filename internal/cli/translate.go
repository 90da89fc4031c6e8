package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/natjson/natjson/internal/loader"
	"github.com/natjson/natjson/internal/optimizer"
	"github.com/natjson/natjson/internal/pipeline"
)

// TranslateOptions holds the optimizer flags shared by the commands
// that run the full pipeline.
type TranslateOptions struct {
	NoOptimize          bool
	KeepRedundantWrites bool
	NoGrouping          bool
}

func (o TranslateOptions) pipeline() pipeline.Options {
	return pipeline.Options{
		Optimizer: optimizer.Options{
			SkipRedundantWrites: o.NoOptimize || o.KeepRedundantWrites,
			SkipGrouping:        o.NoOptimize || o.NoGrouping,
		},
	}
}

func addTranslateFlags(cmd *cobra.Command, opts *TranslateOptions) {
	cmd.Flags().BoolVar(&opts.NoOptimize, "no-optimize", false, "skip both optimizer passes")
	cmd.Flags().BoolVar(&opts.KeepRedundantWrites, "keep-redundant-writes", false, "skip redundant-write elimination")
	cmd.Flags().BoolVar(&opts.NoGrouping, "no-grouping", false, "skip locality grouping")
}

// translateFile loads one document and runs the pipeline over it.
// Load failures and internal failures come back as ExitError with
// code 2, already reported through the formatter.
func translateFile(formatter *OutputFormatter, path string, opts TranslateOptions) (*pipeline.Result, error) {
	tree, frontEnd, err := loader.LoadFile(path)
	if err != nil {
		var loadErr *loader.Error
		code := ErrCodeLoad
		if !errors.As(err, &loadErr) {
			code = ErrCodeGeneric
		}
		_ = formatter.Error(code, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("loading %s", path), err)
	}

	formatter.VerboseLog("Loaded %s: %d declaration(s), %d carried diagnostic(s)",
		path, len(tree.Decls), len(frontEnd))

	res, err := pipeline.Translate(tree, frontEnd, opts.pipeline())
	if err != nil {
		_ = formatter.Error(ErrCodeInternal, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "translation failed", err)
	}
	return res, nil
}

// diagnosticsError reports a gated result and returns the exit-1 error.
func diagnosticsError(formatter *OutputFormatter, res *pipeline.Result) error {
	if formatter.Format == "json" {
		rendered := make([]string, len(res.Diagnostics))
		for i, d := range res.Diagnostics {
			rendered[i] = d.Format(res.Source)
		}
		message := fmt.Sprintf("translation stopped with %d diagnostic(s)", len(res.Diagnostics))
		_ = formatter.Error(ErrCodeDiagnostics, message, map[string]interface{}{
			"diagnostics": rendered,
			"stats":       res.Stats,
		})
	} else {
		fmt.Fprintln(formatter.Writer, res.ErrorSummary())
	}
	return NewExitError(ExitDiagnostics, fmt.Sprintf("translation stopped with %d diagnostic(s)", len(res.Diagnostics)))
}
