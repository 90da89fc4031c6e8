// Package pipeline orchestrates one translation call: semantic analysis,
// IR construction, optimization, and emission, with the two policy gates
// in between.
//
// Gate 1: any lexical or syntactic diagnostic skips the middle-end
// entirely. Gate 2: any semantic diagnostic skips IR building and all
// downstream stages; no partial output is ever produced.
//
// Everything is scoped to the call: symbol table, diagnostics, IR and
// environment are private per invocation, so concurrent calls share no
// mutable state.
package pipeline

import (
	"fmt"

	"github.com/natjson/natjson/internal/diag"
	"github.com/natjson/natjson/internal/emit"
	"github.com/natjson/natjson/internal/ir"
	"github.com/natjson/natjson/internal/irgen"
	"github.com/natjson/natjson/internal/optimizer"
	"github.com/natjson/natjson/internal/sema"
	"github.com/natjson/natjson/internal/syntax"
)

// Options tunes a translation call. The zero value runs both optimizer
// passes.
type Options struct {
	Optimizer optimizer.Options
}

// SymbolInfo is the debug view of one symbol-table entry.
type SymbolInfo struct {
	Name         string            `json:"name"`
	Kind         string            `json:"tipo_entidad"`
	Properties   map[string]string `json:"propiedades,omitempty"`
	PropertyKeys []string          `json:"-"`
	ElementTypes []string          `json:"tipos_elementos,omitempty"`
}

// Stats summarizes one translation call.
type Stats struct {
	LexicalErrors     int          `json:"errores_lexicos"`
	SyntacticErrors   int          `json:"errores_sintacticos"`
	SemanticErrors    int          `json:"errores_semanticos"`
	CommandsProcessed int          `json:"comandos_procesados"`
	Symbols           []SymbolInfo `json:"symbols_debug,omitempty"`
}

// Result is the outcome of one translation call. JSON and Python are nil
// or empty whenever a gate fired; Diagnostics explains why.
type Result struct {
	Source      string
	Diagnostics []diag.Diagnostic
	IR          ir.Program // optimized program, nil if gated
	JSON        []byte     // indented document
	JSONCompact []byte
	Python      string
	Stats       Stats
}

// OK reports whether the call produced output.
func (r *Result) OK() bool {
	return len(r.Diagnostics) == 0
}

// ErrorSummary renders the boxed diagnostic report for this result.
func (r *Result) ErrorSummary() string {
	return diag.Summary(r.Source, r.Diagnostics)
}

// Translate runs the full middle-end over one parse tree. frontEnd holds
// diagnostics the external parser attached to the tree; when present they
// gate everything. The error return covers internal failures only - all
// user-level problems surface as Diagnostics on the Result.
func Translate(tree *syntax.Tree, frontEnd []diag.Diagnostic, opts Options) (*Result, error) {
	res := &Result{Source: tree.Source}

	if diag.HasFrontEnd(frontEnd) {
		res.Diagnostics = frontEnd
		res.Stats.LexicalErrors, res.Stats.SyntacticErrors, res.Stats.SemanticErrors = diag.CountByPhase(frontEnd)
		return res, nil
	}

	table, semDiags := sema.Analyze(tree)
	res.Stats.Symbols = symbolInfos(table)

	if len(semDiags) > 0 {
		res.Diagnostics = semDiags
		res.Stats.SemanticErrors = len(semDiags)
		return res, nil
	}

	prog := optimizer.OptimizeWith(irgen.Build(tree), opts.Optimizer)
	if err := prog.Check(); err != nil {
		return nil, fmt.Errorf("optimized program invalid: %w", err)
	}
	res.IR = prog

	env, err := emit.Materialize(prog)
	if err != nil {
		return nil, fmt.Errorf("materialize: %w", err)
	}
	res.Stats.CommandsProcessed = env.Len()

	if res.JSON, err = env.MarshalIndent(); err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	if res.JSONCompact, err = env.MarshalJSON(); err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	if res.Python, err = emit.GeneratePython(prog); err != nil {
		return nil, fmt.Errorf("generate python: %w", err)
	}

	return res, nil
}

func symbolInfos(table *sema.Table) []SymbolInfo {
	entries := table.Entries()
	if len(entries) == 0 {
		return nil
	}
	infos := make([]SymbolInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, SymbolInfo{
			Name:         e.Name,
			Kind:         e.Kind.String(),
			Properties:   e.Properties,
			PropertyKeys: e.PropertyKeys,
			ElementTypes: e.ElementTypes,
		})
	}
	return infos
}
