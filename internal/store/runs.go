package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/natjson/natjson/internal/pipeline"
)

// ErrRunNotFound is returned by GetRun when no row matches the id.
var ErrRunNotFound = errors.New("run not found")

// Run is one archived compilation run. Gated runs carry an empty IR and
// JSON output together with their rendered diagnostics.
type Run struct {
	ID              string `json:"id"`
	Source          string `json:"source"`
	CreatedAt       string `json:"created_at"`
	LexicalErrors   int    `json:"errores_lexicos"`
	SyntacticErrors int    `json:"errores_sintacticos"`
	SemanticErrors  int    `json:"errores_semanticos"`
	Commands        int    `json:"comandos_procesados"`
	IR              string `json:"ir"`
	JSON            string `json:"json_output"`
	Diagnostics     string `json:"diagnostics"`
}

// WriteRun archives one translation result under a fresh run id.
func (s *Store) WriteRun(ctx context.Context, res *pipeline.Result) (Run, error) {
	irJSON := "[]"
	if res.IR != nil {
		b, err := json.Marshal(res.IR)
		if err != nil {
			return Run{}, fmt.Errorf("write run: marshal ir: %w", err)
		}
		irJSON = string(b)
	}

	rendered := make([]string, len(res.Diagnostics))
	for i, d := range res.Diagnostics {
		rendered[i] = d.Format(res.Source)
	}

	run := Run{
		ID:              uuid.NewString(),
		Source:          res.Source,
		LexicalErrors:   res.Stats.LexicalErrors,
		SyntacticErrors: res.Stats.SyntacticErrors,
		SemanticErrors:  res.Stats.SemanticErrors,
		Commands:        res.Stats.CommandsProcessed,
		IR:              irJSON,
		JSON:            string(res.JSON),
		Diagnostics:     strings.Join(rendered, "\n"),
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO runs
		(id, source, lexical_errors, syntactic_errors, semantic_errors, commands, ir, json_output, diagnostics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING created_at
	`,
		run.ID,
		run.Source,
		run.LexicalErrors,
		run.SyntacticErrors,
		run.SemanticErrors,
		run.Commands,
		run.IR,
		run.JSON,
		run.Diagnostics,
	).Scan(&run.CreatedAt)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	return run, nil
}

// ListRuns returns the most recent runs, newest first. A non-positive
// limit returns everything.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, source, created_at, lexical_errors, syntactic_errors,
		       semantic_errors, commands, ir, json_output, diagnostics
		FROM runs
		ORDER BY created_at DESC, id
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.ID, &r.Source, &r.CreatedAt,
			&r.LexicalErrors, &r.SyntacticErrors, &r.SemanticErrors,
			&r.Commands, &r.IR, &r.JSON, &r.Diagnostics,
		); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return runs, nil
}

// GetRun fetches a single run by id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	var r Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, created_at, lexical_errors, syntactic_errors,
		       semantic_errors, commands, ir, json_output, diagnostics
		FROM runs WHERE id = ?
	`, id).Scan(
		&r.ID, &r.Source, &r.CreatedAt,
		&r.LexicalErrors, &r.SyntacticErrors, &r.SemanticErrors,
		&r.Commands, &r.IR, &r.JSON, &r.Diagnostics,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return &r, nil
}
