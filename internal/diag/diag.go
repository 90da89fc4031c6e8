// Package diag defines the diagnostic model shared by the front-end adapter
// and the semantic analyzer.
//
// Diagnostics are plain data: phase, code, position, message. Rendering is
// centralized here so every phase produces byte-identical message framing.
package diag

import (
	"fmt"
	"strings"
)

// Phase identifies which analysis stage detected a diagnostic.
type Phase int

const (
	Lexical Phase = iota
	Syntactic
	Semantic
)

// String returns the Spanish display name used in rendered messages.
func (p Phase) String() string {
	switch p {
	case Lexical:
		return "Léxico"
	case Syntactic:
		return "Sintáctico"
	case Semantic:
		return "Semántico"
	default:
		return "Desconocido"
	}
}

// Semantic diagnostic codes (SEM001-SEM099).
const (
	// CodeRedefinition reports a symbol declared twice under case-folded identity.
	CodeRedefinition = "SEM001"

	// CodeReservedWord reports a reserved word used as an identifier.
	CodeReservedWord = "SEM002"
)

// Diagnostic is a single detected error. Line and Column are 1-indexed.
type Diagnostic struct {
	Phase   Phase  `json:"phase"`
	Code    string `json:"code,omitempty"` // semantic diagnostics only
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// Format renders the diagnostic in the fixed wire format:
//
//	Error {Kind} en '{source}' (Línea {line}:Columna {col}): {message}
//
// Downstream consumers match on this text, so it must not drift.
func (d Diagnostic) Format(source string) string {
	return fmt.Sprintf("Error %s en '%s' (Línea %d:Columna %d): %s",
		d.Phase, source, d.Line, d.Column, d.Message)
}

// Redefinition builds the SEM001 diagnostic for a duplicate declaration.
// prevKind and prevLine describe the surviving original entry.
func Redefinition(name, prevKind string, prevLine, line, col int) Diagnostic {
	return Diagnostic{
		Phase:  Semantic,
		Code:   CodeRedefinition,
		Line:   line,
		Column: col,
		Message: fmt.Sprintf("Redefinición del símbolo '%s'. Ya fue declarado como '%s' en la línea %d.",
			name, prevKind, prevLine),
	}
}

// ReservedWord builds the SEM002 diagnostic for a reserved-word identifier.
func ReservedWord(name string, line, col int) Diagnostic {
	return Diagnostic{
		Phase:  Semantic,
		Code:   CodeReservedWord,
		Line:   line,
		Column: col,
		Message: fmt.Sprintf("El nombre '%s' es una palabra reservada del lenguaje y no puede usarse como identificador.",
			name),
	}
}

// CountByPhase returns how many diagnostics belong to each phase.
func CountByPhase(diags []Diagnostic) (lexical, syntactic, semantic int) {
	for _, d := range diags {
		switch d.Phase {
		case Lexical:
			lexical++
		case Syntactic:
			syntactic++
		case Semantic:
			semantic++
		}
	}
	return lexical, syntactic, semantic
}

// HasFrontEnd reports whether any lexical or syntactic diagnostic is present.
// The pipeline refuses to run any middle-end stage in that case.
func HasFrontEnd(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Phase == Lexical || d.Phase == Syntactic {
			return true
		}
	}
	return false
}

// Summary renders the boxed error report shown by the CLI text output.
// Returns the empty string when there are no diagnostics.
func Summary(source string, diags []Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("╔═════════════════════════════════════╗\n")
	b.WriteString("║     Resumen de Errores Detectados     ║\n")
	b.WriteString("╚═════════════════════════════════════╝\n")
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = "  ⚠️  " + d.Format(source)
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}
