package sema

import (
	"github.com/natjson/natjson/internal/diag"
	"github.com/natjson/natjson/internal/syntax"
)

// Analyze walks the tree once in source order, populating a fresh symbol
// table and collecting diagnostics.
//
// Analysis never aborts on a diagnostic: every declaration is checked so a
// single run reports every violation. The returned table may be partial
// when diagnostics are present; the caller gates IR construction on the
// diagnostics list being empty.
func Analyze(tree *syntax.Tree) (*Table, []diag.Diagnostic) {
	table := NewTable()
	var diags []diag.Diagnostic

	for _, decl := range tree.Decls {
		if table.IsReserved(decl.Name) {
			diags = append(diags, diag.ReservedWord(decl.Name, decl.Pos.Line, decl.Pos.Column))
			continue
		}

		entry := buildEntry(decl)
		if err := table.Insert(entry); err != nil {
			conflict := err.(*ConflictError)
			prev := conflict.Existing
			diags = append(diags, diag.Redefinition(
				decl.Name, prev.Kind.String(), prev.Line, decl.Pos.Line, decl.Pos.Column))
		}
	}

	return table, diags
}

// buildEntry assembles a complete entry, metadata included, so the table
// only ever holds finished immutable entries.
func buildEntry(decl syntax.Decl) Entry {
	entry := Entry{
		Name:   decl.Name,
		Line:   decl.Pos.Line,
		Column: decl.Pos.Column,
	}

	switch decl.Kind {
	case syntax.DeclObject:
		entry.Kind = KindObject
		entry.Properties = make(map[string]string, len(decl.Properties))
		for _, prop := range decl.Properties {
			if _, seen := entry.Properties[prop.Key]; !seen {
				entry.PropertyKeys = append(entry.PropertyKeys, prop.Key)
			}
			// Repeated keys keep the latest type, matching last-write-wins.
			entry.Properties[prop.Key] = LiteralTag(prop.Value.Kind)
		}
	case syntax.DeclList:
		entry.Kind = KindList
		for _, elem := range decl.Elements {
			entry.ElementTypes = append(entry.ElementTypes, LiteralTag(elem.Kind))
		}
	}

	return entry
}

// LiteralTag maps a literal kind to its type tag: STRING, NUMBER, BOOLEAN.
func LiteralTag(kind syntax.LiteralKind) string {
	switch kind {
	case syntax.LitString:
		return "STRING"
	case syntax.LitInteger, syntax.LitDecimal:
		return "NUMBER"
	case syntax.LitBool:
		return "BOOLEAN"
	default:
		return "UNKNOWN"
	}
}
