// Package sema implements semantic validation over the parse tree: symbol
// uniqueness under case-folded identity, reserved-word checks, and
// collection of per-symbol type metadata.
package sema

import (
	"fmt"

	"golang.org/x/text/cases"
)

// EntityKind is the declared kind of a symbol.
type EntityKind int

const (
	KindObject EntityKind = iota
	KindList
)

// String returns the Spanish kind name used in diagnostics and debug output.
func (k EntityKind) String() string {
	if k == KindList {
		return "lista"
	}
	return "objeto"
}

// Entry is one symbol-table entry. Immutable once inserted: the analyzer
// assembles metadata first and inserts the finished entry.
//
// Name preserves the original source casing; identity is case-folded only
// at the lookup boundary inside Table.
type Entry struct {
	Name   string
	Kind   EntityKind
	Line   int
	Column int

	// Properties maps property key to its value type tag (objects only).
	// PropertyKeys preserves first-insertion order for deterministic output.
	Properties   map[string]string
	PropertyKeys []string

	// ElementTypes lists element type tags in source order (lists only).
	ElementTypes []string
}

// Reserved words of the surface language, compared case-insensitively.
var reservedWords = foldSet(
	"CREAR", "OBJETO", "LISTA", "CON", "ELEMENTOS", "VERDADERO", "FALSO",
)

func foldSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[foldKey(w)] = true
	}
	return set
}

// foldKey is the single place where case folding happens. Everything else
// stores and emits the original casing.
func foldKey(name string) string {
	return cases.Fold().String(name)
}

// ConflictError reports an attempted redefinition. Existing is the entry
// that survives; it is never overwritten.
type ConflictError struct {
	Existing *Entry
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("symbol %q already declared as %s at line %d",
		e.Existing.Name, e.Existing.Kind, e.Existing.Line)
}

// Table is the case-insensitive symbol registry for one compilation unit.
// Not safe for concurrent use; each compilation owns its own instance.
type Table struct {
	entries map[string]*Entry
	order   []string // fold keys in insertion order
}

// NewTable returns an empty symbol table.
func NewTable() *Table {
	return &Table{entries: make(map[string]*Entry)}
}

// Insert adds an entry. Returns *ConflictError if the case-folded name is
// already present; the existing entry is left untouched.
func (t *Table) Insert(e Entry) error {
	key := foldKey(e.Name)
	if prev, ok := t.entries[key]; ok {
		return &ConflictError{Existing: prev}
	}
	stored := e
	t.entries[key] = &stored
	t.order = append(t.order, key)
	return nil
}

// Lookup finds an entry under case-folded comparison.
func (t *Table) Lookup(name string) (*Entry, bool) {
	e, ok := t.entries[foldKey(name)]
	return e, ok
}

// IsReserved reports whether the case-folded name is a reserved word.
func (t *Table) IsReserved(name string) bool {
	return reservedWords[foldKey(name)]
}

// Len returns the number of declared symbols.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns all entries in insertion order.
func (t *Table) Entries() []*Entry {
	out := make([]*Entry, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.entries[key])
	}
	return out
}
