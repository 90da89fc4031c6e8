// Package syntax defines the parse-tree data model handed to the middle-end.
//
// The surface grammar has exactly two statement shapes, so declarations are a
// closed two-variant union (Kind + per-kind payload) rather than an open
// visitor hierarchy. The front-end that produces these trees is external;
// this package only describes the contract.
package syntax

// Pos is a 1-indexed source position.
type Pos struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// LiteralKind classifies a literal token. Integer and Decimal are kept
// distinct so emitted output can reproduce the source spelling (30 vs 30.0).
type LiteralKind int

const (
	LitString LiteralKind = iota
	LitInteger
	LitDecimal
	LitBool
)

// Literal is a single literal token. Text holds the lexeme with string
// quotes already stripped; for booleans Text is "true" or "false".
type Literal struct {
	Kind LiteralKind
	Text string
	Pos  Pos
}

// Property is one key:value pair inside an object declaration.
type Property struct {
	Key   string
	Value Literal
	Pos   Pos
}

// DeclKind discriminates the two declaration shapes.
type DeclKind int

const (
	DeclObject DeclKind = iota
	DeclList
)

// Decl is a single declaration statement. Exactly one of Properties or
// Elements is meaningful, selected by Kind.
type Decl struct {
	Kind       DeclKind
	Name       string
	Pos        Pos
	Properties []Property // DeclObject
	Elements   []Literal  // DeclList
}

// Tree is one parsed compilation unit, in source order.
type Tree struct {
	Source string // display name for diagnostics, e.g. a file name
	Decls  []Decl
}
