// Package irgen lowers a validated parse tree into the linear IR.
//
// Build runs only after semantic analysis reported zero diagnostics; the
// pipeline enforces that gate. Lowering is a single pass in source order:
// one create instruction per declaration, immediately followed by one
// set/append per listed property or element. That ordering is what later
// guarantees deterministic JSON key and element order.
package irgen

import (
	"github.com/natjson/natjson/internal/ir"
	"github.com/natjson/natjson/internal/syntax"
)

// Build lowers the tree to an IR program. Literal values are classified
// into their Value tag here; no coercion is performed.
func Build(tree *syntax.Tree) ir.Program {
	var prog ir.Program

	for _, decl := range tree.Decls {
		switch decl.Kind {
		case syntax.DeclObject:
			prog = append(prog, ir.CreateObject(decl.Name))
			for _, prop := range decl.Properties {
				prog = append(prog, ir.SetProperty(decl.Name, prop.Key, Lower(prop.Value)))
			}
		case syntax.DeclList:
			prog = append(prog, ir.CreateList(decl.Name))
			for _, elem := range decl.Elements {
				prog = append(prog, ir.AppendList(decl.Name, Lower(elem)))
			}
		}
	}

	return prog
}

// Lower converts a literal token to its IR value. Number lexemes are
// carried verbatim so 30 and 30.0 stay distinguishable.
func Lower(lit syntax.Literal) ir.Value {
	switch lit.Kind {
	case syntax.LitString:
		return ir.String(lit.Text)
	case syntax.LitInteger:
		return ir.Number{Text: lit.Text, Kind: ir.Integer}
	case syntax.LitDecimal:
		return ir.Number{Text: lit.Text, Kind: ir.Decimal}
	case syntax.LitBool:
		return ir.Bool(lit.Text == "true")
	default:
		// The literal union is closed; the loader never produces other kinds.
		return ir.String(lit.Text)
	}
}
