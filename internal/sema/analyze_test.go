package sema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natjson/natjson/internal/diag"
	"github.com/natjson/natjson/internal/syntax"
)

func objectDecl(name string, line, col int, props ...syntax.Property) syntax.Decl {
	return syntax.Decl{
		Kind:       syntax.DeclObject,
		Name:       name,
		Pos:        syntax.Pos{Line: line, Column: col},
		Properties: props,
	}
}

func listDecl(name string, line, col int, elems ...syntax.Literal) syntax.Decl {
	return syntax.Decl{
		Kind:     syntax.DeclList,
		Name:     name,
		Pos:      syntax.Pos{Line: line, Column: col},
		Elements: elems,
	}
}

func TestAnalyzeValidTree(t *testing.T) {
	tree := &syntax.Tree{
		Source: "demo",
		Decls: []syntax.Decl{
			objectDecl("usuario", 1, 14,
				syntax.Property{Key: "nombre", Value: syntax.Literal{Kind: syntax.LitString, Text: "Juan"}},
				syntax.Property{Key: "edad", Value: syntax.Literal{Kind: syntax.LitInteger, Text: "30"}},
				syntax.Property{Key: "activo", Value: syntax.Literal{Kind: syntax.LitBool, Text: "true"}},
			),
			listDecl("numeros", 2, 13,
				syntax.Literal{Kind: syntax.LitInteger, Text: "1"},
				syntax.Literal{Kind: syntax.LitInteger, Text: "2"},
				syntax.Literal{Kind: syntax.LitInteger, Text: "3"},
			),
		},
	}

	table, diags := Analyze(tree)
	require.Empty(t, diags)
	require.Equal(t, 2, table.Len())

	usuario, ok := table.Lookup("usuario")
	require.True(t, ok)
	assert.Equal(t, KindObject, usuario.Kind)
	assert.Equal(t, []string{"nombre", "edad", "activo"}, usuario.PropertyKeys)
	assert.Equal(t, "STRING", usuario.Properties["nombre"])
	assert.Equal(t, "NUMBER", usuario.Properties["edad"])
	assert.Equal(t, "BOOLEAN", usuario.Properties["activo"])

	numeros, ok := table.Lookup("numeros")
	require.True(t, ok)
	assert.Equal(t, KindList, numeros.Kind)
	assert.Equal(t, []string{"NUMBER", "NUMBER", "NUMBER"}, numeros.ElementTypes)
}

func TestAnalyzeRedefinition(t *testing.T) {
	tree := &syntax.Tree{
		Decls: []syntax.Decl{
			objectDecl("producto", 1, 14),
			listDecl("producto", 3, 13),
		},
	}

	table, diags := Analyze(tree)
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, diag.CodeRedefinition, d.Code)
	assert.Equal(t, diag.Semantic, d.Phase)
	assert.Equal(t, 3, d.Line)
	assert.Equal(t, 13, d.Column)
	assert.Equal(t,
		"Redefinición del símbolo 'producto'. Ya fue declarado como 'objeto' en la línea 1.",
		d.Message)

	// First declaration survives.
	e, ok := table.Lookup("producto")
	require.True(t, ok)
	assert.Equal(t, KindObject, e.Kind)
	assert.Equal(t, 1, e.Line)
}

func TestAnalyzeRedefinitionDifferentCase(t *testing.T) {
	tree := &syntax.Tree{
		Decls: []syntax.Decl{
			listDecl("Datos", 1, 13),
			objectDecl("DATOS", 2, 14),
		},
	}

	_, diags := Analyze(tree)
	require.Len(t, diags, 1)
	assert.Equal(t,
		"Redefinición del símbolo 'DATOS'. Ya fue declarado como 'lista' en la línea 1.",
		diags[0].Message)
}

func TestAnalyzeReservedWord(t *testing.T) {
	tree := &syntax.Tree{
		Decls: []syntax.Decl{
			objectDecl("CREAR", 1, 14),
		},
	}

	table, diags := Analyze(tree)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeReservedWord, diags[0].Code)
	assert.Equal(t,
		"El nombre 'CREAR' es una palabra reservada del lenguaje y no puede usarse como identificador.",
		diags[0].Message)
	assert.Equal(t, 0, table.Len())
}

func TestAnalyzeFailSoft(t *testing.T) {
	// Three violations in one tree: all must be reported, and the valid
	// declaration after them must still be registered.
	tree := &syntax.Tree{
		Decls: []syntax.Decl{
			objectDecl("a", 1, 14),
			objectDecl("a", 2, 14),   // SEM001
			listDecl("LISTA", 3, 13), // SEM002
			objectDecl("A", 4, 14),   // SEM001 (case-folded)
			listDecl("b", 5, 13),
		},
	}

	table, diags := Analyze(tree)
	require.Len(t, diags, 3)
	assert.Equal(t, diag.CodeRedefinition, diags[0].Code)
	assert.Equal(t, diag.CodeReservedWord, diags[1].Code)
	assert.Equal(t, diag.CodeRedefinition, diags[2].Code)

	// Diagnostics come out in tree order.
	assert.Equal(t, 2, diags[0].Line)
	assert.Equal(t, 3, diags[1].Line)
	assert.Equal(t, 4, diags[2].Line)

	assert.Equal(t, 2, table.Len())
	_, ok := table.Lookup("b")
	assert.True(t, ok)
}

func TestAnalyzeEmptyTree(t *testing.T) {
	table, diags := Analyze(&syntax.Tree{})
	assert.Empty(t, diags)
	assert.Equal(t, 0, table.Len())
}

func TestAnalyzeRepeatedPropertyKeepsLatestType(t *testing.T) {
	tree := &syntax.Tree{
		Decls: []syntax.Decl{
			objectDecl("cfg", 1, 14,
				syntax.Property{Key: "valor", Value: syntax.Literal{Kind: syntax.LitString, Text: "x"}},
				syntax.Property{Key: "valor", Value: syntax.Literal{Kind: syntax.LitInteger, Text: "2"}},
			),
		},
	}

	table, diags := Analyze(tree)
	require.Empty(t, diags)

	e, _ := table.Lookup("cfg")
	assert.Equal(t, []string{"valor"}, e.PropertyKeys)
	assert.Equal(t, "NUMBER", e.Properties["valor"])
}
