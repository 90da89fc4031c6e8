package emit

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natjson/natjson/internal/ir"
	"github.com/natjson/natjson/internal/optimizer"
)

func mustJSON(t *testing.T, prog ir.Program) string {
	t.Helper()
	env, err := Materialize(prog)
	require.NoError(t, err)
	b, err := env.MarshalJSON()
	require.NoError(t, err)
	return string(b)
}

func TestMaterializeSimpleObject(t *testing.T) {
	prog := ir.Program{
		ir.CreateObject("usuario"),
		ir.SetProperty("usuario", "nombre", ir.String("Ana")),
		ir.SetProperty("usuario", "edad", ir.Number{Text: "25", Kind: ir.Integer}),
	}
	assert.Equal(t, `{"usuario":{"nombre":"Ana","edad":25}}`, mustJSON(t, prog))
}

func TestMaterializeOverwriteKeepsKeyOrder(t *testing.T) {
	prog := ir.Program{
		ir.CreateObject("o"),
		ir.SetProperty("o", "a", ir.Number{Text: "1", Kind: ir.Integer}),
		ir.SetProperty("o", "b", ir.Number{Text: "2", Kind: ir.Integer}),
		ir.SetProperty("o", "a", ir.Number{Text: "9", Kind: ir.Integer}),
	}
	// "a" keeps its first-insertion position even though it was rewritten.
	assert.Equal(t, `{"o":{"a":9,"b":2}}`, mustJSON(t, prog))
}

func TestMaterializeList(t *testing.T) {
	prog := ir.Program{
		ir.CreateList("valores"),
		ir.AppendList("valores", ir.Number{Text: "1", Kind: ir.Integer}),
		ir.AppendList("valores", ir.Number{Text: "2.5", Kind: ir.Decimal}),
		ir.AppendList("valores", ir.Bool(true)),
		ir.AppendList("valores", ir.String("fin")),
	}
	assert.Equal(t, `{"valores":[1,2.5,true,"fin"]}`, mustJSON(t, prog))
}

func TestMaterializeEmptyProgram(t *testing.T) {
	assert.Equal(t, "{}", mustJSON(t, ir.Program{}))
}

func TestMaterializeEmptyContainers(t *testing.T) {
	prog := ir.Program{
		ir.CreateObject("o"),
		ir.CreateList("l"),
	}
	assert.Equal(t, `{"o":{},"l":[]}`, mustJSON(t, prog))
}

func TestNumberSubkindPreserved(t *testing.T) {
	prog := ir.Program{
		ir.CreateObject("n"),
		ir.SetProperty("n", "entero", ir.Number{Text: "30", Kind: ir.Integer}),
		ir.SetProperty("n", "decimal", ir.Number{Text: "30.0", Kind: ir.Decimal}),
		ir.SetProperty("n", "negativo", ir.Number{Text: "-7.25", Kind: ir.Decimal}),
	}
	assert.Equal(t, `{"n":{"entero":30,"decimal":30.0,"negativo":-7.25}}`, mustJSON(t, prog))
}

func TestStringEscaping(t *testing.T) {
	prog := ir.Program{
		ir.CreateObject("s"),
		ir.SetProperty("s", "cita", ir.String(`dijo "hola"`)),
		ir.SetProperty("s", "html", ir.String("<b>&</b>")),
	}
	// Internal quotes escaped, HTML characters not.
	assert.Equal(t, `{"s":{"cita":"dijo \"hola\"","html":"<b>&</b>"}}`, mustJSON(t, prog))
}

func TestTopLevelOrderIsCreateOrder(t *testing.T) {
	prog := ir.Program{
		ir.CreateObject("z"),
		ir.CreateList("a"),
		ir.CreateObject("m"),
	}
	env, err := Materialize(prog)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, env.Names())
}

func TestMaterializeInvariantViolations(t *testing.T) {
	t.Run("set before create", func(t *testing.T) {
		_, err := Materialize(ir.Program{ir.SetProperty("x", "k", ir.Bool(true))})
		assert.Error(t, err)
	})
	t.Run("double create", func(t *testing.T) {
		_, err := Materialize(ir.Program{ir.CreateObject("x"), ir.CreateList("x")})
		assert.Error(t, err)
	})
	t.Run("append to object", func(t *testing.T) {
		_, err := Materialize(ir.Program{ir.CreateObject("x"), ir.AppendList("x", ir.Bool(true))})
		assert.Error(t, err)
	})
	t.Run("set on list", func(t *testing.T) {
		_, err := Materialize(ir.Program{ir.CreateList("x"), ir.SetProperty("x", "k", ir.Bool(true))})
		assert.Error(t, err)
	})
}

// Semantic preservation: executing the optimized program yields the same
// final environment as executing the original.
func TestOptimizePreservesSemantics(t *testing.T) {
	programs := []ir.Program{
		{
			ir.CreateObject("usuario"),
			ir.SetProperty("usuario", "edad", ir.Number{Text: "20", Kind: ir.Integer}),
			ir.SetProperty("usuario", "edad", ir.Number{Text: "25", Kind: ir.Integer}),
		},
		{
			ir.CreateObject("A"),
			ir.CreateObject("B"),
			ir.SetProperty("A", "x", ir.Number{Text: "1", Kind: ir.Integer}),
			ir.SetProperty("B", "y", ir.Number{Text: "2", Kind: ir.Integer}),
			ir.SetProperty("A", "z", ir.Number{Text: "3", Kind: ir.Integer}),
		},
		{
			ir.CreateObject("data"),
			ir.CreateList("items"),
			ir.SetProperty("data", "val", ir.Number{Text: "10", Kind: ir.Integer}),
			ir.SetProperty("data", "val", ir.Number{Text: "20", Kind: ir.Integer}),
			ir.AppendList("items", ir.Number{Text: "1", Kind: ir.Integer}),
			ir.AppendList("items", ir.Number{Text: "2", Kind: ir.Integer}),
		},
		{},
	}

	for i, prog := range programs {
		original := mustJSON(t, prog)
		optimized := mustJSON(t, optimizer.Optimize(prog))
		assert.Equal(t, original, optimized, "program %d", i)
	}
}

func TestRedundantWriteVisibleInJSON(t *testing.T) {
	prog := optimizer.Optimize(ir.Program{
		ir.CreateObject("usuario"),
		ir.SetProperty("usuario", "edad", ir.Number{Text: "20", Kind: ir.Integer}),
		ir.SetProperty("usuario", "edad", ir.Number{Text: "25", Kind: ir.Integer}),
	})
	require.Len(t, prog, 2)
	assert.Equal(t, `{"usuario":{"edad":25}}`, mustJSON(t, prog))
}

func TestMarshalIndentGolden(t *testing.T) {
	prog := ir.Program{
		ir.CreateObject("usuario"),
		ir.SetProperty("usuario", "nombre", ir.String("Ana")),
		ir.SetProperty("usuario", "edad", ir.Number{Text: "25", Kind: ir.Integer}),
		ir.CreateList("valores"),
		ir.AppendList("valores", ir.Number{Text: "1", Kind: ir.Integer}),
		ir.AppendList("valores", ir.Number{Text: "2.5", Kind: ir.Decimal}),
		ir.AppendList("valores", ir.Bool(true)),
	}

	env, err := Materialize(prog)
	require.NoError(t, err)
	out, err := env.MarshalIndent()
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "materialize_indent", out)
}
