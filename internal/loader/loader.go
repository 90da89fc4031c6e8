// Package loader is the input adapter between the external front-end and
// the middle-end. It reads syntax-tree documents (YAML or JSON), validates
// their shape against an embedded CUE schema, and builds a syntax.Tree.
//
// Lexing and parsing of the surface language happen outside this module;
// a document may carry the front-end's lexical/syntactic diagnostics and
// those are surfaced as-is so the pipeline can gate on them.
package loader

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/natjson/natjson/internal/diag"
	"github.com/natjson/natjson/internal/syntax"
)

//go:embed schema.cue
var schemaCUE string

// Error codes for load failures.
const (
	ErrCodeRead    = "LOAD_READ"    // file not readable
	ErrCodeSchema  = "LOAD_SCHEMA"  // document does not match the schema
	ErrCodeDecode  = "LOAD_DECODE"  // document is not valid YAML/JSON
	ErrCodeLiteral = "LOAD_LITERAL" // unsupported literal kind
)

// Error is a structured load failure.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// schemaValue compiles the embedded schema once. A compile failure here is
// a build defect, hence the panic.
var schemaValue = sync.OnceValue(func() cue.Value {
	v := cuecontext.New().CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		panic(fmt.Sprintf("loader: embedded schema does not compile: %v", err))
	}
	return v.LookupPath(cue.ParsePath("#Document"))
})

// document mirrors the schema. Literal values stay as yaml.Node so the
// source lexeme survives (30 vs 30.0).
type document struct {
	Source       string           `yaml:"source"`
	Diagnostics  []docDiagnostic  `yaml:"diagnostics"`
	Declarations []docDeclaration `yaml:"declarations"`
}

type docDiagnostic struct {
	Phase   string `yaml:"phase"`
	Line    int    `yaml:"line"`
	Column  int    `yaml:"column"`
	Message string `yaml:"message"`
}

type docDeclaration struct {
	Kind       string        `yaml:"kind"`
	Name       string        `yaml:"name"`
	Line       int           `yaml:"line"`
	Column     int           `yaml:"column"`
	Properties []docProperty `yaml:"properties"`
	Elements   []yaml.Node   `yaml:"elements"`
}

type docProperty struct {
	Key    string    `yaml:"key"`
	Line   int       `yaml:"line"`
	Column int       `yaml:"column"`
	Value  yaml.Node `yaml:"value"`
}

// LoadFile reads and decodes one syntax-tree document from disk. The
// file's base name is the fallback source name for diagnostics.
func LoadFile(path string) (*syntax.Tree, []diag.Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &Error{Code: ErrCodeRead, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}
	return Load(filepath.Base(path), data)
}

// Load decodes one document. Returns the tree together with any front-end
// diagnostics the document carried. The error return covers malformed
// documents only; carried diagnostics are data, not errors.
func Load(source string, data []byte) (*syntax.Tree, []diag.Diagnostic, error) {
	if err := cueyaml.Validate(data, schemaValue()); err != nil {
		return nil, nil, &Error{Code: ErrCodeSchema, Message: err.Error()}
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, &Error{Code: ErrCodeDecode, Message: err.Error()}
	}

	if doc.Source != "" {
		source = doc.Source
	}
	tree := &syntax.Tree{Source: source}

	for i, d := range doc.Declarations {
		decl, err := buildDecl(d)
		if err != nil {
			return nil, nil, fmt.Errorf("declaration %d: %w", i, err)
		}
		tree.Decls = append(tree.Decls, decl)
	}

	diags := make([]diag.Diagnostic, 0, len(doc.Diagnostics))
	for _, d := range doc.Diagnostics {
		phase := diag.Syntactic
		if d.Phase == "lexical" {
			phase = diag.Lexical
		}
		diags = append(diags, diag.Diagnostic{
			Phase:   phase,
			Line:    d.Line,
			Column:  d.Column,
			Message: d.Message,
		})
	}

	return tree, diags, nil
}

func buildDecl(d docDeclaration) (syntax.Decl, error) {
	decl := syntax.Decl{
		Name: d.Name,
		Pos:  syntax.Pos{Line: d.Line, Column: d.Column},
	}

	switch d.Kind {
	case "object":
		decl.Kind = syntax.DeclObject
		for _, p := range d.Properties {
			lit, err := literalFromNode(&p.Value)
			if err != nil {
				return decl, fmt.Errorf("property %q: %w", p.Key, err)
			}
			decl.Properties = append(decl.Properties, syntax.Property{
				Key:   p.Key,
				Value: lit,
				Pos:   syntax.Pos{Line: p.Line, Column: p.Column},
			})
		}
	case "list":
		decl.Kind = syntax.DeclList
		for i := range d.Elements {
			lit, err := literalFromNode(&d.Elements[i])
			if err != nil {
				return decl, fmt.Errorf("element %d: %w", i, err)
			}
			decl.Elements = append(decl.Elements, lit)
		}
	default:
		// Unreachable after schema validation; kept as a belt check for
		// callers constructing documents programmatically.
		return decl, &Error{Code: ErrCodeSchema, Message: fmt.Sprintf("unknown declaration kind %q", d.Kind)}
	}

	return decl, nil
}

// literalFromNode classifies a scalar node by its resolved YAML tag. The
// node's raw value is kept verbatim, which is what preserves the
// integer/decimal spelling through the whole pipeline. Because the lexeme
// flows unmodified into the emitted document, numbers must already be
// valid JSON tokens: YAML spellings like 0x1A, 0o17, 1_000 or .inf are
// rejected here.
func literalFromNode(n *yaml.Node) (syntax.Literal, error) {
	lit := syntax.Literal{
		Text: n.Value,
		Pos:  syntax.Pos{Line: n.Line, Column: n.Column},
	}

	switch n.ShortTag() {
	case "!!str":
		lit.Kind = syntax.LitString
	case "!!int":
		lit.Kind = syntax.LitInteger
		if !json.Valid([]byte(n.Value)) {
			return lit, &Error{Code: ErrCodeLiteral, Message: fmt.Sprintf("non-decimal number spelling %q", n.Value)}
		}
	case "!!float":
		lit.Kind = syntax.LitDecimal
		if !json.Valid([]byte(n.Value)) {
			return lit, &Error{Code: ErrCodeLiteral, Message: fmt.Sprintf("non-decimal number spelling %q", n.Value)}
		}
	case "!!bool":
		lit.Kind = syntax.LitBool
		if strings.EqualFold(n.Value, "true") {
			lit.Text = "true"
		} else {
			lit.Text = "false"
		}
	default:
		return lit, &Error{Code: ErrCodeLiteral, Message: fmt.Sprintf("unsupported literal tag %s", n.ShortTag())}
	}

	return lit, nil
}
