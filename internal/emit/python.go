package emit

import (
	"fmt"
	"strings"

	"github.com/natjson/natjson/internal/ir"
)

// pythonHeader is the fixed first line of every generated script.
const pythonHeader = "# --- Codigo Generado ---"

// GeneratePython translates each instruction into one line of Python:
// creations become empty-container assignments, property sets become
// indexed assignments, appends become .append calls. Lines follow IR
// order; the script is flat with no wrapping function or class.
func GeneratePython(prog ir.Program) (string, error) {
	lines := make([]string, 0, len(prog)+1)
	lines = append(lines, pythonHeader)

	for i, in := range prog {
		line, err := pythonLine(in)
		if err != nil {
			return "", fmt.Errorf("instruction %d: %w", i, err)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"), nil
}

func pythonLine(in ir.Instruction) (string, error) {
	switch in.Op {
	case ir.OpCreateObject:
		return fmt.Sprintf("%s = {}", in.Name), nil
	case ir.OpCreateList:
		return fmt.Sprintf("%s = []", in.Name), nil
	case ir.OpSetProperty:
		v, err := pythonValue(in.Val)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[\"%s\"] = %s", in.Name, in.Key, v), nil
	case ir.OpAppendList:
		v, err := pythonValue(in.Val)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s.append(%s)", in.Name, v), nil
	default:
		return "", fmt.Errorf("unknown opcode %q", in.Op)
	}
}

// pythonValue formats a value as a Python literal. Strings use repr-style
// single quotes, booleans map to Python's capitalized spellings, and
// number lexemes pass through verbatim.
func pythonValue(v ir.Value) (string, error) {
	switch val := v.(type) {
	case ir.String:
		return pythonRepr(string(val)), nil
	case ir.Number:
		return val.Text, nil
	case ir.Bool:
		if val {
			return "True", nil
		}
		return "False", nil
	case nil:
		return "", fmt.Errorf("instruction value is nil")
	default:
		return "", fmt.Errorf("unknown value type: %T", v)
	}
}

// pythonRepr quotes a string the way Python's repr does for the common
// case: single quotes, with backslash, quote, and control characters
// escaped.
func pythonRepr(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
