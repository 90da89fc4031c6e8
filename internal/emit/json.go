// Package emit turns optimized IR into final artifacts: an in-memory
// environment serialized to JSON, or host-language (Python) source lines.
package emit

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/natjson/natjson/internal/ir"
)

// entity is one materialized top-level value: an ordered key/value map for
// objects or an ordered element sequence for lists.
type entity struct {
	isList bool
	keys   []string // first-insertion key order
	props  map[string]ir.Value
	elems  []ir.Value
}

// Environment is the result of executing an IR program: an ordered mapping
// from entity name to its materialized value. Top-level order is the order
// of each name's create instruction.
type Environment struct {
	order    []string
	entities map[string]*entity
}

// Materialize executes the program against an empty environment.
//
// The program is assumed well-formed by construction (it only reaches this
// point after semantic validation), so any violation found here is an
// internal programming error surfaced as a plain error, never a
// user-facing diagnostic.
func Materialize(prog ir.Program) (*Environment, error) {
	env := &Environment{entities: make(map[string]*entity, len(prog))}

	for i, in := range prog {
		switch in.Op {
		case ir.OpCreateObject:
			if err := env.create(in.Name, false); err != nil {
				return nil, fmt.Errorf("instruction %d: %w", i, err)
			}
		case ir.OpCreateList:
			if err := env.create(in.Name, true); err != nil {
				return nil, fmt.Errorf("instruction %d: %w", i, err)
			}
		case ir.OpSetProperty:
			ent, err := env.target(in.Name, false)
			if err != nil {
				return nil, fmt.Errorf("instruction %d: %w", i, err)
			}
			if _, seen := ent.props[in.Key]; !seen {
				ent.keys = append(ent.keys, in.Key)
			}
			// Overwrite keeps first-insertion key order.
			ent.props[in.Key] = in.Val
		case ir.OpAppendList:
			ent, err := env.target(in.Name, true)
			if err != nil {
				return nil, fmt.Errorf("instruction %d: %w", i, err)
			}
			ent.elems = append(ent.elems, in.Val)
		default:
			return nil, fmt.Errorf("instruction %d: unknown opcode %q", i, in.Op)
		}
	}

	return env, nil
}

func (e *Environment) create(name string, isList bool) error {
	if _, exists := e.entities[name]; exists {
		return fmt.Errorf("entity %q created twice", name)
	}
	ent := &entity{isList: isList}
	if !isList {
		ent.props = make(map[string]ir.Value)
	}
	e.entities[name] = ent
	e.order = append(e.order, name)
	return nil
}

func (e *Environment) target(name string, wantList bool) (*entity, error) {
	ent, ok := e.entities[name]
	if !ok {
		return nil, fmt.Errorf("entity %q referenced before create", name)
	}
	if ent.isList != wantList {
		return nil, fmt.Errorf("entity %q has wrong kind for operation", name)
	}
	return ent, nil
}

// Len returns the number of top-level entities.
func (e *Environment) Len() int {
	return len(e.order)
}

// Names returns entity names in first-create order.
func (e *Environment) Names() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// MarshalJSON serializes the environment compactly. Key order within each
// object is first-insertion order; top-level order is first-create order.
func (e *Environment) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := e.write(&buf, false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent serializes with two-space indentation, the document shape
// shown to end users.
func (e *Environment) MarshalIndent() ([]byte, error) {
	var buf bytes.Buffer
	if err := e.write(&buf, true); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Environment) write(buf *bytes.Buffer, indent bool) error {
	if len(e.order) == 0 {
		buf.WriteString("{}")
		return nil
	}

	open, sep, close_ := "{", ",", "}"
	if indent {
		open, sep, close_ = "{\n", ",\n", "\n}"
	}

	buf.WriteString(open)
	for i, name := range e.order {
		if i > 0 {
			buf.WriteString(sep)
		}
		if indent {
			buf.WriteString("  ")
		}
		if err := writeString(buf, name); err != nil {
			return err
		}
		if indent {
			buf.WriteString(": ")
		} else {
			buf.WriteByte(':')
		}
		if err := e.entities[name].write(buf, indent); err != nil {
			return fmt.Errorf("entity %q: %w", name, err)
		}
	}
	buf.WriteString(close_)
	return nil
}

func (ent *entity) write(buf *bytes.Buffer, indent bool) error {
	if ent.isList {
		return ent.writeList(buf, indent)
	}
	return ent.writeObject(buf, indent)
}

func (ent *entity) writeObject(buf *bytes.Buffer, indent bool) error {
	if len(ent.keys) == 0 {
		buf.WriteString("{}")
		return nil
	}
	if !indent {
		buf.WriteByte('{')
		for i, k := range ent.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeValue(buf, ent.props[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	}

	buf.WriteString("{\n")
	for i, k := range ent.keys {
		if i > 0 {
			buf.WriteString(",\n")
		}
		buf.WriteString("    ")
		if err := writeString(buf, k); err != nil {
			return err
		}
		buf.WriteString(": ")
		if err := writeValue(buf, ent.props[k]); err != nil {
			return err
		}
	}
	buf.WriteString("\n  }")
	return nil
}

func (ent *entity) writeList(buf *bytes.Buffer, indent bool) error {
	if len(ent.elems) == 0 {
		buf.WriteString("[]")
		return nil
	}
	if !indent {
		buf.WriteByte('[')
		for i, v := range ent.elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, v); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}

	buf.WriteString("[\n")
	for i, v := range ent.elems {
		if i > 0 {
			buf.WriteString(",\n")
		}
		buf.WriteString("    ")
		if err := writeValue(buf, v); err != nil {
			return err
		}
	}
	buf.WriteString("\n  ]")
	return nil
}

// writeValue renders a single IR value as JSON. Number lexemes pass
// through verbatim so integer and decimal spellings are preserved.
func writeValue(buf *bytes.Buffer, v ir.Value) error {
	switch val := v.(type) {
	case ir.String:
		return writeString(buf, string(val))
	case ir.Number:
		buf.WriteString(val.Text)
		return nil
	case ir.Bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	default:
		return fmt.Errorf("unknown value type: %T", v)
	}
}

// writeString emits a JSON string with internal quotes escaped, no HTML
// escaping, and NFC normalization at the serialization boundary.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
