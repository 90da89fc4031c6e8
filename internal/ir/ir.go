// Package ir provides the linear intermediate representation sitting between
// the parse tree and the emitters.
//
// This package contains type definitions and their wire encoding only. All
// other internal packages import ir; ir imports nothing internal, keeping it
// the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Values are a sealed union: String, Number, Bool. Nothing else.
//   - Numbers carry their source lexeme verbatim so 30 and 30.0 re-emit
//     exactly; no float64 anywhere in the data model.
//   - An instruction never references a symbol before its create
//     instruction (enforced by construction, checked by Program.Check).
package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value is a sealed interface over the three literal kinds.
// Only String, Number, and Bool implement it.
type Value interface {
	value() // sealed
}

// String is a string literal, quotes already stripped.
type String string

func (String) value() {}

// NumberKind distinguishes integer from decimal spellings.
// It never affects semantic rules, only re-emission.
type NumberKind int

const (
	Integer NumberKind = iota
	Decimal
)

// Number is a numeric literal. Text is the source lexeme, kept verbatim.
type Number struct {
	Text string
	Kind NumberKind
}

func (Number) value() {}

// Bool is a boolean literal.
type Bool bool

func (Bool) value() {}

// TypeTag returns the wire type tag for a value: STRING, NUMBER or BOOLEAN.
func TypeTag(v Value) string {
	switch v.(type) {
	case String:
		return "STRING"
	case Number:
		return "NUMBER"
	case Bool:
		return "BOOLEAN"
	default:
		return "UNKNOWN"
	}
}

// Opcode identifies an instruction's operation kind.
type Opcode string

const (
	OpCreateObject Opcode = "IR_CREATE_OBJECT"
	OpSetProperty  Opcode = "IR_SET_PROPERTY"
	OpCreateList   Opcode = "IR_CREATE_LIST"
	OpAppendList   Opcode = "IR_APPEND_LIST"
)

// Instruction is one IR operation. Name is always the target symbol.
// Key is set for OpSetProperty only; Val is nil for the create opcodes.
type Instruction struct {
	Op   Opcode
	Name string
	Key  string
	Val  Value
}

// CreateObject builds an IR_CREATE_OBJECT instruction.
func CreateObject(name string) Instruction {
	return Instruction{Op: OpCreateObject, Name: name}
}

// SetProperty builds an IR_SET_PROPERTY instruction.
func SetProperty(name, key string, v Value) Instruction {
	return Instruction{Op: OpSetProperty, Name: name, Key: key, Val: v}
}

// CreateList builds an IR_CREATE_LIST instruction.
func CreateList(name string) Instruction {
	return Instruction{Op: OpCreateList, Name: name}
}

// AppendList builds an IR_APPEND_LIST instruction.
func AppendList(name string, v Value) Instruction {
	return Instruction{Op: OpAppendList, Name: name, Val: v}
}

// IsCreate reports whether the instruction introduces a new symbol.
func (in Instruction) IsCreate() bool {
	return in.Op == OpCreateObject || in.Op == OpCreateList
}

// MarshalJSON encodes the instruction in the fixed wire layout
// {"opcode": ..., "args": [...]} with arg shapes:
//
//	IR_CREATE_OBJECT: [name]
//	IR_SET_PROPERTY:  [name, key, TYPE, value]
//	IR_CREATE_LIST:   [name]
//	IR_APPEND_LIST:   [name, TYPE, value]
//
// Numbers are emitted as their raw lexeme so the integer/decimal spelling
// survives a round trip.
func (in Instruction) MarshalJSON() ([]byte, error) {
	args, err := in.wireArgs()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(struct {
		Opcode Opcode `json:"opcode"`
		Args   []any  `json:"args"`
	}{in.Op, args}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (in Instruction) wireArgs() ([]any, error) {
	switch in.Op {
	case OpCreateObject, OpCreateList:
		return []any{in.Name}, nil
	case OpSetProperty:
		v, err := wireValue(in.Val)
		if err != nil {
			return nil, err
		}
		return []any{in.Name, in.Key, TypeTag(in.Val), v}, nil
	case OpAppendList:
		v, err := wireValue(in.Val)
		if err != nil {
			return nil, err
		}
		return []any{in.Name, TypeTag(in.Val), v}, nil
	default:
		return nil, fmt.Errorf("unknown opcode: %q", in.Op)
	}
}

func wireValue(v Value) (any, error) {
	switch val := v.(type) {
	case String:
		return string(val), nil
	case Number:
		return json.RawMessage(val.Text), nil
	case Bool:
		return bool(val), nil
	case nil:
		return nil, fmt.Errorf("instruction value is nil")
	default:
		return nil, fmt.Errorf("unknown value type: %T", v)
	}
}

// Program is an ordered instruction sequence for one compilation unit.
type Program []Instruction

// MarshalJSON encodes the program as a JSON array of instruction records.
// An empty program encodes as [] rather than null.
func (p Program) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, in := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := in.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Check verifies the reference invariant: every instruction's target symbol
// has exactly one preceding create instruction. A failure here is an
// internal programming error, not a user-facing diagnostic.
func (p Program) Check() error {
	created := make(map[string]bool, len(p))
	for i, in := range p {
		switch {
		case in.IsCreate():
			if created[in.Name] {
				return fmt.Errorf("instruction %d: symbol %q created twice", i, in.Name)
			}
			created[in.Name] = true
		default:
			if !created[in.Name] {
				return fmt.Errorf("instruction %d: %s targets %q before its create", i, in.Op, in.Name)
			}
			if in.Val == nil {
				return fmt.Errorf("instruction %d: %s carries no value", i, in.Op)
			}
		}
	}
	return nil
}
