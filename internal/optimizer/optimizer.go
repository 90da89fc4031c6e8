// Package optimizer applies equivalence-preserving transformations to IR
// programs.
//
// Optimize is pure and idempotent: it never mutates its input, and running
// it twice yields the same program as running it once. Executing the
// optimized program against an empty environment produces the identical
// final environment as the original.
//
// Two passes run in fixed order, each independently toggleable:
//
//  1. Redundant-write elimination: of several IR_SET_PROPERTY writes to
//     the same (object, key) pair, only the last survives. Appends are
//     never touched - each is a distinct, order-sensitive effect.
//  2. Locality grouping: a stable permutation that makes every symbol's
//     instructions one contiguous run, ordered by first-creation order.
//     Safe because no instruction reads another symbol's state.
package optimizer

import "github.com/natjson/natjson/internal/ir"

// Options toggles individual passes. The zero value enables both.
type Options struct {
	SkipRedundantWrites bool
	SkipGrouping        bool
}

// Optimize runs both passes over a copy of the program.
func Optimize(prog ir.Program) ir.Program {
	return OptimizeWith(prog, Options{})
}

// OptimizeWith runs the enabled passes in fixed order.
func OptimizeWith(prog ir.Program, opts Options) ir.Program {
	if len(prog) == 0 {
		return ir.Program{}
	}

	out := make(ir.Program, len(prog))
	copy(out, prog)

	if !opts.SkipRedundantWrites {
		out = removeRedundantWrites(out)
	}
	if !opts.SkipGrouping {
		out = groupBySymbol(out)
	}
	return out
}

// removeRedundantWrites keeps only the last IR_SET_PROPERTY for each
// (object, key) pair. Surviving instructions keep their positions; nothing
// is moved, only earlier duplicates are dropped.
func removeRedundantWrites(prog ir.Program) ir.Program {
	type propKey struct {
		name string
		key  string
	}

	lastWrite := make(map[propKey]int)
	for i, in := range prog {
		if in.Op == ir.OpSetProperty {
			lastWrite[propKey{in.Name, in.Key}] = i
		}
	}

	out := make(ir.Program, 0, len(prog))
	for i, in := range prog {
		if in.Op == ir.OpSetProperty && lastWrite[propKey{in.Name, in.Key}] != i {
			continue
		}
		out = append(out, in)
	}
	return out
}

// groupBySymbol reorders instructions so each symbol's create is
// immediately followed by all of its operations, with per-symbol relative
// order preserved. Pure permutation: same multiset of instructions.
func groupBySymbol(prog ir.Program) ir.Program {
	var creates ir.Program
	opsByName := make(map[string]ir.Program)
	var opOrder []string // operation target names in first-appearance order

	for _, in := range prog {
		if in.IsCreate() {
			creates = append(creates, in)
			continue
		}
		if _, ok := opsByName[in.Name]; !ok {
			opOrder = append(opOrder, in.Name)
		}
		opsByName[in.Name] = append(opsByName[in.Name], in)
	}

	out := make(ir.Program, 0, len(prog))
	grouped := make(map[string]bool, len(creates))
	for _, create := range creates {
		out = append(out, create)
		out = append(out, opsByName[create.Name]...)
		grouped[create.Name] = true
	}

	// Orphan operations cannot occur in programs built by irgen, but a
	// permutation must not drop instructions, so they trail in order.
	for _, name := range opOrder {
		if !grouped[name] {
			out = append(out, opsByName[name]...)
		}
	}
	return out
}
