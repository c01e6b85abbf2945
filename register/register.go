// Package register implements the Symbolic Register Evaluator: a small
// abstract interpreter over a narrow, enumerated subset of mobile-platform
// bytecode mnemonics. It tracks which concrete/composite values flow into
// which registers, and which methods have consumed each value as an
// argument — precise enough to catch "the same datum flows into both
// target APIs", cheap enough to run on every mutual-parent candidate.
//
// Mnemonic dispatch is a tagged sum with an exhaustive match (see kindOf),
// not a string-keyed handler table: unknown mnemonics decode to the
// catch-all no-op kind, so the tracker never fails on an instruction it
// doesn't recognize.
package register

import (
	"strings"

	"github.com/apkguard/apkguard/apk"
)

// Value is a tracked Value-Object: an opaque textual payload plus the
// ordered list of methods that have consumed it as an argument. Equality
// is by arena identity within one Evaluator, matching the data model's
// requirement that a move aliases rather than copies.
type Value struct {
	Value        string
	CalledByFunc []string
}

// ConsumedBy reports whether some recorded caller key contains the given
// method exactly — (class, method) equality, not substring matching.
// Exact equality avoids two differently-named methods that happen to
// share a substring being mistaken for the same consumer.
func (v *Value) ConsumedBy(m apk.MethodRef) bool {
	key := m.Key()
	for _, c := range v.CalledByFunc {
		if c == key {
			return true
		}
	}
	return false
}

type mnemonicKind int

const (
	kindNewInstance mnemonicKind = iota
	kindConst
	kindMove
	kindMoveResult
	kindInvoke
	kindOther
)

// kindOf classifies a mnemonic into the tagged-sum families the evaluator
// understands. The mnemonic prefixes are data, not control flow, so
// extending coverage never touches the dispatch switch in Feed.
func kindOf(mnemonic string) mnemonicKind {
	switch {
	case mnemonic == "new-instance":
		return kindNewInstance
	case strings.HasPrefix(mnemonic, "move-result"):
		return kindMoveResult
	case strings.HasPrefix(mnemonic, "move"):
		return kindMove
	case strings.HasPrefix(mnemonic, "const"):
		return kindConst
	case strings.HasPrefix(mnemonic, "invoke"):
		return kindInvoke
	default:
		return kindOther
	}
}

// Evaluator holds one run's register table and arena of live Values. It is
// not safe for concurrent use; each cascade stage 5 check creates a fresh
// Evaluator, since the work is purely CPU-bound with no suspension points.
type Evaluator struct {
	registers  map[string]int // register id -> arena index
	arena      []*Value
	lastInvoke string // rendered MethodRef of the most recent invoke, for move-result
}

// New creates an evaluator with an empty register table and arena.
func New() *Evaluator {
	return &Evaluator{registers: make(map[string]int)}
}

// alloc appends a fresh Value to the arena and returns its index.
func (e *Evaluator) alloc(payload string) int {
	e.arena = append(e.arena, &Value{Value: payload})
	return len(e.arena) - 1
}

// bind points a register at an arena index, replacing any prior binding.
func (e *Evaluator) bind(reg string, idx int) {
	e.registers[reg] = idx
}

// read returns the Value currently bound to reg, synthesizing a fresh
// "unknown" Value (and binding it) if reg has never been written.
func (e *Evaluator) read(reg string) *Value {
	if idx, ok := e.registers[reg]; ok {
		return e.arena[idx]
	}
	idx := e.alloc("unknown:" + reg)
	e.bind(reg, idx)
	return e.arena[idx]
}

// Feed dispatches one instruction against the register table. Unknown
// mnemonics are silently ignored; unbound source registers synthesize
// fresh unknowns rather than failing.
func (e *Evaluator) Feed(instr apk.Instruction) {
	switch kindOf(instr.Mnemonic) {
	case kindNewInstance:
		if len(instr.Registers) < 1 {
			return
		}
		e.bind(instr.Registers[0], e.alloc(instr.Parameter))

	case kindConst:
		if len(instr.Registers) < 1 {
			return
		}
		e.bind(instr.Registers[0], e.alloc(instr.Parameter))

	case kindMove:
		if len(instr.Registers) < 2 {
			return
		}
		dst, src := instr.Registers[0], instr.Registers[1]
		e.read(src) // ensure src has a binding before aliasing
		e.bind(dst, e.registers[src])

	case kindMoveResult:
		if len(instr.Registers) < 1 {
			return
		}
		e.bind(instr.Registers[0], e.alloc(e.lastInvoke))

	case kindInvoke:
		e.lastInvoke = instr.Parameter
		for _, reg := range instr.Registers {
			v := e.read(reg)
			v.CalledByFunc = append(v.CalledByFunc, instr.Parameter)
		}

	case kindOther:
		// no-op: malformed or unrecognized instruction.
	}
}

// FeedAll feeds a full instruction stream in order.
func (e *Evaluator) FeedAll(instrs []apk.Instruction) {
	for _, instr := range instrs {
		e.Feed(instr)
	}
}

// Observations returns every live Value ever produced during this
// evaluator's lifetime, in allocation order.
func (e *Evaluator) Observations() []*Value {
	return e.arena
}
