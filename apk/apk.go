// Package apk declares the read-only façade the evaluator needs over a
// parsed mobile application bundle. apkguard never parses a bundle format
// itself (that is explicitly out of scope); it only consumes Info.
package apk

import "fmt"

// MethodRef identifies a method within the bundle by (class, method). It is
// value-typed, comparable, and usable as a map key, matching the data
// model's requirement that methods be hashable and compared by identity.
type MethodRef struct {
	Class    string
	Method   string
	FullName string // optional display name; falls back to Key() when empty
}

// Key renders the "class->method" form the evaluator uses for substring-free,
// exact matching in stage 5.
func (m MethodRef) Key() string {
	return fmt.Sprintf("%s->%s", m.Class, m.Method)
}

// String renders FullName when present, else Key().
func (m MethodRef) String() string {
	if m.FullName != "" {
		return m.FullName
	}
	return m.Key()
}

// Instruction is a disassembled bytecode instruction: a mnemonic, an
// ordered list of referenced registers, and an optional immediate operand
// (a constant, type reference, or method reference rendered as text).
type Instruction struct {
	Mnemonic  string
	Registers []string
	Parameter string
	HasParam  bool
}

// XrefCall is one outbound call site within a method's instruction stream:
// the callee and the monotonic offset of the call within that method's body.
type XrefCall struct {
	Callee MethodRef
	Offset int
}

// Info is the read-only façade the evaluator consumes. Implementations may
// load permissions, the symbol table, and bytecode eagerly or lazily; the
// evaluator never mutates what Info returns.
type Info interface {
	// Permissions returns the bundle's declared permission set.
	Permissions() map[string]struct{}

	// FindMethod resolves a method by (class, method). ok is false when
	// the method does not exist in the bundle's symbol table — a stage-2
	// fail, not an error.
	FindMethod(class, method string) (refs []MethodRef, ok bool)

	// UpperFunc returns the direct callers of (class, method). ok is
	// false when the method is unknown to the call graph — the caller
	// must treat this as an empty-caller-set condition, not "found none".
	UpperFunc(class, method string) (callers []MethodRef, ok bool)

	// MethodBytecode returns the disassembled instruction stream for a
	// method, in program order.
	MethodBytecode(class, method string) ([]Instruction, error)

	// XrefTo returns a method's outbound call sites, ordered by Offset.
	XrefTo(m MethodRef) ([]XrefCall, error)

	// Metadata about the scanned bundle, surfaced verbatim in reports.
	MD5() string
	Filename() string
	Filesize() int64
}
