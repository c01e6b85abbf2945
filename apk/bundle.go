package apk

import (
	"crypto/md5" // #nosec G501 -- digest is a bundle fingerprint, not a security boundary
	"encoding/hex"
	"fmt"
	"sort"

	"golang.org/x/crypto/blake2b"
)

// Bundle is an in-memory, builder-populated Info implementation. It stands
// in for a real bundle parser during tests and small standalone runs,
// mirroring the role gosec's testutils package plays for AST-based rules:
// a hand-assembled fixture that exercises the evaluator without requiring
// the (out of scope) bundle-format parser.
type Bundle struct {
	filename string
	filesize int64

	perms map[string]struct{}

	// methods maps a class->method key to the resolved overload set
	// returned by FindMethod.
	methods map[string][]MethodRef

	// callers maps a class->method key to its direct callers (UpperFunc).
	// A key present with a zero-length slice still reports ok=true; a
	// key absent reports ok=false, distinguishing "no callers" from
	// "unknown to the call graph" per the empty-caller-set condition.
	callers map[string][]MethodRef

	bytecode map[string][]Instruction
	xrefs    map[string][]XrefCall
}

// NewBundle creates an empty in-memory bundle for the given display
// filename and size in bytes.
func NewBundle(filename string, size int64) *Bundle {
	return &Bundle{
		filename: filename,
		filesize: size,
		perms:    make(map[string]struct{}),
		methods:  make(map[string][]MethodRef),
		callers:  make(map[string][]MethodRef),
		bytecode: make(map[string][]Instruction),
		xrefs:    make(map[string][]XrefCall),
	}
}

// Grant adds permissions to the bundle's declared set.
func (b *Bundle) Grant(perms ...string) *Bundle {
	for _, p := range perms {
		b.perms[p] = struct{}{}
	}
	return b
}

// AddMethod registers a method in the symbol table so FindMethod resolves it.
func (b *Bundle) AddMethod(ref MethodRef) *Bundle {
	key := ref.Key()
	b.methods[key] = append(b.methods[key], ref)
	if _, ok := b.callers[key]; !ok {
		b.callers[key] = nil
	}
	return b
}

// AddCall records a call site: caller invokes callee at the given offset
// within caller's instruction stream. It wires both the xref table
// (caller's outbound calls) and the call graph (callee's direct callers)
// in one step, which is how a real disassembler's two views stay consistent.
func (b *Bundle) AddCall(caller, callee MethodRef, offset int) *Bundle {
	b.AddMethod(caller)
	b.AddMethod(callee)

	ck := caller.Key()
	b.xrefs[ck] = append(b.xrefs[ck], XrefCall{Callee: callee, Offset: offset})

	bk := callee.Key()
	for _, c := range b.callers[bk] {
		if c == caller {
			return b
		}
	}
	b.callers[bk] = append(b.callers[bk], caller)
	return b
}

// SetBytecode installs the instruction stream for a method.
func (b *Bundle) SetBytecode(m MethodRef, instrs ...Instruction) *Bundle {
	b.AddMethod(m)
	b.bytecode[m.Key()] = instrs
	return b
}

func (b *Bundle) Permissions() map[string]struct{} { return b.perms }

func (b *Bundle) FindMethod(class, method string) ([]MethodRef, bool) {
	key := MethodRef{Class: class, Method: method}.Key()
	refs, ok := b.methods[key]
	if !ok || len(refs) == 0 {
		return nil, false
	}
	return refs, true
}

func (b *Bundle) UpperFunc(class, method string) ([]MethodRef, bool) {
	key := MethodRef{Class: class, Method: method}.Key()
	callers, ok := b.callers[key]
	return callers, ok
}

func (b *Bundle) MethodBytecode(class, method string) ([]Instruction, error) {
	key := MethodRef{Class: class, Method: method}.Key()
	return b.bytecode[key], nil
}

func (b *Bundle) XrefTo(m MethodRef) ([]XrefCall, error) {
	calls := append([]XrefCall(nil), b.xrefs[m.Key()]...)
	sort.SliceStable(calls, func(i, j int) bool { return calls[i].Offset < calls[j].Offset })
	return calls, nil
}

func (b *Bundle) MD5() string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s:%d", b.filename, b.filesize))) // #nosec G401
	return hex.EncodeToString(sum[:])
}

func (b *Bundle) Filename() string { return b.filename }

func (b *Bundle) Filesize() int64 { return b.filesize }

// Fingerprint returns a secondary, collision-resistant digest of the bundle
// identity using blake2b, alongside the conventional MD5 reports also carry.
// Reports can surface both; MD5 stays for continuity with tooling that keys
// on it, blake2b gives a stronger identifier for dedup.
func (b *Bundle) Fingerprint() (string, error) {
	sum := blake2b.Sum256([]byte(fmt.Sprintf("%s:%d", b.filename, b.filesize)))
	return hex.EncodeToString(sum[:]), nil
}
