// Package callgraph implements upward traversal over an apk.Info's call
// graph: locating mutual-ancestor methods of two target APIs (bounded by
// depth), and tracing the wrapper methods that lie on the path from a
// target API up to a given mutual parent.
package callgraph

import (
	"errors"

	"github.com/apkguard/apkguard/apk"
)

// ErrEmptyCallerSet is the distinct, named condition for "one of the two
// inputs to FindMutualParents has no callers" — different from "searched
// and found no intersection". apkguard's evaluate package downgrades this
// to "no mutual parent found" instead of aborting the whole run.
var ErrEmptyCallerSet = errors.New("callgraph: empty caller set")

// DefaultMaxSearchLayer is the hard cap on breadth-expansion rounds when
// searching for a mutual parent. Search makes it configurable while
// defaulting to 3.
const DefaultMaxSearchLayer = 3

// Search holds the immutable apk.Info a traversal runs over plus the
// configured depth cap. It is safe for concurrent use: every method is
// read-only over Info and allocates its own visited/working sets.
type Search struct {
	Info           apk.Info
	MaxSearchLayer int
}

// New creates a Search with the default depth cap.
func New(info apk.Info) *Search {
	return &Search{Info: info, MaxSearchLayer: DefaultMaxSearchLayer}
}

func (s *Search) maxLayer() int {
	if s.MaxSearchLayer <= 0 {
		return DefaultMaxSearchLayer
	}
	return s.MaxSearchLayer
}

// Ascend finds the wrapper methods between base and target: every method
// discovered while walking upward from base (base included) whose direct
// caller is target, i.e. the methods target itself calls on the way down.
// The search is depth-first and cycle-guarded by a visited set scoped to
// this single ascent — under no circumstance does it recurse without it.
func (s *Search) Ascend(base, target apk.MethodRef) []apk.MethodRef {
	visited := make(map[apk.MethodRef]bool)
	var wrapper []apk.MethodRef
	s.ascend(base, target, visited, &wrapper)
	return wrapper
}

func (s *Search) ascend(base, target apk.MethodRef, visited map[apk.MethodRef]bool, wrapper *[]apk.MethodRef) {
	if visited[base] {
		return
	}
	visited[base] = true

	callers, ok := s.Info.UpperFunc(base.Class, base.Method)
	if !ok || len(callers) == 0 {
		return
	}

	for _, c := range callers {
		if c == target {
			*wrapper = append(*wrapper, base)
			return
		}
	}
	for _, c := range callers {
		if visited[c] {
			continue
		}
		s.ascend(c, target, visited, wrapper)
	}
}

// FindMutualParents returns the methods that are ancestors of both apiA
// and apiB, found by a bounded breadth-expanding intersection: layer 1
// intersects the direct caller sets; on a miss, each side is extended by
// one more level of UpperFunc and retried, up to MaxSearchLayer layers in
// all (layer 1 included).
//
// A nil, nil result means the search exhausted its layer budget without
// finding an intersection ("none", not an error). ErrEmptyCallerSet means
// one of the two APIs has no callers at all — a different, named
// condition than "searched but found nothing".
func (s *Search) FindMutualParents(apiA, apiB apk.MethodRef) ([]apk.MethodRef, error) {
	callersA, _ := s.Info.UpperFunc(apiA.Class, apiA.Method)
	callersB, _ := s.Info.UpperFunc(apiB.Class, apiB.Method)

	if len(callersA) == 0 || len(callersB) == 0 {
		return nil, ErrEmptyCallerSet
	}

	return s.intersect(callersA, callersB, 1)
}

func (s *Search) intersect(a, b []apk.MethodRef, depth int) ([]apk.MethodRef, error) {
	if result := intersection(a, b); len(result) > 0 {
		return result, nil
	}

	depth++
	if depth > s.maxLayer() {
		return nil, nil
	}

	nextA := append([]apk.MethodRef(nil), a...)
	nextB := append([]apk.MethodRef(nil), b...)

	for _, m := range a {
		if callers, ok := s.Info.UpperFunc(m.Class, m.Method); ok {
			nextA = append(nextA, callers...)
		}
	}
	for _, m := range b {
		if callers, ok := s.Info.UpperFunc(m.Class, m.Method); ok {
			nextB = append(nextB, callers...)
		}
	}

	return s.intersect(nextA, nextB, depth)
}

// intersection returns the elements of a that also appear in b, in a's
// order with duplicates collapsed — deterministic given deterministic
// inputs, as the order Info yields callers in is itself deterministic.
func intersection(a, b []apk.MethodRef) []apk.MethodRef {
	inB := make(map[apk.MethodRef]bool, len(b))
	for _, m := range b {
		inB[m] = true
	}
	seen := make(map[apk.MethodRef]bool)
	var out []apk.MethodRef
	for _, m := range a {
		if inB[m] && !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
