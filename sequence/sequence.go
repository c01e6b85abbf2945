// Package sequence checks whether two call sites occur in a required
// relative order within a caller's instruction stream, using the call
// sites' byte offsets as the ordering key.
package sequence

import "github.com/apkguard/apkguard/apk"

// InOrder reports whether an offset belonging to first occurs before an
// offset belonging to second, within the same ascending-offset xref list.
// offsets need not be adjacent or exclusive of other calls between them:
// apkguard only requires that some call to first precedes some call to
// second, not that they are the nearest pair.
func InOrder(offsets []apk.XrefCall, first, second apk.MethodRef) bool {
	firstSeen := false
	for _, c := range offsets {
		if c.Callee == first {
			firstSeen = true
			continue
		}
		if c.Callee == second && firstSeen {
			return true
		}
	}
	return false
}

// Check resolves a caller's own xref list via info and reports whether a
// call to first precedes a call to second somewhere in it.
func Check(info apk.Info, caller apk.MethodRef, first, second apk.MethodRef) (bool, error) {
	calls, err := info.XrefTo(caller)
	if err != nil {
		return false, err
	}
	return InOrder(calls, first, second), nil
}
