// Package evaluate drives the five-stage cascading rule check: permission
// check, either-API presence, both-API presence, call-sequence check, and
// same-parameter check. Each stage only runs if every stage before it
// passed, mirroring a short-circuiting state machine rather than five
// independent passes.
package evaluate

import (
	"errors"

	"github.com/apkguard/apkguard/apk"
	"github.com/apkguard/apkguard/callgraph"
	"github.com/apkguard/apkguard/register"
	"github.com/apkguard/apkguard/rule"
	"github.com/apkguard/apkguard/sequence"
)

// Result is one rule's per-run outcome against one bundle. Unlike Rule
// itself, Result owns all of the mutable cascade state, so a single Rule
// can back many concurrent Results.
type Result struct {
	Rule *rule.Rule

	// CheckItem[i] is whether stage i+1 passed: permission, either-API,
	// both-API, sequence, same-parameter.
	CheckItem [5]bool

	MutualParents []apk.MethodRef
	Score         float64
}

// Confidence reports the cascade's confidence: each passed stage
// contributes 20%, so a full five-stage match is 1.0.
func (r *Result) Confidence() float64 {
	return float64(r.StagesPassed()) * 0.2
}

// StagesPassed is the count of stages that passed, 0..5.
func (r *Result) StagesPassed() int {
	n := 0
	for _, ok := range r.CheckItem {
		if ok {
			n++
		}
	}
	return n
}

// Evaluator runs a Rule's cascade against a bundle's Info façade.
type Evaluator struct {
	Info   apk.Info
	Search *callgraph.Search
}

// New creates an Evaluator with a default-configured callgraph.Search.
func New(info apk.Info) *Evaluator {
	return &Evaluator{Info: info, Search: callgraph.New(info)}
}

// Evaluate runs the full cascade for one rule and produces its Result,
// including a score derived from rule.ScoreFor(stagesPassed).
func (e *Evaluator) Evaluate(r *rule.Rule) (*Result, error) {
	res := &Result{Rule: r}

	if !e.checkPermissions(r) {
		return e.score(res)
	}
	res.CheckItem[0] = true

	_, firstOK := e.Info.FindMethod(r.FirstAPI().Class, r.FirstAPI().Method)
	_, secondOK := e.Info.FindMethod(r.SecondAPI().Class, r.SecondAPI().Method)
	if !firstOK && !secondOK {
		return e.score(res)
	}
	res.CheckItem[1] = true

	if !firstOK || !secondOK {
		return e.score(res)
	}
	res.CheckItem[2] = true

	parents, err := e.Search.FindMutualParents(r.FirstAPI(), r.SecondAPI())
	if err != nil && !errors.Is(err, callgraph.ErrEmptyCallerSet) {
		return nil, err
	}
	res.MutualParents = parents
	if len(parents) == 0 {
		return e.score(res)
	}

	// Stage 4/5 run per mutual parent P, each against its own wrapper sets
	// W0 = ascend(first_api, P), W1 = ascend(second_api, P) — the methods P
	// actually calls on its way down to first_api/second_api. A parent that
	// only reaches the APIs indirectly never calls the APIs themselves, so
	// checking P's xref/bytecode against first_api/second_api directly would
	// never match; it must be checked against the wrappers instead.
	for _, p := range parents {
		w0 := e.Search.Ascend(r.FirstAPI(), p)
		w1 := e.Search.Ascend(r.SecondAPI(), p)

		seqOK, err := e.sequenceMatchesAny(p, w0, w1)
		if err != nil {
			return nil, err
		}
		if !seqOK {
			continue
		}
		res.CheckItem[3] = true

		paramOK, err := e.parameterMatchesAny(p, w0, w1)
		if err != nil {
			return nil, err
		}
		if paramOK {
			res.CheckItem[4] = true
		}
	}

	return e.score(res)
}

func (e *Evaluator) checkPermissions(r *rule.Rule) bool {
	granted := e.Info.Permissions()
	for p := range r.PermissionSet() {
		if _, ok := granted[p]; !ok {
			return false
		}
	}
	return true
}

// sequenceMatchesAny reports whether some (w0, w1) pair appears, in order,
// in p's own outbound call list.
func (e *Evaluator) sequenceMatchesAny(p apk.MethodRef, w0, w1 []apk.MethodRef) (bool, error) {
	for _, a := range w0 {
		for _, b := range w1 {
			ok, err := sequence.Check(e.Info, p, a, b)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}

// parameterMatchesAny feeds p's bytecode to a fresh register.Evaluator once
// and reports whether any tracked value was consumed by some (w0, w1) pair.
func (e *Evaluator) parameterMatchesAny(p apk.MethodRef, w0, w1 []apk.MethodRef) (bool, error) {
	instrs, err := e.Info.MethodBytecode(p.Class, p.Method)
	if err != nil {
		return false, err
	}
	ev := register.New()
	ev.FeedAll(instrs)
	for _, v := range ev.Observations() {
		for _, a := range w0 {
			for _, b := range w1 {
				if v.ConsumedBy(a) && v.ConsumedBy(b) {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

func (e *Evaluator) score(res *Result) (*Result, error) {
	score, err := res.Rule.ScoreFor(res.StagesPassed())
	if err != nil {
		return nil, err
	}
	res.Score = score
	return res, nil
}
