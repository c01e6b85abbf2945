// Package state aggregates evaluate.Result values across an entire rule
// pack into one run's findings: per-rule evidence, a running score/weight
// total, and the shape a report renders from.
package state

import (
	"github.com/apkguard/apkguard/apk"
	"github.com/apkguard/apkguard/evaluate"
	"github.com/apkguard/apkguard/rule"
)

// Finding is one rule's result folded into run-level shape, plus the
// threat-level band its confidence falls into.
type Finding struct {
	Crime         string
	Confidence    float64
	Score         float64
	CheckItem     [5]bool
	MutualParents []apk.MethodRef
	Level         Level

	// Narration is an optional AI-generated plain-language explanation,
	// filled in by the narrate package when enabled. Empty unless requested.
	Narration string
}

// Level bands a Finding's confidence the way a report groups evidence by
// severity: Critical (1.0), Warning (0.6-0.8), Notice (0.2-0.4), Clean (0).
type Level int

const (
	LevelClean Level = iota
	LevelNotice
	LevelWarning
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelCritical:
		return "Critical"
	case LevelWarning:
		return "Warning"
	case LevelNotice:
		return "Notice"
	default:
		return "Clean"
	}
}

func levelFor(confidence float64) Level {
	switch {
	case confidence >= 1.0:
		return LevelCritical
	case confidence >= 0.6:
		return LevelWarning
	case confidence > 0:
		return LevelNotice
	default:
		return LevelClean
	}
}

// Analysis accumulates Findings across a rule pack run against one bundle.
// It mirrors a QuarkAnalysis-style aggregator: Clean resets the per-run
// working fields while ScoreSum/WeightSum keep accruing across multiple
// bundles scanned in the same process.
type Analysis struct {
	Bundle apk.Info

	Findings []Finding

	ScoreSum  float64
	WeightSum float64
}

// New creates an empty Analysis bound to a bundle.
func New(bundle apk.Info) *Analysis {
	return &Analysis{Bundle: bundle}
}

// Add folds one rule's Result into the Analysis. WeightSum accrues
// res.Score (rule.ScoreFor(count(check_item))) for every rule evaluated;
// ScoreSum accrues the rule's static YScore only for rules that reached
// all five stages, matching the data model's invariant that score_sum is
// the sum of yscore over rules that reached stage 5, not every rule run.
func (a *Analysis) Add(r *rule.Rule, res *evaluate.Result) {
	f := Finding{
		Crime:         r.Crime,
		Confidence:    res.Confidence(),
		Score:         res.Score,
		CheckItem:     res.CheckItem,
		MutualParents: res.MutualParents,
		Level:         levelFor(res.Confidence()),
	}
	a.Findings = append(a.Findings, f)
	a.WeightSum += res.Score
	if res.StagesPassed() == 5 {
		a.ScoreSum += r.YScore
	}
}

// Clean resets the per-run Findings slice while leaving ScoreSum/WeightSum
// untouched, so a caller scanning many bundles in one process can keep a
// running total across runs while still reporting each bundle's own
// findings independently.
func (a *Analysis) Clean() {
	a.Findings = nil
}

// WeightedScore is ScoreSum normalized against WeightSum, 0 when nothing
// has been scored yet.
func (a *Analysis) WeightedScore() float64 {
	if a.WeightSum == 0 {
		return 0
	}
	return a.ScoreSum / a.WeightSum
}

// Matched returns the Findings whose confidence is above zero — the
// crimes an evaluation run actually flagged.
func (a *Analysis) Matched() []Finding {
	var out []Finding
	for _, f := range a.Findings {
		if f.Confidence > 0 {
			out = append(out, f)
		}
	}
	return out
}

// MatchedPtrs returns pointers into a.Findings for every matched crime, so
// a caller (e.g. the narrate package) can annotate them in place.
func (a *Analysis) MatchedPtrs() []*Finding {
	var out []*Finding
	for i := range a.Findings {
		if a.Findings[i].Confidence > 0 {
			out = append(out, &a.Findings[i])
		}
	}
	return out
}
