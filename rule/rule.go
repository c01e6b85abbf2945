// Package rule declares the external Rule collaborator: an immutable
// description of a suspicious pairing of platform API calls, plus the
// YAML rule-pack format apkguard loads them from.
package rule

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"gopkg.in/yaml.v3"

	"github.com/apkguard/apkguard/apk"
)

// APIRef names one half of a rule's target API pair.
type APIRef struct {
	Class  string `yaml:"class"`
	Method string `yaml:"method"`
}

func (a APIRef) methodRef() apk.MethodRef {
	return apk.MethodRef{Class: a.Class, Method: a.Method}
}

// Rule is an immutable record describing one target behavior. It carries
// no mutable cascade state: the stage-by-stage check_item vector lives on
// evaluate.Result instead, so a single Rule value can be evaluated against
// many bundles concurrently without synchronization.
type Rule struct {
	Crime       string   `yaml:"crime"`
	Permissions []string `yaml:"permissions"`
	APIPair     [2]APIRef
	YScore      float64 `yaml:"yscore"`

	// ScoreExpr is an expr-lang/expr expression evaluated with `n` bound
	// to the number of passed stages (0..5) and `yscore` bound to YScore.
	// It must evaluate to a number. When empty, ScoreFor falls back to
	// the conventional "full score iff all five stages pass" rule.
	ScoreExpr string `yaml:"score_expr"`

	compileOnce sync.Once
	compiled    *vm.Program
	compileErr  error
}

// rawRule is the YAML shape of a Rule, with APIPair as a slice, since [2]APIRef doesn't unmarshal
// from a two-element sequence on its own in all yaml.v3 configurations.
type rawRule struct {
	Crime       string   `yaml:"crime"`
	Permissions []string `yaml:"permissions"`
	APIPair     []APIRef `yaml:"api_pair"`
	YScore      float64  `yaml:"yscore"`
	ScoreExpr   string   `yaml:"score_expr"`
}

// UnmarshalYAML adapts the two-element api_pair sequence into the fixed
// [2]APIRef array used internally.
func (r *Rule) UnmarshalYAML(value *yaml.Node) error {
	var raw rawRule
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if len(raw.APIPair) != 2 {
		return fmt.Errorf("rule %q: api_pair must have exactly 2 entries, got %d", raw.Crime, len(raw.APIPair))
	}
	r.Crime = raw.Crime
	r.Permissions = raw.Permissions
	r.APIPair = [2]APIRef{raw.APIPair[0], raw.APIPair[1]}
	r.YScore = raw.YScore
	r.ScoreExpr = raw.ScoreExpr
	return nil
}

// FirstAPI and SecondAPI are the rule's two anchor methods.
func (r *Rule) FirstAPI() apk.MethodRef  { return r.APIPair[0].methodRef() }
func (r *Rule) SecondAPI() apk.MethodRef { return r.APIPair[1].methodRef() }

// PermissionSet renders Permissions as a set for subset comparisons.
func (r *Rule) PermissionSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r.Permissions))
	for _, p := range r.Permissions {
		set[p] = struct{}{}
	}
	return set
}

// ScoreFor maps the count of passed stages (0..5) to a weighted score.
// When ScoreExpr is set it is compiled once and evaluated against
// {n, yscore}; otherwise the rule contributes YScore only once all five
// stages pass, and 0 otherwise.
func (r *Rule) ScoreFor(nPassed int) (float64, error) {
	if r.ScoreExpr == "" {
		if nPassed >= 5 {
			return r.YScore, nil
		}
		return 0, nil
	}

	r.compileOnce.Do(func() {
		r.compiled, r.compileErr = expr.Compile(r.ScoreExpr, expr.AsFloat64())
	})
	if r.compileErr != nil {
		return 0, fmt.Errorf("rule %q: compiling score_expr: %w", r.Crime, r.compileErr)
	}

	out, err := expr.Run(r.compiled, map[string]interface{}{
		"n":      nPassed,
		"yscore": r.YScore,
	})
	if err != nil {
		return 0, fmt.Errorf("rule %q: evaluating score_expr: %w", r.Crime, err)
	}
	score, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("rule %q: score_expr must evaluate to a number, got %T", r.Crime, out)
	}
	return score, nil
}
