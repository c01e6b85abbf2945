// Package report renders a completed state.Analysis as a JSON document or
// a colorized terminal summary, and assigns each run a stable identifier.
package report

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"

	"github.com/apkguard/apkguard/apk"
	"github.com/apkguard/apkguard/state"
)

// CrimeReport is one matched rule's finding, shaped for JSON output.
type CrimeReport struct {
	Crime         string   `json:"crime"`
	Confidence    float64  `json:"confidence"`
	Level         string   `json:"level"`
	Score         float64  `json:"score"`
	CheckItem     [5]bool  `json:"check_item"`
	MutualParents []string `json:"mutual_parents,omitempty"`
	Narration     string   `json:"narration,omitempty"`
}

// RunReport is the full JSON shape of one bundle scan.
type RunReport struct {
	RunID         string        `json:"run_id"`
	Filename      string        `json:"filename"`
	Filesize      int64         `json:"filesize"`
	MD5           string        `json:"md5"`
	Fingerprint   string        `json:"fingerprint,omitempty"`
	ThreatLevel   string        `json:"threat_level"`
	Crimes        []CrimeReport `json:"crimes"`
	ScoreSum      float64       `json:"score_sum"`
	WeightSum     float64       `json:"weight_sum"`
	WeightedScore float64       `json:"weighted_score"`
}

// ThreatLevel bands a run's accumulated score_sum/weight_sum into the
// three tiers the report format names. The ratio-based threshold is
// policy, not a core evaluation concern; the core's only obligation is to
// expose both totals faithfully.
func ThreatLevel(scoreSum, weightSum float64) string {
	if weightSum == 0 {
		return "Low Risk"
	}
	switch ratio := scoreSum / weightSum; {
	case ratio >= 0.8:
		return "High Risk"
	case ratio >= 0.4:
		return "Moderate Risk"
	default:
		return "Low Risk"
	}
}

// Fingerprinter is implemented by apk.Info backends that can also produce
// a secondary blake2b digest (apk.Bundle does). Backends that cannot are
// still reportable; Fingerprint is simply left blank.
type Fingerprinter interface {
	Fingerprint() (string, error)
}

// Build folds an Analysis into a RunReport. runID identifies this scan;
// callers mint it once per run (e.g. with uuid.New()) and pass it in, so
// report building itself stays deterministic and testable.
func Build(info apk.Info, a *state.Analysis, runID uuid.UUID) (RunReport, error) {
	rr := RunReport{
		RunID:         runID.String(),
		Filename:      info.Filename(),
		Filesize:      info.Filesize(),
		MD5:           info.MD5(),
		ThreatLevel:   ThreatLevel(a.ScoreSum, a.WeightSum),
		ScoreSum:      a.ScoreSum,
		WeightSum:     a.WeightSum,
		WeightedScore: a.WeightedScore(),
	}

	if fp, ok := info.(Fingerprinter); ok {
		digest, err := fp.Fingerprint()
		if err != nil {
			return RunReport{}, err
		}
		rr.Fingerprint = digest
	}

	for _, f := range a.Matched() {
		cr := CrimeReport{
			Crime:      f.Crime,
			Confidence: f.Confidence,
			Level:      f.Level.String(),
			Score:      f.Score,
			CheckItem:  f.CheckItem,
			Narration:  f.Narration,
		}
		for _, p := range f.MutualParents {
			cr.MutualParents = append(cr.MutualParents, p.String())
		}
		rr.Crimes = append(rr.Crimes, cr)
	}

	return rr, nil
}

// WriteJSON marshals a RunReport with indentation, matching the
// indent-and-write shape a JSON report writer uses.
func WriteJSON(w io.Writer, rr RunReport) error {
	raw, err := json.MarshalIndent(rr, "", "\t")
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}
