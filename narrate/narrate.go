// Package narrate asks a generative model for a short, plain-language
// explanation of a matched crime, the way a security scanner asks an AI
// provider to propose a fix for a flagged issue.
package narrate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/apkguard/apkguard/state"
)

const (
	// GeminiModel is the model used for narration requests.
	GeminiModel = "gemini-1.5-flash"

	narratePrompt = "In plain language and under 120 words, explain the risk of an Android app that does this: %s. Mutual call-graph ancestors: %v."
)

// Narrator generates a Narration field for each matched Finding via the
// Gemini API. It holds no mutable state beyond the API key, so one
// Narrator can be shared across concurrent runs.
type Narrator struct {
	APIKey  string
	Timeout time.Duration
}

// New creates a Narrator with a 30-second per-finding timeout, matching
// a generative text call's expected latency budget.
func New(apiKey string) *Narrator {
	return &Narrator{APIKey: apiKey, Timeout: 30 * time.Second}
}

// Narrate annotates each Finding in place with a short explanation. A
// Finding that already has a non-empty Narration is left untouched, so a
// caller can re-run Narrate after partial failures without re-spending
// API calls on crimes already narrated.
func (n *Narrator) Narrate(ctx context.Context, findings []*state.Finding) error {
	if n.APIKey == "" || len(findings) == 0 {
		return nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(n.APIKey))
	if err != nil {
		return fmt.Errorf("narrate: creating genai client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(GeminiModel)
	for _, f := range findings {
		if f.Narration != "" {
			continue
		}
		if err := n.narrateOne(ctx, model, f); err != nil {
			return fmt.Errorf("narrate: %q: %w", f.Crime, err)
		}
	}
	return nil
}

func (n *Narrator) narrateOne(ctx context.Context, model *genai.GenerativeModel, f *state.Finding) error {
	callCtx, cancel := context.WithTimeout(ctx, n.Timeout)
	defer cancel()

	prompt := fmt.Sprintf(narratePrompt, f.Crime, f.MutualParents)
	resp, err := model.GenerateContent(callCtx, genai.Text(prompt))
	if err != nil {
		return err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("empty response")
	}
	f.Narration = fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	return nil
}
