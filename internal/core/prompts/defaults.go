// Package prompts holds the built-in LLM prompt templates.
//
// Templates are Go format strings; the placeholders each one expects are
// documented next to its name in the driven package. A PromptStore may
// override any of them.
package prompts

import (
	"fmt"

	"github.com/custodia-labs/treatyrag/internal/core/ports/driven"
)

//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaults = map[string]string{
	driven.PromptRerank: `You are ranking treaty excerpts by how useful they are for the query below.
Score every excerpt from 1 (irrelevant) to 10 (essential).
Answer with one line per excerpt in the form "<index>: <score>" and nothing else.

Query: %s

Excerpts:
%s`,

	driven.PromptReasoning: `You are a senior international law advisor.
Explain, step by step, how the treaties below bear on the scenario. Identify which obligations are engaged, which party is bound by them and where the legal position is uncertain.

Scenario:
%s

Relevant treaties:
%s`,

	driven.PromptLegalAnalysis: `You are a treaty law specialist.
Analyse the legal implications of the scenario under the treaties below: obligations, likely violations, available dispute settlement mechanisms and remedies.

Scenario:
%s

Relevant treaties:
%s`,

	driven.PromptStrategicOptions: `You are a diplomatic strategist advising the government named in the scenario.
Propose three to five concrete response options ranked by feasibility. For each, name the treaty that gives leverage and the main risk.

Scenario:
%s

Relevant treaties:
%s`,

	driven.PromptBriefingDocument: `Assemble a policy briefing as a single JSON object with the keys
"title" (string), "classification" (one of UNCLASSIFIED, CONFIDENTIAL, SECRET),
"summary" (string), "keyPoints" (array of strings) and "recommendations" (array of strings).
Respond with JSON only.

Scenario:
%s

Reasoning:
%s

Legal analysis:
%s

Strategic options:
%s`,

	driven.PromptEvaluationAnswer: `Answer the question using only the treaty context provided. If the context does not contain the answer, say so.

Question: %s

Context:
%s

Answer:`,

	driven.PromptFaithfulness: `Rate how well the answer is supported by the context, from 0.0 (unsupported) to 1.0 (fully supported).
Respond with the number only.

Context:
%s

Answer:
%s`,

	driven.PromptAnswerRelevancy: `Rate how directly the answer addresses the question, from 0.0 (off topic) to 1.0 (fully answers it).
Respond with the number only.

Question:
%s

Answer:
%s`,

	driven.PromptSyntheticQuestions: `Write %d evaluation questions about the treaties below.
For each question use exactly this format, separated by blank lines:

Question: <question>
Answer: <short expected answer>
Treaty: <exact treaty title>

Treaties:
%s`,
}

// Default returns the built-in template for name.
func Default(name string) (string, bool) {
	p, ok := defaults[name]
	return p, ok
}

// Defaults returns a copy of every built-in template keyed by name.
func Defaults() map[string]string {
	out := make(map[string]string, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	return out
}

// Load returns the template for name from store, falling back to the
// built-in default when store is nil or fails.
func Load(store driven.PromptStore, name string) (string, error) {
	if store != nil {
		if p, err := store.Load(name); err == nil && p != "" {
			return p, nil
		}
	}
	if p, ok := defaults[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("unknown prompt %q", name)
}

// Render loads a template and applies args to it.
func Render(store driven.PromptStore, name string, args ...any) (string, error) {
	tmpl, err := Load(store, name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(tmpl, args...), nil
}
