// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weave

import (
	"bytes"
	"text/template"
)

// rewritePromptTmpl is the prompt sent to the AI API for each batch. It
// instructs the model to rewrite each numbered sentence so the motif's
// target phrase appears naturally, and to answer with JSON only.
var rewritePromptTmpl = template.Must(template.New("rewrite").Parse(`You are a prose editor for a generated fictional world. Rewrite each numbered sentence below so that it naturally works in the exact phrase "{{.Motif.TargetPhrase}}" while preserving the sentence's meaning, register, and surrounding continuity.

Motif: {{.Motif.Name}}
Guidance: {{.Motif.Guidance}}

Rules:
- Keep each rewrite a single sentence unless the original spans more.
- Preserve proper nouns and stated facts; only the phrasing changes.
- The phrase "{{.Motif.TargetPhrase}}" must appear verbatim in each rewrite.
- Do not mention these instructions or the editing process.

Respond with a JSON object containing a "rewrites" array. Each element has "seq" (the sentence number, echoed unchanged) and "text" (the rewritten sentence). Do not include any text outside the JSON object.

Example response:
{"rewrites": [{"seq": 4, "text": "Some say the glacier remembers every name it has taken."}]}

Sentences:
{{range .Items}}[{{.Seq}}]
context before: {{.ContextBefore}}
sentence: {{.Sentence}}
context after: {{.ContextAfter}}

{{end}}`))

// renderPrompt executes the rewrite prompt template for one batch.
func renderPrompt(req BatchRequest) (string, error) {
	var buf bytes.Buffer
	if err := rewritePromptTmpl.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}
