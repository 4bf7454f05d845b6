package anthropic

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
)

const systemPrompt = `You are a pragmatic engineering lead writing a daily status note for a software repository.
You receive the repository's open issues and pull requests as YAML.
Answer with a single JSON object and nothing else:
{"summary": "<markdown>", "actions": "<markdown bullet list>"}
- summary: 3-6 sentences on overall health, notable movement, and risks (stale or blocked work).
- actions: 3-7 concrete next steps, each referencing issue or pull request numbers as #N.
Do not invent items that are not in the input.`

// renderPrompt serializes payload as YAML inside the user message.
func renderPrompt(payload model.StatusPayload) (string, error) {
	data, err := yaml.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Repository status for %s on %s.\n\n", payload.Repository, payload.Date)
	b.WriteString("```yaml\n")
	b.Write(data)
	b.WriteString("```\n")
	return b.String(), nil
}
