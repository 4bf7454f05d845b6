package report

import (
	"github.com/sethvargo/go-githubactions"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
)

// NewAction returns a GitHub Actions client that writes step outputs to the
// file at outputPath. Other variables are not visible to it, so the
// configuration stays the only reader of the environment.
func NewAction(outputPath string, opts ...githubactions.Option) *githubactions.Action {
	getenv := func(key string) string {
		if key == "GITHUB_OUTPUT" {
			return outputPath
		}
		return ""
	}
	return githubactions.New(append([]githubactions.Option{githubactions.WithGetenv(getenv)}, opts...)...)
}

// WriteActionsOutputs sets every run output as a step output. Values are
// written in the delimited multi-line form, so newlines are safe.
func WriteActionsOutputs(action *githubactions.Action, rep model.RunReport) {
	for _, kv := range Outputs(rep) {
		action.SetOutput(kv[0], kv[1])
	}
}
