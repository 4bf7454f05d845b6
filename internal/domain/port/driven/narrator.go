package driven

import (
	"context"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
)

// Narrator defines the driven port for the narrative generator. A malformed
// or incomplete answer is reported as an error, never as a partial Narrative.
type Narrator interface {
	Generate(ctx context.Context, payload model.StatusPayload) (model.Narrative, error)
}
