package retry

import (
	"context"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
	"github.com/ericfisherdev/dailytracker/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Narrator = (*Narrator)(nil)

// Narrator decorates a driven.Narrator with a retry policy. Generation calls
// are slow and expensive, so callers usually give them a longer delay.
type Narrator struct {
	inner  driven.Narrator
	policy Policy
}

// NewNarrator wraps inner with policy.
func NewNarrator(inner driven.Narrator, policy Policy) *Narrator {
	return &Narrator{inner: inner, policy: policy}
}

func (n *Narrator) Generate(ctx context.Context, payload model.StatusPayload) (model.Narrative, error) {
	return Do(ctx, n.policy, "generate narrative", func(ctx context.Context) (model.Narrative, error) {
		return n.inner.Generate(ctx, payload)
	})
}
