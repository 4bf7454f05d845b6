package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/dailytracker/internal/application"
	"github.com/ericfisherdev/dailytracker/internal/domain/model"
)

func TestPostSummary_Posts(t *testing.T) {
	tracker := newFakeTracker()
	poster := application.NewCommentPoster(tracker, testRepo)

	comment := poster.PostSummary(context.Background(), trackingNumber, model.Narrative{
		Summary: "Two PRs await review.",
		Actions: "- Review #3\n- Merge #4",
	})

	require.NotNil(t, comment)
	assert.NotEmpty(t, comment.URL)
	require.Len(t, tracker.postedComments, 1)
	body := tracker.postedComments[0].Body
	assert.Equal(t, trackingNumber, tracker.postedComments[0].IssueNumber)
	assert.Contains(t, body, "Status Update (")
	assert.Contains(t, body, "UTC)")
	assert.Contains(t, body, "### Summary\n\nTwo PRs await review.")
	assert.Contains(t, body, "### Proposed Actions\n\n- Review #3\n- Merge #4")
	assert.Contains(t, body, "Generated automatically")
}

func TestPostSummary_RequiresBothParts(t *testing.T) {
	tests := []struct {
		name      string
		narrative model.Narrative
	}{
		{"empty", model.Narrative{}},
		{"no actions", model.Narrative{Summary: "ok"}},
		{"blank summary", model.Narrative{Summary: "  \n", Actions: "- x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := newFakeTracker()
			poster := application.NewCommentPoster(tracker, testRepo)

			assert.Nil(t, poster.PostSummary(context.Background(), trackingNumber, tt.narrative))
			assert.Empty(t, tracker.postedComments)
		})
	}
}

func TestPostSummary_PostFailureReturnsNil(t *testing.T) {
	tracker := newFakeTracker()
	tracker.createCommentErr = errTracker
	poster := application.NewCommentPoster(tracker, testRepo)

	comment := poster.PostSummary(context.Background(), trackingNumber, model.Narrative{Summary: "s", Actions: "a"})

	assert.Nil(t, comment)
}
