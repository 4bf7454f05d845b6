package application_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ericfisherdev/dailytracker/internal/domain/model"
	"github.com/ericfisherdev/dailytracker/internal/domain/port/driven"
)

var testRepo = model.Repository{Owner: "owner", Name: "repo"}

var errTracker = errors.New("tracker unavailable")

// Compile-time interface satisfaction check.
var _ driven.IssueTracker = (*fakeTracker)(nil)

// fakeTracker is an in-memory issue tracker. Created issues and comments are
// visible to later reads, like the real tracker.
type fakeTracker struct {
	issues    []model.Issue
	prs       []model.PullRequest
	comments  map[int][]model.Comment
	reactions map[int64][]model.Reaction

	nextNumber    int
	nextCommentID int64
	clock         time.Time

	listIssuesErr    error
	listPRsErr       error
	getIssueErr      error
	listCommentsErr  error
	listReactionsErr error
	createCommentErr error
	createIssueErr   func(title string) error

	listIssuesCalls int
	createdIssues   []model.NewIssue
	postedComments  []postedComment
}

type postedComment struct {
	IssueNumber int
	Body        string
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		comments:      make(map[int][]model.Comment),
		reactions:     make(map[int64][]model.Reaction),
		nextNumber:    100,
		nextCommentID: 1000,
		clock:         time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeTracker) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fakeTracker) addIssue(issue model.Issue) {
	if issue.State == "" {
		issue.State = model.IssueStateOpen
	}
	f.issues = append(f.issues, issue)
}

func (f *fakeTracker) addComment(issueNumber int, c model.Comment) model.Comment {
	if c.ID == 0 {
		f.nextCommentID++
		c.ID = f.nextCommentID
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = f.tick()
	}
	f.comments[issueNumber] = append(f.comments[issueNumber], c)
	return c
}

func (f *fakeTracker) ListOpenIssues(_ context.Context, _ model.Repository, label string) ([]model.Issue, error) {
	f.listIssuesCalls++
	if f.listIssuesErr != nil {
		return nil, f.listIssuesErr
	}
	var out []model.Issue
	for _, issue := range f.issues {
		if issue.State != model.IssueStateOpen {
			continue
		}
		if label != "" && !issue.HasLabel(label) {
			continue
		}
		out = append(out, issue)
	}
	return out, nil
}

func (f *fakeTracker) ListOpenPullRequests(_ context.Context, _ model.Repository) ([]model.PullRequest, error) {
	if f.listPRsErr != nil {
		return nil, f.listPRsErr
	}
	return f.prs, nil
}

func (f *fakeTracker) GetIssue(_ context.Context, _ model.Repository, number int) (*model.Issue, error) {
	if f.getIssueErr != nil {
		return nil, f.getIssueErr
	}
	for _, issue := range f.issues {
		if issue.Number == number {
			return &issue, nil
		}
	}
	return nil, fmt.Errorf("issue %d not found", number)
}

func (f *fakeTracker) ListComments(_ context.Context, _ model.Repository, issueNumber int) ([]model.Comment, error) {
	if f.listCommentsErr != nil {
		return nil, f.listCommentsErr
	}
	return f.comments[issueNumber], nil
}

func (f *fakeTracker) ListCommentReactions(_ context.Context, _ model.Repository, commentID int64) ([]model.Reaction, error) {
	if f.listReactionsErr != nil {
		return nil, f.listReactionsErr
	}
	return f.reactions[commentID], nil
}

func (f *fakeTracker) CreateIssue(_ context.Context, repo model.Repository, issue model.NewIssue) (*model.Issue, error) {
	if f.createIssueErr != nil {
		if err := f.createIssueErr(issue.Title); err != nil {
			return nil, err
		}
	}
	f.nextNumber++
	created := model.Issue{
		Number:    f.nextNumber,
		Title:     issue.Title,
		Body:      issue.Body,
		Labels:    issue.Labels,
		State:     model.IssueStateOpen,
		URL:       fmt.Sprintf("https://github.com/%s/issues/%d", repo.FullName(), f.nextNumber),
		CreatedAt: f.tick(),
	}
	created.UpdatedAt = created.CreatedAt
	f.issues = append(f.issues, created)
	f.createdIssues = append(f.createdIssues, issue)
	return &created, nil
}

func (f *fakeTracker) CreateComment(_ context.Context, repo model.Repository, issueNumber int, body string) (*model.Comment, error) {
	if f.createCommentErr != nil {
		return nil, f.createCommentErr
	}
	c := f.addComment(issueNumber, model.Comment{
		Body:       body,
		Author:     "github-actions[bot]",
		AuthorType: model.AuthorTypeBot,
	})
	c.URL = fmt.Sprintf("https://github.com/%s/issues/%d#issuecomment-%d", repo.FullName(), issueNumber, c.ID)
	f.postedComments = append(f.postedComments, postedComment{IssueNumber: issueNumber, Body: body})
	return &c, nil
}

// createdTitles returns the titles of issues created through the fake, sorted.
func (f *fakeTracker) createdTitles() []string {
	titles := make([]string, 0, len(f.createdIssues))
	for _, i := range f.createdIssues {
		titles = append(titles, i.Title)
	}
	sort.Strings(titles)
	return titles
}

// fakeNarrator returns a canned narrative or error and records payloads.
type fakeNarrator struct {
	narrative model.Narrative
	err       error
	payloads  []model.StatusPayload
}

func (n *fakeNarrator) Generate(_ context.Context, payload model.StatusPayload) (model.Narrative, error) {
	n.payloads = append(n.payloads, payload)
	if n.err != nil {
		return model.Narrative{}, n.err
	}
	return n.narrative, nil
}
