package application

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"contestctl/internal/cache"
	"contestctl/internal/domain"
)

// Task is a live task entity. Its content blob is fetched at most once per
// process unless an explicit reload is requested; its submission history
// lives in a merge-on-reload cache.
type Task struct {
	id      domain.TaskID
	code    string
	name    string
	contest *Contest

	contentMu     sync.Mutex
	contentLoaded bool
	content       domain.TaskContent

	submissions *cache.Cache[domain.SubmissionID, *Submission]
}

func newTask(listing domain.TaskListing, contest *Contest) *Task {
	return &Task{
		id:          listing.ID,
		code:        listing.Code,
		name:        listing.Name,
		contest:     contest,
		submissions: cache.New[domain.SubmissionID, *Submission](),
	}
}

func (t *Task) ID() domain.TaskID { return t.id }

func (t *Task) Name() string {
	if t.code != "" {
		return t.code + ": " + t.name
	}
	return t.name
}

// Content returns the task's detail, fetching it on first access. The loaded
// flag flips only after the fetched content is fully stored, so a failed
// fetch retries on the next call.
func (t *Task) Content(ctx context.Context) (domain.TaskContent, error) {
	t.contentMu.Lock()
	defer t.contentMu.Unlock()

	if t.contentLoaded {
		return t.content, nil
	}

	p := t.contest.platform
	token, err := p.session.RequireToken()
	if err != nil {
		return domain.TaskContent{}, err
	}

	content, err := p.collab.FetchTaskContent(ctx, token, t.contest.id, t.id)
	if err != nil {
		return domain.TaskContent{}, fmt.Errorf("fetch content of task %s: %w", t.id, err)
	}

	t.content = content
	t.contentLoaded = true
	return t.content, nil
}

// ReloadContent discards the cached content blob and fetches it again.
func (t *Task) ReloadContent(ctx context.Context) (domain.TaskContent, error) {
	t.contentMu.Lock()
	t.contentLoaded = false
	t.contentMu.Unlock()
	return t.Content(ctx)
}

// Submissions returns the task's submission history, newest first, fetching
// it on first access.
func (t *Task) Submissions(ctx context.Context) ([]*Submission, error) {
	if !t.submissions.Loaded() {
		if err := t.refreshSubmissions(ctx); err != nil {
			return nil, err
		}
	}
	return sortSubmissions(t.submissions.Values()), nil
}

// refreshSubmissions re-scrapes the task's history listing and merges it by
// submission ID, keeping existing Submission instances (and their verdict
// state) for IDs still present.
func (t *Task) refreshSubmissions(ctx context.Context) error {
	p := t.contest.platform
	token, err := p.session.RequireToken()
	if err != nil {
		return err
	}

	records, err := p.collab.FetchSubmissions(ctx, token, t.contest.id, t.id)
	if err != nil {
		return fmt.Errorf("fetch submissions of task %s: %w", t.id, err)
	}

	byID := make(map[domain.SubmissionID]domain.SubmissionRecord, len(records))
	keys := make([]domain.SubmissionID, 0, len(records))
	for _, rec := range records {
		if _, seen := byID[rec.ID]; seen {
			continue
		}
		byID[rec.ID] = rec
		keys = append(keys, rec.ID)
	}

	t.submissions.Merge(keys, func(id domain.SubmissionID) *Submission {
		rec := byID[id]
		return newSubmission(id, t.id, t.contest.id, rec.SubmittedAt, rec.Language, p.pending)
	})
	return nil
}

func sortSubmissions(subs []*Submission) []*Submission {
	sort.Slice(subs, func(i, j int) bool {
		if !subs[i].submittedAt.Equal(subs[j].submittedAt) {
			return subs[i].submittedAt.After(subs[j].submittedAt)
		}
		return subs[i].id < subs[j].id
	})
	return subs
}
