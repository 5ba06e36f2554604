package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"contestctl/internal/cache"
	"contestctl/internal/domain"
	"contestctl/internal/ports"
)

// Config assembles one Platform from its collaborators and tuning knobs.
// Zero-valued knobs fall back to operational defaults.
type Config struct {
	Name          string
	Collaborators ports.Collaborators
	TokenStore    ports.TokenStore
	Pending       domain.PendingSet

	PollInterval      time.Duration
	PollFailureBudget int
	RefreshWorkers    int
	RefreshDeadline   time.Duration
}

// Platform composes the session manager, the entity caches and the refresh
// orchestration into the operations the presentation layers consume. One
// Platform instance exists per configured platform and lives for the whole
// process.
type Platform struct {
	name    string
	session *Session
	collab  ports.Collaborators
	pending domain.PendingSet
	refresh refreshConfig
	poller  *Poller

	contests *cache.Cache[domain.ContestID, *Contest]
	// submissions is the platform-wide history view, the union by ID of
	// every contest's submissions, built by the bulk refresh.
	submissions *cache.Cache[domain.SubmissionID, *Submission]
}

func NewPlatform(cfg Config) *Platform {
	session := NewSession(cfg.Name, cfg.Collaborators, cfg.TokenStore)
	p := &Platform{
		name:    cfg.Name,
		session: session,
		collab:  cfg.Collaborators,
		pending: cfg.Pending,
		refresh: refreshConfig{
			workers:  cfg.RefreshWorkers,
			deadline: cfg.RefreshDeadline,
		},
		poller:      newPoller(session, cfg.Collaborators, cfg.PollInterval, cfg.PollFailureBudget),
		contests:    cache.New[domain.ContestID, *Contest](),
		submissions: cache.New[domain.SubmissionID, *Submission](),
	}
	return p
}

func (p *Platform) Name() string     { return p.name }
func (p *Platform) Session() *Session { return p.session }
func (p *Platform) Poller() *Poller  { return p.poller }

// Close stops background polling.
func (p *Platform) Close() {
	p.poller.Close()
}

// ListContests returns the platform's contests in ID order, fetching the
// listing on first access.
func (p *Platform) ListContests(ctx context.Context) ([]*Contest, error) {
	if err := p.ensureContests(ctx); err != nil {
		return nil, err
	}
	contests := p.contests.Values()
	sort.Slice(contests, func(i, j int) bool { return contests[i].id < contests[j].id })
	return contests, nil
}

func (p *Platform) GetContest(ctx context.Context, id domain.ContestID) (*Contest, error) {
	if err := p.ensureContests(ctx); err != nil {
		return nil, err
	}
	contest, ok := p.contests.Get(id)
	if !ok {
		return nil, fmt.Errorf("contest %q on %s: %w", id, p.name, domain.ErrNotFound)
	}
	return contest, nil
}

func (p *Platform) ListTasks(ctx context.Context, contestID domain.ContestID) ([]*Task, error) {
	contest, err := p.GetContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	return contest.Tasks(ctx)
}

func (p *Platform) GetTask(ctx context.Context, contestID domain.ContestID, taskID domain.TaskID) (*Task, error) {
	contest, err := p.GetContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	return contest.TaskByID(ctx, taskID)
}

// Submit uploads a solution file for a task. The fresh submission starts at
// the platform's pending sentinel and is inserted into the task's, the
// contest's and the platform's submission caches before being returned for
// polling.
func (p *Platform) Submit(ctx context.Context, contestID domain.ContestID, taskID domain.TaskID, filePath string, language domain.Language) (*Submission, error) {
	token, err := p.session.RequireToken()
	if err != nil {
		return nil, err
	}

	contest, err := p.GetContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	task, err := contest.TaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	receipt, err := p.collab.Submit(ctx, token, contestID, taskID, filePath, language)
	if err != nil {
		return nil, fmt.Errorf("submit to task %s: %w", taskID, err)
	}

	sub := newSubmission(receipt.ID, taskID, contestID, receipt.SubmittedAt, string(language), p.pending)
	task.submissions.Put(sub.ID(), sub)
	contest.submissions.Put(sub.ID(), sub)
	p.submissions.Put(sub.ID(), sub)
	return sub, nil
}

// GetSubmission finds a submission by ID, consulting already-cached entries
// first and falling back to a full history refresh.
func (p *Platform) GetSubmission(ctx context.Context, id domain.SubmissionID) (*Submission, error) {
	if sub, ok := p.submissions.Get(id); ok {
		return sub, nil
	}
	if !p.submissions.Loaded() {
		if err := p.refreshSubmissions(ctx); err != nil {
			return nil, err
		}
		if sub, ok := p.submissions.Get(id); ok {
			return sub, nil
		}
	}
	return nil, fmt.Errorf("submission %q on %s: %w", id, p.name, domain.ErrNotFound)
}

// SubmissionHistory returns the platform-wide history, newest first,
// refreshing it with a contest fan-out on first access.
func (p *Platform) SubmissionHistory(ctx context.Context) ([]*Submission, error) {
	if !p.submissions.Loaded() {
		if err := p.refreshSubmissions(ctx); err != nil {
			return nil, err
		}
	}
	return sortSubmissions(p.submissions.Values()), nil
}

// Reload forces a fresh contest listing and a full submission history
// refresh, preserving entity identity for everything still present.
func (p *Platform) Reload(ctx context.Context) error {
	if err := p.loadContests(ctx); err != nil {
		return err
	}
	return p.refreshSubmissions(ctx)
}

// ReloadContests forces a fresh contest listing without touching the
// submission view. Contests still listed keep their instances.
func (p *Platform) ReloadContests(ctx context.Context) error {
	return p.loadContests(ctx)
}

func (p *Platform) ensureContests(ctx context.Context) error {
	if p.contests.Loaded() {
		return nil
	}
	return p.loadContests(ctx)
}

func (p *Platform) loadContests(ctx context.Context) error {
	token, err := p.session.RequireToken()
	if err != nil {
		return err
	}

	listings, err := p.collab.FetchContests(ctx, token)
	if err != nil {
		return fmt.Errorf("fetch contests of %s: %w", p.name, err)
	}

	byID := make(map[domain.ContestID]domain.ContestListing, len(listings))
	keys := make([]domain.ContestID, 0, len(listings))
	for _, listing := range listings {
		if _, seen := byID[listing.ID]; seen {
			continue
		}
		byID[listing.ID] = listing
		keys = append(keys, listing.ID)
	}

	p.contests.Merge(keys, func(id domain.ContestID) *Contest {
		return newContest(byID[id], p)
	})
	return nil
}

// refreshSubmissions queries every contest independently and swaps the
// platform-wide history in only if all of them succeeded.
func (p *Platform) refreshSubmissions(ctx context.Context) error {
	if err := p.ensureContests(ctx); err != nil {
		return err
	}

	contests := p.contests.Values()
	units := make([]refreshUnit, 0, len(contests))
	for _, contest := range contests {
		contest := contest
		units = append(units, refreshUnit{
			id: string(contest.id),
			fetch: func(ctx context.Context) ([]*Submission, error) {
				if err := contest.RefreshSubmissions(ctx); err != nil {
					return nil, err
				}
				return contest.submissions.Values(), nil
			},
		})
	}

	merged, refreshErr := refreshAll(ctx, p.refresh, units, p.submissions.Snapshot())
	if refreshErr != nil {
		p.submissions.Invalidate()
		return fmt.Errorf("refresh submission history of %s: %w", p.name, refreshErr)
	}

	p.submissions.Replace(merged)
	return nil
}
