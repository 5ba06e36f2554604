package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"contestctl/internal/cache"
	"contestctl/internal/domain"
)

// Contest is a live contest entity. Its task cache is lazily populated on
// first access and persists until explicitly reloaded. Its submission view
// is the union, by submission ID, of its tasks' histories.
type Contest struct {
	id          domain.ContestID
	title       string
	description string
	startAt     *time.Time
	endAt       *time.Time
	platform    *Platform

	tasks       *cache.Cache[domain.TaskID, *Task]
	submissions *cache.Cache[domain.SubmissionID, *Submission]
}

func newContest(listing domain.ContestListing, platform *Platform) *Contest {
	return &Contest{
		id:          listing.ID,
		title:       listing.Title,
		description: listing.Description,
		startAt:     listing.StartAt,
		endAt:       listing.EndAt,
		platform:    platform,
		tasks:       cache.New[domain.TaskID, *Task](),
		submissions: cache.New[domain.SubmissionID, *Submission](),
	}
}

func (c *Contest) ID() domain.ContestID { return c.id }
func (c *Contest) Title() string        { return c.title }
func (c *Contest) Description() string  { return c.description }
func (c *Contest) StartAt() *time.Time  { return c.startAt }
func (c *Contest) EndAt() *time.Time    { return c.endAt }

// Tasks returns the contest's tasks in ID order, fetching the listing on
// first access.
func (c *Contest) Tasks(ctx context.Context) ([]*Task, error) {
	if err := c.ensureTasks(ctx); err != nil {
		return nil, err
	}
	tasks := c.tasks.Values()
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].id < tasks[j].id })
	return tasks, nil
}

func (c *Contest) TaskByID(ctx context.Context, id domain.TaskID) (*Task, error) {
	if err := c.ensureTasks(ctx); err != nil {
		return nil, err
	}
	task, ok := c.tasks.Get(id)
	if !ok {
		return nil, fmt.Errorf("task %q in contest %s: %w", id, c.id, domain.ErrNotFound)
	}
	return task, nil
}

func (c *Contest) ensureTasks(ctx context.Context) error {
	if c.tasks.Loaded() {
		return nil
	}
	return c.reloadTasks(ctx)
}

// reloadTasks re-scrapes the task listing and merges it by task ID. A fetch
// failure leaves the previous snapshot intact and the cache not-loaded.
func (c *Contest) reloadTasks(ctx context.Context) error {
	token, err := c.platform.session.RequireToken()
	if err != nil {
		return err
	}

	listings, err := c.platform.collab.FetchTasks(ctx, token, c.id)
	if err != nil {
		return fmt.Errorf("fetch tasks of contest %s: %w", c.id, err)
	}

	byID := make(map[domain.TaskID]domain.TaskListing, len(listings))
	keys := make([]domain.TaskID, 0, len(listings))
	for _, listing := range listings {
		if _, seen := byID[listing.ID]; seen {
			continue
		}
		byID[listing.ID] = listing
		keys = append(keys, listing.ID)
	}

	c.tasks.Merge(keys, func(id domain.TaskID) *Task {
		return newTask(byID[id], c)
	})
	return nil
}

// Submissions returns the contest's denormalized submission view, refreshing
// it with a task fan-out on first access.
func (c *Contest) Submissions(ctx context.Context) ([]*Submission, error) {
	if !c.submissions.Loaded() {
		if err := c.RefreshSubmissions(ctx); err != nil {
			return nil, err
		}
	}
	return sortSubmissions(c.submissions.Values()), nil
}

// RefreshSubmissions queries every task independently and merges the union
// of their histories into a fresh map, swapped in only if every task
// succeeded. On partial failure the successes are merged best-effort into
// the returned error's context but the cache keeps its previous snapshot.
func (c *Contest) RefreshSubmissions(ctx context.Context) error {
	if err := c.ensureTasks(ctx); err != nil {
		return err
	}

	tasks := c.tasks.Values()
	units := make([]refreshUnit, 0, len(tasks))
	for _, task := range tasks {
		task := task
		units = append(units, refreshUnit{
			id: string(task.id),
			fetch: func(ctx context.Context) ([]*Submission, error) {
				if err := task.refreshSubmissions(ctx); err != nil {
					return nil, err
				}
				return task.submissions.Values(), nil
			},
		})
	}

	merged, refreshErr := refreshAll(ctx, c.platform.refresh, units, c.submissions.Snapshot())
	if refreshErr != nil {
		c.submissions.Invalidate()
		return fmt.Errorf("refresh submissions of contest %s: %w", c.id, refreshErr)
	}

	c.submissions.Replace(merged)
	return nil
}
