package application

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"contestctl/internal/domain"
)

const (
	defaultRefreshWorkers  = 8
	defaultRefreshDeadline = 5 * time.Minute
)

type refreshConfig struct {
	workers  int
	deadline time.Duration
}

// refreshUnit is one independent child fetch in a bulk refresh.
type refreshUnit struct {
	id    string
	fetch func(ctx context.Context) ([]*Submission, error)
}

// refreshAll fans the units out onto a bounded worker set and merges their
// results into a fresh map, reusing instances from prev for submission IDs
// already seen. A failing unit never cancels its siblings. The call waits up
// to the configured deadline; stragglers are not interrupted, they keep
// writing into the local map which is discarded by the caller on failure.
// The returned error is nil only if every unit finished in time.
func refreshAll(ctx context.Context, cfg refreshConfig, units []refreshUnit, prev map[domain.SubmissionID]*Submission) (map[domain.SubmissionID]*Submission, *domain.PartialRefreshError) {
	workers := cfg.workers
	if workers <= 0 {
		workers = defaultRefreshWorkers
	}
	deadline := cfg.deadline
	if deadline <= 0 {
		deadline = defaultRefreshDeadline
	}

	var (
		mu     sync.Mutex
		merged = make(map[domain.SubmissionID]*Submission)
		failed []string
	)

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for _, unit := range units {
		unit := unit
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			subs, err := unit.fetch(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Debug("refresh unit failed", "id", unit.id, "error", err)
				failed = append(failed, unit.id)
				return
			}
			for _, sub := range subs {
				if existing, ok := prev[sub.ID()]; ok {
					merged[sub.ID()] = existing
					continue
				}
				merged[sub.ID()] = sub
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	deadlineExceeded := false
	select {
	case <-done:
	case <-timer.C:
		deadlineExceeded = true
	case <-ctx.Done():
		deadlineExceeded = true
	}

	// Snapshot under the lock: units past the deadline may still be
	// mutating the shared map.
	mu.Lock()
	result := make(map[domain.SubmissionID]*Submission, len(merged))
	for id, sub := range merged {
		result[id] = sub
	}
	failedIDs := append([]string(nil), failed...)
	mu.Unlock()

	if deadlineExceeded || len(failedIDs) > 0 {
		sort.Strings(failedIDs)
		return result, &domain.PartialRefreshError{
			Failed:           failedIDs,
			DeadlineExceeded: deadlineExceeded,
		}
	}
	return result, nil
}
