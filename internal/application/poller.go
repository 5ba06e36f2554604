package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"contestctl/internal/domain"
	"contestctl/internal/ports"
)

const (
	defaultPollInterval  = 3 * time.Second
	defaultFailureBudget = 5
)

// Poller resolves verdicts for live submissions. Each watched submission is
// polled on its own timer; polling one submission never blocks another.
// Polling stops the moment a submission turns terminal, or after the
// consecutive-failure budget is spent, in which case the verdict is recorded
// as Unknown.
type Poller struct {
	session       *Session
	verdicts      ports.VerdictCollaborator
	interval      time.Duration
	failureBudget int

	mu     sync.Mutex
	active map[domain.SubmissionID]struct{}

	lifecycle context.Context
	stop      context.CancelFunc
	wg        sync.WaitGroup
}

func newPoller(session *Session, verdicts ports.VerdictCollaborator, interval time.Duration, failureBudget int) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if failureBudget <= 0 {
		failureBudget = defaultFailureBudget
	}
	lifecycle, stop := context.WithCancel(context.Background())
	return &Poller{
		session:       session,
		verdicts:      verdicts,
		interval:      interval,
		failureBudget: failureBudget,
		active:        map[domain.SubmissionID]struct{}{},
		lifecycle:     lifecycle,
		stop:          stop,
	}
}

// Poll performs a single verdict fetch for the submission. It is a no-op
// returning the recorded verdict once the submission is terminal.
func (p *Poller) Poll(ctx context.Context, sub *Submission) (domain.Verdict, error) {
	if sub.Terminal() {
		return sub.Verdict(), nil
	}

	token, err := p.session.RequireToken()
	if err != nil {
		return "", err
	}

	verdict, err := p.verdicts.FetchVerdict(ctx, token, sub.ContestID(), sub.ID())
	if err != nil {
		return "", fmt.Errorf("fetch verdict of submission %s: %w", sub.ID(), err)
	}

	sub.recordVerdict(verdict)
	return sub.Verdict(), nil
}

// Await polls the submission at the configured interval until it turns
// terminal or ctx is done. Fetch failures count against the failure budget;
// when it is spent the verdict is recorded as Unknown and Await returns it.
// A missing session is not a fetch failure: it is returned to the caller,
// who can log in again and resume.
func (p *Poller) Await(ctx context.Context, sub *Submission) (domain.Verdict, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	failures := 0
	for {
		if sub.Terminal() {
			return sub.Verdict(), nil
		}

		if _, err := p.Poll(ctx, sub); err != nil {
			if errors.Is(err, domain.ErrAuthRequired) {
				return sub.Verdict(), err
			}
			failures++
			slog.Debug("verdict poll failed",
				"submission", sub.ID(), "failures", failures, "error", err)
			if failures >= p.failureBudget {
				sub.markUnknown()
				return sub.Verdict(), nil
			}
		} else {
			failures = 0
		}

		if sub.Terminal() {
			return sub.Verdict(), nil
		}

		select {
		case <-ctx.Done():
			return sub.Verdict(), ctx.Err()
		case <-ticker.C:
		}
	}
}

// Watch polls the submission in the background until it turns terminal. A
// terminal or already-watched submission is a no-op.
func (p *Poller) Watch(sub *Submission) {
	if sub.Terminal() {
		return
	}

	p.mu.Lock()
	if _, watching := p.active[sub.ID()]; watching {
		p.mu.Unlock()
		return
	}
	p.active[sub.ID()] = struct{}{}
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			p.mu.Lock()
			delete(p.active, sub.ID())
			p.mu.Unlock()
		}()
		if _, err := p.Await(p.lifecycle, sub); err != nil {
			slog.Debug("background poll stopped",
				"submission", sub.ID(), "error", err)
		}
	}()
}

// Close stops background polling and waits for watchers to exit.
func (p *Poller) Close() {
	p.stop()
	p.wg.Wait()
}
