package application

import (
	"sync"
	"time"

	"contestctl/internal/domain"
)

// Submission is a live submission entity. Its verdict is mutable until it
// leaves the platform's pending set; after that it never changes.
type Submission struct {
	id          domain.SubmissionID
	taskID      domain.TaskID
	contestID   domain.ContestID
	submittedAt time.Time
	language    string
	pending     domain.PendingSet

	mu       sync.RWMutex
	verdict  domain.Verdict
	terminal bool
}

func newSubmission(id domain.SubmissionID, taskID domain.TaskID, contestID domain.ContestID, submittedAt time.Time, language string, pending domain.PendingSet) *Submission {
	return &Submission{
		id:          id,
		taskID:      taskID,
		contestID:   contestID,
		submittedAt: submittedAt,
		language:    language,
		pending:     pending,
		verdict:     pending.Sentinel(),
	}
}

func (s *Submission) ID() domain.SubmissionID    { return s.id }
func (s *Submission) TaskID() domain.TaskID      { return s.taskID }
func (s *Submission) ContestID() domain.ContestID { return s.contestID }
func (s *Submission) SubmittedAt() time.Time     { return s.submittedAt }
func (s *Submission) Language() string           { return s.language }

func (s *Submission) Verdict() domain.Verdict {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.verdict
}

// Terminal reports whether the verdict has left the pending set.
func (s *Submission) Terminal() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.terminal
}

// recordVerdict stores a freshly fetched verdict and reports whether the
// submission is now terminal. Once terminal, later calls are no-ops. Empty
// verdicts are ignored; a results row may not carry a status yet.
func (s *Submission) recordVerdict(v domain.Verdict) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminal {
		return true
	}
	if v == "" {
		return false
	}
	s.verdict = v
	s.terminal = !s.pending.Contains(v)
	return s.terminal
}

// markUnknown is the poller's give-up path after its failure budget is
// exhausted. Unknown is terminal.
func (s *Submission) markUnknown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminal {
		return
	}
	s.verdict = domain.VerdictUnknown
	s.terminal = true
}
