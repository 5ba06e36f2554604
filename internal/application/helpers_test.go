package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"contestctl/internal/domain"
)

var errStubNotWired = errors.New("stub call not wired")

// collabStub implements ports.Collaborators with overridable function
// fields. Calls without an override fail loudly.
type collabStub struct {
	performLogin     func(ctx context.Context, username string, secret []byte) (string, error)
	validate         func(ctx context.Context, token string) (bool, error)
	fetchContests    func(ctx context.Context, token string) ([]domain.ContestListing, error)
	fetchTasks       func(ctx context.Context, token string, contestID domain.ContestID) ([]domain.TaskListing, error)
	fetchTaskContent func(ctx context.Context, token string, contestID domain.ContestID, taskID domain.TaskID) (domain.TaskContent, error)
	fetchSubmissions func(ctx context.Context, token string, contestID domain.ContestID, taskID domain.TaskID) ([]domain.SubmissionRecord, error)
	submit           func(ctx context.Context, token string, contestID domain.ContestID, taskID domain.TaskID, filePath string, language domain.Language) (domain.SubmitReceipt, error)
	fetchVerdict     func(ctx context.Context, token string, contestID domain.ContestID, id domain.SubmissionID) (domain.Verdict, error)
}

func (s *collabStub) PerformLogin(ctx context.Context, username string, secret []byte) (string, error) {
	if s.performLogin == nil {
		return "", errStubNotWired
	}
	return s.performLogin(ctx, username, secret)
}

func (s *collabStub) Validate(ctx context.Context, token string) (bool, error) {
	if s.validate == nil {
		return false, errStubNotWired
	}
	return s.validate(ctx, token)
}

func (s *collabStub) FetchContests(ctx context.Context, token string) ([]domain.ContestListing, error) {
	if s.fetchContests == nil {
		return nil, errStubNotWired
	}
	return s.fetchContests(ctx, token)
}

func (s *collabStub) FetchTasks(ctx context.Context, token string, contestID domain.ContestID) ([]domain.TaskListing, error) {
	if s.fetchTasks == nil {
		return nil, errStubNotWired
	}
	return s.fetchTasks(ctx, token, contestID)
}

func (s *collabStub) FetchTaskContent(ctx context.Context, token string, contestID domain.ContestID, taskID domain.TaskID) (domain.TaskContent, error) {
	if s.fetchTaskContent == nil {
		return domain.TaskContent{}, errStubNotWired
	}
	return s.fetchTaskContent(ctx, token, contestID, taskID)
}

func (s *collabStub) FetchSubmissions(ctx context.Context, token string, contestID domain.ContestID, taskID domain.TaskID) ([]domain.SubmissionRecord, error) {
	if s.fetchSubmissions == nil {
		return nil, errStubNotWired
	}
	return s.fetchSubmissions(ctx, token, contestID, taskID)
}

func (s *collabStub) Submit(ctx context.Context, token string, contestID domain.ContestID, taskID domain.TaskID, filePath string, language domain.Language) (domain.SubmitReceipt, error) {
	if s.submit == nil {
		return domain.SubmitReceipt{}, errStubNotWired
	}
	return s.submit(ctx, token, contestID, taskID, filePath, language)
}

func (s *collabStub) FetchVerdict(ctx context.Context, token string, contestID domain.ContestID, id domain.SubmissionID) (domain.Verdict, error) {
	if s.fetchVerdict == nil {
		return "", errStubNotWired
	}
	return s.fetchVerdict(ctx, token, contestID, id)
}

// memTokenStore is an in-memory ports.TokenStore with injectable failures.
type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string

	loadErr  error
	saveErr  error
	eraseErr error

	eraseCalls int
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: map[string]string{}}
}

func (m *memTokenStore) Load(_ context.Context, platformKey string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return "", false, m.loadErr
	}
	token, ok := m.tokens[platformKey]
	return token, ok, nil
}

func (m *memTokenStore) Save(_ context.Context, platformKey, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.tokens[platformKey] = token
	return nil
}

func (m *memTokenStore) Erase(_ context.Context, platformKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eraseCalls++
	if m.eraseErr != nil {
		return m.eraseErr
	}
	delete(m.tokens, platformKey)
	return nil
}

var testPending = domain.NewPendingSet("QUE", "RUN")

func newTestPlatform(collab *collabStub, store *memTokenStore) *Platform {
	return NewPlatform(Config{
		Name:              "testjudge",
		Collaborators:     collab,
		TokenStore:        store,
		Pending:           testPending,
		PollInterval:      time.Millisecond,
		PollFailureBudget: 3,
		RefreshWorkers:    4,
		RefreshDeadline:   5 * time.Second,
	})
}

// loggedInPlatform wires a validated session so authenticated operations
// pass the token gate.
func loggedInPlatform(collab *collabStub, store *memTokenStore) *Platform {
	p := newTestPlatform(collab, store)
	store.tokens["testjudge"] = "tok-1"
	prev := collab.validate
	collab.validate = func(context.Context, string) (bool, error) { return true, nil }
	p.Session().Bootstrap(context.Background())
	collab.validate = prev
	return p
}

func listing(id, title string) domain.ContestListing {
	return domain.ContestListing{ID: domain.ContestID(id), Title: title}
}

func taskListing(id, code, name string) domain.TaskListing {
	return domain.TaskListing{ID: domain.TaskID(id), Code: code, Name: name}
}

func record(id string, at time.Time) domain.SubmissionRecord {
	return domain.SubmissionRecord{ID: domain.SubmissionID(id), SubmittedAt: at}
}
