// Package ports declares the interfaces the synchronization engine consumes.
// Platform adapters implement the collaborator side; storage adapters
// implement TokenStore. All blocking calls take a context.
package ports

import (
	"context"
	"time"

	"contestctl/internal/domain"
)

// AuthCollaborator performs the platform-specific login handshake and token
// validation.
type AuthCollaborator interface {
	// PerformLogin exchanges credentials for a session token. The secret
	// slice is owned by the caller, which scrubs it after use.
	PerformLogin(ctx context.Context, username string, secret []byte) (string, error)
	// Validate reports whether the token is still accepted by the
	// platform. A network failure is an error, not a false.
	Validate(ctx context.Context, token string) (bool, error)
}

// ListCollaborator scrapes the cheap index pages.
type ListCollaborator interface {
	FetchContests(ctx context.Context, token string) ([]domain.ContestListing, error)
	FetchTasks(ctx context.Context, token string, contestID domain.ContestID) ([]domain.TaskListing, error)
}

// DetailCollaborator fetches the expensive per-entity detail.
type DetailCollaborator interface {
	FetchTaskContent(ctx context.Context, token string, contestID domain.ContestID, taskID domain.TaskID) (domain.TaskContent, error)
	FetchSubmissions(ctx context.Context, token string, contestID domain.ContestID, taskID domain.TaskID) ([]domain.SubmissionRecord, error)
}

// SubmitCollaborator uploads a solution file.
type SubmitCollaborator interface {
	Submit(ctx context.Context, token string, contestID domain.ContestID, taskID domain.TaskID, filePath string, language domain.Language) (domain.SubmitReceipt, error)
}

// VerdictCollaborator reads the current verdict of one submission.
type VerdictCollaborator interface {
	FetchVerdict(ctx context.Context, token string, contestID domain.ContestID, id domain.SubmissionID) (domain.Verdict, error)
}

// Collaborators bundles everything one platform adapter provides.
type Collaborators interface {
	AuthCollaborator
	ListCollaborator
	DetailCollaborator
	SubmitCollaborator
	VerdictCollaborator
}

// Clock abstracts wall-clock reads so rendered ages are testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
