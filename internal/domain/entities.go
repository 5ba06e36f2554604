package domain

import "time"

type ContestID string

type TaskID string

type SubmissionID string

// ContestListing is one row of a platform's contest index page. Listings are
// cheap to re-fetch; they only seed the contest cache, they never overwrite
// an entry that already exists for the same ID.
type ContestListing struct {
	ID          ContestID
	Title       string
	Description string
	StartAt     *time.Time
	EndAt       *time.Time
}

// TaskListing is one row of a contest's task index.
type TaskListing struct {
	ID   TaskID
	Code string
	Name string
}

// TaskContent is the expensive per-task detail, fetched at most once per
// process unless an explicit reload is requested.
type TaskContent struct {
	// Raw is the platform markup as scraped.
	Raw string
	// Text is the flattened, readable rendition of Raw.
	Text         string
	SampleInput  string
	SampleOutput string
	TimeLimit    string
	MemoryLimit  string
}

// SubmissionRecord is one row of a task's submission history.
type SubmissionRecord struct {
	ID          SubmissionID
	SubmittedAt time.Time
	Language    string
}

// SubmitReceipt is what a platform returns for a freshly submitted solution.
type SubmitReceipt struct {
	ID          SubmissionID
	SubmittedAt time.Time
}
