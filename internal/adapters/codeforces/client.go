// Package codeforces implements the collaborator set for the Codeforces
// JSON API. The API is read-only for our purposes: listings, standings and
// submission status work against a handle; submitting requires the website
// and is not supported here.
package codeforces

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"contestctl/internal/domain"
	"contestctl/internal/ports"
)

// Pending covers the phases the API reports while a submission is still
// being judged. A missing verdict field also counts as pending.
var Pending = domain.NewPendingSet("TESTING", "SUBMITTED")

type Client struct {
	http *resty.Client
}

var _ ports.Collaborators = (*Client)(nil)

type Options struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	client.SetHeader("user-agent", "Mozilla/5.0")
	client.SetTimeout(timeout)

	return &Client{http: client}
}

type apiResponse[T any] struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Result  T      `json:"result"`
}

type apiContest struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Phase            string `json:"phase"`
	StartTimeSeconds int64  `json:"startTimeSeconds"`
	DurationSeconds  int64  `json:"durationSeconds"`
}

type apiProblem struct {
	Index string `json:"index"`
	Name  string `json:"name"`
}

type apiStandings struct {
	Problems []apiProblem `json:"problems"`
}

type apiSubmission struct {
	ID                  int64      `json:"id"`
	CreationTimeSeconds int64      `json:"creationTimeSeconds"`
	ProgrammingLanguage string     `json:"programmingLanguage"`
	Verdict             string     `json:"verdict"`
	Problem             apiProblem `json:"problem"`
}

type apiUser struct {
	Handle string `json:"handle"`
}

func call[T any](ctx context.Context, c *Client, method string, params map[string]string) (T, error) {
	var zero T
	out := &apiResponse[T]{}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(out).
		SetError(out).
		Get("/" + method)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}

	if out.Status != "OK" {
		comment := out.Comment
		if comment == "" {
			comment = res.Status()
		}
		return zero, fmt.Errorf("%w: %s returned %s", domain.ErrParse, method, comment)
	}
	return out.Result, nil
}

// PerformLogin treats the handle as the session token: the public API needs
// no password for reads, so login just verifies the handle exists. The
// secret is unused and scrubbed by the caller.
func (c *Client) PerformLogin(ctx context.Context, username string, secret []byte) (string, error) {
	users, err := call[[]apiUser](ctx, c, "user.info", map[string]string{"handles": username})
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return "", fmt.Errorf("%w: unknown handle %q", domain.ErrLoginFailed, username)
		}
		return "", err
	}
	if len(users) == 0 {
		return "", fmt.Errorf("%w: unknown handle %q", domain.ErrLoginFailed, username)
	}
	return users[0].Handle, nil
}

func (c *Client) Validate(ctx context.Context, token string) (bool, error) {
	users, err := call[[]apiUser](ctx, c, "user.info", map[string]string{"handles": token})
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return false, nil
		}
		return false, err
	}
	return len(users) > 0, nil
}

func (c *Client) FetchContests(ctx context.Context, token string) ([]domain.ContestListing, error) {
	contests, err := call[[]apiContest](ctx, c, "contest.list", map[string]string{"gym": "false"})
	if err != nil {
		return nil, err
	}

	var listings []domain.ContestListing
	for _, contest := range contests {
		// Running contests are skipped: standings and statements are
		// not reliably accessible mid-round.
		if contest.Phase != "BEFORE" && contest.Phase != "FINISHED" {
			continue
		}
		start := time.Unix(contest.StartTimeSeconds, 0)
		end := start.Add(time.Duration(contest.DurationSeconds) * time.Second)
		listings = append(listings, domain.ContestListing{
			ID:      domain.ContestID(strconv.Itoa(contest.ID)),
			Title:   contest.Name,
			StartAt: &start,
			EndAt:   &end,
		})
	}
	return listings, nil
}

func (c *Client) FetchTasks(ctx context.Context, token string, contestID domain.ContestID) ([]domain.TaskListing, error) {
	standings, err := call[apiStandings](ctx, c, "contest.standings", map[string]string{
		"contestId": string(contestID),
		"from":      "1",
		"count":     "1000",
	})
	if err != nil {
		return nil, err
	}

	listings := make([]domain.TaskListing, 0, len(standings.Problems))
	for _, problem := range standings.Problems {
		listings = append(listings, domain.TaskListing{
			ID:   domain.TaskID(problem.Index),
			Code: problem.Index,
			Name: problem.Name,
		})
	}
	return listings, nil
}

// FetchTaskContent is unsupported: the API exposes no statements. The
// website URL is returned as a pointer for the user.
func (c *Client) FetchTaskContent(ctx context.Context, token string, contestID domain.ContestID, taskID domain.TaskID) (domain.TaskContent, error) {
	return domain.TaskContent{}, fmt.Errorf(
		"task statements are %w, see https://codeforces.com/contest/%s/problem/%s",
		domain.ErrNotSupported, contestID, taskID)
}

func (c *Client) FetchSubmissions(ctx context.Context, token string, contestID domain.ContestID, taskID domain.TaskID) ([]domain.SubmissionRecord, error) {
	submissions, err := c.contestStatus(ctx, token, contestID)
	if err != nil {
		return nil, err
	}

	var records []domain.SubmissionRecord
	for _, sub := range submissions {
		if domain.TaskID(sub.Problem.Index) != taskID {
			continue
		}
		records = append(records, domain.SubmissionRecord{
			ID:          domain.SubmissionID(strconv.FormatInt(sub.ID, 10)),
			SubmittedAt: time.Unix(sub.CreationTimeSeconds, 0),
			Language:    sub.ProgrammingLanguage,
		})
	}
	return records, nil
}

func (c *Client) Submit(ctx context.Context, token string, contestID domain.ContestID, taskID domain.TaskID, filePath string, language domain.Language) (domain.SubmitReceipt, error) {
	return domain.SubmitReceipt{}, fmt.Errorf("submitting via the API is %w", domain.ErrNotSupported)
}

func (c *Client) FetchVerdict(ctx context.Context, token string, contestID domain.ContestID, id domain.SubmissionID) (domain.Verdict, error) {
	submissions, err := c.contestStatus(ctx, token, contestID)
	if err != nil {
		return "", err
	}

	for _, sub := range submissions {
		if strconv.FormatInt(sub.ID, 10) != string(id) {
			continue
		}
		if sub.Verdict == "" {
			return Pending.Sentinel(), nil
		}
		return domain.Verdict(sub.Verdict), nil
	}
	return "", fmt.Errorf("submission %s %w in contest status", id, domain.ErrNotFound)
}

func (c *Client) contestStatus(ctx context.Context, token string, contestID domain.ContestID) ([]apiSubmission, error) {
	return call[[]apiSubmission](ctx, c, "contest.status", map[string]string{
		"contestId": string(contestID),
		"handle":    token,
		"from":      "1",
		"count":     "1000",
	})
}
