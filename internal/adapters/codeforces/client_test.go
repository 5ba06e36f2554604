package codeforces

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contestctl/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Options{BaseURL: server.URL, Timeout: 5 * time.Second})
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}

func TestPerformLoginVerifiesHandle(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user.info", r.URL.Path)
		require.Equal(t, "tourist", r.URL.Query().Get("handles"))
		writeJSON(w, `{"status":"OK","result":[{"handle":"tourist"}]}`)
	}))

	token, err := client.PerformLogin(context.Background(), "tourist", nil)
	require.NoError(t, err)
	assert.Equal(t, "tourist", token)
}

func TestPerformLoginUnknownHandle(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, `{"status":"FAILED","comment":"handles: User with handle nobody not found"}`)
	}))

	_, err := client.PerformLogin(context.Background(), "nobody", nil)
	assert.ErrorIs(t, err, domain.ErrLoginFailed)
}

func TestValidateUnknownHandleIsInvalidNotError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, `{"status":"FAILED","comment":"handles: User with handle ghost not found"}`)
	}))

	valid, err := client.Validate(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestFetchContestsFiltersRunningPhases(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/contest.list", r.URL.Path)
		writeJSON(w, `{"status":"OK","result":[
			{"id":100,"name":"Round 100","phase":"FINISHED","startTimeSeconds":1700000000,"durationSeconds":7200},
			{"id":101,"name":"Round 101","phase":"CODING","startTimeSeconds":1700100000,"durationSeconds":7200},
			{"id":102,"name":"Round 102","phase":"BEFORE","startTimeSeconds":1700200000,"durationSeconds":9000}
		]}`)
	}))

	listings, err := client.FetchContests(context.Background(), "tourist")
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, domain.ContestID("100"), listings[0].ID)
	assert.Equal(t, "Round 100", listings[0].Title)
	require.NotNil(t, listings[0].StartAt)
	require.NotNil(t, listings[0].EndAt)
	assert.Equal(t, time.Unix(1700000000, 0), *listings[0].StartAt)
	assert.Equal(t, time.Unix(1700000000, 0).Add(2*time.Hour), *listings[0].EndAt)

	assert.Equal(t, domain.ContestID("102"), listings[1].ID)
}

func TestFetchTasks(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/contest.standings", r.URL.Path)
		require.Equal(t, "100", r.URL.Query().Get("contestId"))
		writeJSON(w, `{"status":"OK","result":{"problems":[
			{"index":"A","name":"Watermelon"},
			{"index":"B","name":"Theatre Square"}
		]}}`)
	}))

	listings, err := client.FetchTasks(context.Background(), "tourist", "100")
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, domain.TaskListing{ID: "A", Code: "A", Name: "Watermelon"}, listings[0])
}

func TestFetchTaskContentNotSupported(t *testing.T) {
	client := NewClient(Options{BaseURL: "http://unused"})

	_, err := client.FetchTaskContent(context.Background(), "tourist", "100", "A")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotSupported)
	assert.Contains(t, err.Error(), "https://codeforces.com/contest/100/problem/A")
}

const statusBody = `{"status":"OK","result":[
	{"id":5001,"creationTimeSeconds":1700000100,"programmingLanguage":"GNU C++17","verdict":"OK","problem":{"index":"A","name":"Watermelon"}},
	{"id":5002,"creationTimeSeconds":1700000200,"programmingLanguage":"Python 3","verdict":"TESTING","problem":{"index":"B","name":"Theatre Square"}},
	{"id":5003,"creationTimeSeconds":1700000300,"programmingLanguage":"GNU C++17","problem":{"index":"A","name":"Watermelon"}}
]}`

func TestFetchSubmissionsFiltersByTask(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/contest.status", r.URL.Path)
		require.Equal(t, "tourist", r.URL.Query().Get("handle"))
		writeJSON(w, statusBody)
	}))

	records, err := client.FetchSubmissions(context.Background(), "tourist", "100", "A")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.SubmissionID("5001"), records[0].ID)
	assert.Equal(t, "GNU C++17", records[0].Language)
	assert.Equal(t, time.Unix(1700000100, 0), records[0].SubmittedAt)
	assert.Equal(t, domain.SubmissionID("5003"), records[1].ID)
}

func TestFetchVerdict(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, statusBody)
	}))

	verdict, err := client.FetchVerdict(context.Background(), "tourist", "100", "5001")
	require.NoError(t, err)
	assert.Equal(t, domain.Verdict("OK"), verdict)
}

func TestFetchVerdictMissingFieldIsPendingSentinel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, statusBody)
	}))

	verdict, err := client.FetchVerdict(context.Background(), "tourist", "100", "5003")
	require.NoError(t, err)
	assert.Equal(t, Pending.Sentinel(), verdict)
}

func TestFetchVerdictUnknownSubmission(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, statusBody)
	}))

	_, err := client.FetchVerdict(context.Background(), "tourist", "100", "9999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmitNotSupported(t *testing.T) {
	client := NewClient(Options{BaseURL: "http://unused"})

	_, err := client.Submit(context.Background(), "tourist", "100", "A", "sol.cpp", domain.LanguageCpp)
	assert.ErrorIs(t, err, domain.ErrNotSupported)
}

func TestFailedStatusSurfacesComment(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, `{"status":"FAILED","comment":"contestId: Contest with id 9 not found"}`)
	}))

	_, err := client.FetchTasks(context.Background(), "tourist", "9")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Contains(t, err.Error(), "Contest with id 9 not found")
}

func TestConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client := NewClient(Options{BaseURL: server.URL, Timeout: time.Second})
	server.Close()

	_, err := client.FetchContests(context.Background(), "tourist")
	assert.ErrorIs(t, err, domain.ErrConnection)
}
