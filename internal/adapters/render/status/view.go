// Package status renders submission history for the terminal.
package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"contestctl/internal/domain"
)

// Row is the view model for one rendered submission.
type Row struct {
	ID          domain.SubmissionID
	ContestID   domain.ContestID
	TaskID      domain.TaskID
	Verdict     domain.Verdict
	Terminal    bool
	Language    string
	SubmittedAt time.Time
}

type RenderOptions struct {
	Platform string
	Now      time.Time
}

func Render(rows []Row, opts RenderOptions) string {
	return renderView(rows, opts, newStyles())
}

func renderView(rows []Row, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("%s submissions", opts.Platform)),
		s.header.Render(fmt.Sprintf("total: %d", len(rows))),
	}

	if len(rows) == 0 {
		lines = append(lines, s.empty.Render("No submissions yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, row := range rows {
		lines = append(lines, renderRow(row, opts, s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRow(row Row, opts RenderOptions, s styles) string {
	parts := []string{
		s.id.Render(string(row.ID)),
		s.detail.Render(taskLabel(row)),
		verdictStyle(row, s).Render(string(row.Verdict)),
		s.detail.Render(ageLabel(row.SubmittedAt, opts.Now)),
	}
	if row.Language != "" {
		parts = append(parts, s.detail.Render(row.Language))
	}
	return strings.Join(parts, "  ")
}

func verdictStyle(row Row, s styles) lipgloss.Style {
	switch {
	case !row.Terminal:
		return s.pending
	case row.Verdict == domain.VerdictUnknown:
		return s.unknown
	case isAccepted(row.Verdict):
		return s.accepted
	default:
		return s.rejected
	}
}

func isAccepted(v domain.Verdict) bool {
	switch strings.ToUpper(string(v)) {
	case "OK", "ACCEPTED", "ANS":
		return true
	default:
		return false
	}
}

func taskLabel(row Row) string {
	if row.ContestID != "" {
		return fmt.Sprintf("%s/%s", row.ContestID, row.TaskID)
	}
	return string(row.TaskID)
}

func ageLabel(submittedAt time.Time, now time.Time) string {
	if submittedAt.IsZero() {
		return "-"
	}
	if now.IsZero() {
		now = time.Now()
	}
	age := now.Sub(submittedAt)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return submittedAt.Format("2006-01-02 15:04")
	}
}
