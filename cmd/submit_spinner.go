package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"contestctl/internal/domain"
)

type verdictDoneMsg struct {
	verdict domain.Verdict
	err     error
}

type verdictWaitModel struct {
	spinner spinner.Model
	label   string
	wait    tea.Cmd
	verdict domain.Verdict
	err     error
	done    bool
}

func newVerdictWaitModel(label string, wait tea.Cmd) verdictWaitModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("220"))),
	)

	return verdictWaitModel{
		spinner: s,
		label:   label,
		wait:    wait,
	}
}

func (m verdictWaitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.wait)
}

func (m verdictWaitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case verdictDoneMsg:
		m.done = true
		m.verdict = msg.verdict
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m verdictWaitModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

func runVerdictWaitSpinner(ctx context.Context, output io.Writer, label string, wait func(context.Context) (domain.Verdict, error)) (domain.Verdict, error) {
	waitCmd := func() tea.Msg {
		verdict, err := wait(ctx)
		return verdictDoneMsg{verdict: verdict, err: err}
	}

	p := tea.NewProgram(
		newVerdictWaitModel(label, waitCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	result, ok := finalModel.(verdictWaitModel)
	if !ok {
		return "", fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.verdict, result.err
}
