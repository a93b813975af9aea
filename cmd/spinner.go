package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type taskProgressMsg struct {
	label string
}

type taskDoneMsg struct {
	err error
}

type taskSpinnerModel struct {
	spinner spinner.Model
	label   string
	err     error
	done    bool
}

func newTaskSpinnerModel(label string) taskSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return taskSpinnerModel{
		spinner: s,
		label:   label,
	}
}

func (m taskSpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m taskSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case taskProgressMsg:
		m.label = msg.label
		return m, nil
	case taskDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m taskSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// runTaskSpinner shows a spinner on output while work runs. work may call
// setLabel to replace the spinner label as it progresses. When ctx is
// canceled the spinner stops at once, but runTaskSpinner still waits for work
// to return so it can record its outcome before the process exits.
func runTaskSpinner(ctx context.Context, output io.Writer, label string, work func(ctx context.Context, setLabel func(string)) error) error {
	var p *tea.Program

	setLabel := func(label string) {
		p.Send(taskProgressMsg{label: label})
	}

	p = tea.NewProgram(
		newTaskSpinnerModel(label),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	)

	done := make(chan error, 1)
	go func() {
		err := work(ctx, setLabel)
		done <- err
		p.Send(taskDoneMsg{err: err})
	}()

	_, runErr := p.Run()
	if err := <-done; err != nil {
		return err
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return runErr
	}

	return nil
}
