package workspace

import (
	"errors"
	"io"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	workspace domain.Workspace
	opts      RenderOptions
	styles    styles
	output    string
}

func newModel(workspace domain.Workspace, opts RenderOptions) model {
	return model{
		workspace: workspace,
		opts:      opts,
		styles:    newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.workspace, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render draws the workspace once through a headless bubbletea program and
// returns the frame.
func Render(workspace domain.Workspace, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(workspace, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
