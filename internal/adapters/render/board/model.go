// Package board renders a game as a static terminal view: the segment
// bar, the guess slots and, once the game is over, the reveal.
package board

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/humdle/humdle-cli/internal/domain"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	game   domain.Game
	opts   RenderOptions
	styles styles
	output string
}

func newModel(game domain.Game, opts RenderOptions) model {
	return model{
		game:   game,
		opts:   opts,
		styles: newStyles(),
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
		m.output = renderView(m.game, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

func Render(game domain.Game, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(game, opts),
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
