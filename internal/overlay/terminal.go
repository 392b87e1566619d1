package overlay

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type (
	payloadsMsg []Payload
	visibleMsg  bool
	styleMsg    Style
)

// TerminalSurface draws the overlay as a full-screen bubbletea program.
type TerminalSurface struct {
	prog *tea.Program
	done chan struct{}
	err  error
}

// NewTerminalSurface starts the program on out. It reads no input; the
// renderer process handles signals itself.
func NewTerminalSurface(out io.Writer) *TerminalSurface {
	r := lipgloss.NewRenderer(out)
	r.SetColorProfile(termenv.ANSI256)
	prog := tea.NewProgram(
		newModel(r),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
		tea.WithAltScreen(),
	)
	s := &TerminalSurface{prog: prog, done: make(chan struct{})}
	go func() {
		defer close(s.done)
		_, s.err = prog.Run()
	}()
	return s
}

func (s *TerminalSurface) ApplyPayloadsInOrder(payloads []Payload) {
	s.prog.Send(payloadsMsg(append([]Payload(nil), payloads...)))
}

func (s *TerminalSurface) SetVisible(visible bool) {
	s.prog.Send(visibleMsg(visible))
}

func (s *TerminalSurface) SetStyle(style Style) {
	s.prog.Send(styleMsg(style))
}

func (s *TerminalSurface) Close() error {
	s.prog.Quit()
	<-s.done
	return s.err
}

type model struct {
	renderer *lipgloss.Renderer
	style    Style
	payloads []Payload
	visible  bool
	width    int
	height   int
}

func newModel(r *lipgloss.Renderer) model {
	return model{renderer: r, style: DefaultStyle(), visible: true}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case payloadsMsg:
		m.payloads = msg
	case visibleMsg:
		m.visible = bool(msg)
	case styleMsg:
		m.style = Style(msg)
	}
	return m, nil
}

func (m model) View() string {
	if !m.visible || len(m.payloads) == 0 {
		return ""
	}
	box := m.renderer.NewStyle().
		Foreground(lipgloss.Color(m.style.Foreground)).
		Background(lipgloss.Color(m.style.Background)).
		Padding(m.style.Padding)
	content := box.Render(Compose(m.payloads, m.style.Delimiter))
	if m.width == 0 || m.height == 0 {
		return content
	}
	h, v := placement(m.style.Position)
	return m.renderer.Place(m.width, m.height, h, v, content)
}

func placement(position string) (lipgloss.Position, lipgloss.Position) {
	switch position {
	case PositionTopLeft:
		return lipgloss.Left, lipgloss.Top
	case PositionTopRight:
		return lipgloss.Right, lipgloss.Top
	case PositionBottomRight:
		return lipgloss.Right, lipgloss.Bottom
	default:
		return lipgloss.Left, lipgloss.Bottom
	}
}
