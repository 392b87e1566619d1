package overlay

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/warpdl/warphud/pkg/logger"
)

type staticSource struct {
	payloads []Payload
	visible  bool
}

func (s *staticSource) Payloads() []Payload { return s.payloads }
func (s *staticSource) Visible() bool       { return s.visible }

type recordingSurface struct {
	applied [][]Payload
	visible []bool
	style   *Style
	closed  bool
}

func (r *recordingSurface) ApplyPayloadsInOrder(p []Payload) { r.applied = append(r.applied, p) }
func (r *recordingSurface) SetVisible(v bool)                { r.visible = append(r.visible, v) }
func (r *recordingSurface) SetStyle(s Style)                 { r.style = &s }
func (r *recordingSurface) Close() error                     { r.closed = true; return nil }

func TestCompose(t *testing.T) {
	tests := []struct {
		name     string
		payloads []Payload
		want     string
	}{
		{"empty", nil, ""},
		{"one", []Payload{Payload("a")}, "a\n--"},
		{"two", []Payload{Payload("a"), Payload("b")}, "a\n--\nb\n--"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compose(tt.payloads, "--"); got != tt.want {
				t.Fatalf("Compose() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPresenterDefersSurfaceUntilPermission(t *testing.T) {
	src := &staticSource{payloads: []Payload{Payload("a")}, visible: true}
	surface := &recordingSurface{}
	created := 0
	allowed := false
	p := NewPresenter(src, func() (Surface, error) {
		created++
		return surface, nil
	}, func() bool { return allowed }, logger.NewNopLogger())

	var frames []Frame
	p.OnRender(func(f Frame) { frames = append(frames, f) })

	p.Render()
	if created != 0 || frames[0].Initialized {
		t.Fatal("surface created without permission")
	}

	src.payloads = append(src.payloads, Payload("b"))
	allowed = true
	p.Render()
	p.Render()
	if created != 1 {
		t.Fatalf("surface created %d times", created)
	}
	if len(surface.applied) != 2 || len(surface.applied[0]) != 2 {
		t.Fatalf("accumulated state not applied: %v", surface.applied)
	}
	if surface.style == nil || surface.style.Delimiter != DefaultStyle().Delimiter {
		t.Fatal("style not pushed on init")
	}

	if len(frames) != 3 {
		t.Fatalf("got %d frames", len(frames))
	}
	if frames[0].Initialized || !frames[2].Initialized || frames[2].Seq != 3 || frames[2].Entries != 2 {
		t.Fatalf("unexpected frames %+v", frames)
	}

	if err := p.Close(); err != nil || !surface.closed {
		t.Fatal("surface not closed")
	}
}

func TestPresenterSurfaceErrorRetried(t *testing.T) {
	src := &staticSource{visible: true}
	log := logger.NewMockLogger()
	fail := true
	p := NewPresenter(src, func() (Surface, error) {
		if fail {
			return nil, errors.New("no display")
		}
		return &recordingSurface{}, nil
	}, nil, log)
	var last Frame
	p.OnRender(func(f Frame) { last = f })
	p.Render()
	if last.Initialized || len(log.Errors()) != 1 {
		t.Fatal("expected logged failure")
	}
	fail = false
	p.Render()
	if !last.Initialized {
		t.Fatal("surface not created on retry")
	}
}

type panicSource struct{}

func (panicSource) Payloads() []Payload { panic("bad state") }
func (panicSource) Visible() bool       { return true }

func TestPresenterRecoversPanic(t *testing.T) {
	log := logger.NewMockLogger()
	p := NewPresenter(panicSource{}, func() (Surface, error) { return &recordingSurface{}, nil }, nil, log)
	p.Render()
	if len(log.Errors()) != 1 {
		t.Fatalf("panic not logged: %v", log.Errors())
	}
}

func TestRestyleBeforeAndAfterInit(t *testing.T) {
	surface := &recordingSurface{}
	p := NewPresenter(&staticSource{}, func() (Surface, error) { return surface, nil }, nil, logger.NewNopLogger())
	custom := DefaultStyle()
	custom.Delimiter = "=="
	p.Restyle(custom)
	p.Render()
	if surface.style == nil || surface.style.Delimiter != "==" {
		t.Fatal("pending style not applied on init")
	}
	custom.Delimiter = "##"
	p.Restyle(custom)
	if surface.style.Delimiter != "##" {
		t.Fatal("restyle not forwarded")
	}
}

func testModel() model {
	r := lipgloss.NewRenderer(&strings.Builder{})
	r.SetColorProfile(termenv.Ascii)
	return newModel(r)
}

func TestModelView(t *testing.T) {
	m := testModel()
	if m.View() != "" {
		t.Fatal("empty overlay should render nothing")
	}

	next, _ := m.Update(payloadsMsg{Payload("fps 60"), Payload("mem 12MB")})
	m = next.(model)
	view := m.View()
	if !strings.Contains(view, "fps 60") || !strings.Contains(view, "mem 12MB") {
		t.Fatalf("view missing payloads: %q", view)
	}
	if strings.Index(view, "fps 60") > strings.Index(view, "mem 12MB") {
		t.Fatal("payloads out of order")
	}

	next, _ = m.Update(visibleMsg(false))
	m = next.(model)
	if m.View() != "" {
		t.Fatal("hidden overlay should render nothing")
	}
}

func TestModelPlacement(t *testing.T) {
	m := testModel()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	m = next.(model)
	next, _ = m.Update(payloadsMsg{Payload("x")})
	m = next.(model)

	lines := strings.Split(m.View(), "\n")
	if len(lines) != 10 {
		t.Fatalf("placed view has %d lines", len(lines))
	}
	if strings.TrimSpace(lines[0]) != "" {
		t.Fatal("bottom-left placement should leave the top empty")
	}

	style := DefaultStyle()
	style.Position = PositionTopLeft
	next, _ = m.Update(styleMsg(style))
	m = next.(model)
	lines = strings.Split(m.View(), "\n")
	if strings.TrimSpace(lines[len(lines)-1]) != "" {
		t.Fatal("top-left placement should leave the bottom empty")
	}
}

func TestLogSurface(t *testing.T) {
	log := logger.NewMockLogger()
	s := NewLogSurface(log)
	s.ApplyPayloadsInOrder([]Payload{Payload("a")})
	s.ApplyPayloadsInOrder([]Payload{Payload("a")})
	s.SetVisible(true)
	s.SetVisible(false)
	if n := len(log.Infos()); n != 2 {
		t.Fatalf("expected 2 info lines, got %d", n)
	}
}
