package overlay

import (
	"sync"
	"time"

	"github.com/warpdl/warphud/pkg/logger"
)

// Presenter owns the surface and performs render passes. Render and Restyle
// must be called on the looper; observers may be added from anywhere.
type Presenter struct {
	src        Source
	newSurface func() (Surface, error)
	permission Permission
	log        logger.Logger
	now        func() time.Time

	surface Surface
	style   Style
	seq     uint64

	mu        sync.Mutex
	observers []func(Frame)
}

func NewPresenter(src Source, newSurface func() (Surface, error), perm Permission, l logger.Logger) *Presenter {
	if perm == nil {
		perm = Always
	}
	return &Presenter{
		src:        src,
		newSurface: newSurface,
		permission: perm,
		log:        l,
		now:        time.Now,
		style:      DefaultStyle(),
	}
}

// OnRender registers fn to receive every Frame after it is drawn.
func (p *Presenter) OnRender(fn func(Frame)) {
	p.mu.Lock()
	p.observers = append(p.observers, fn)
	p.mu.Unlock()
}

// Render is one pass: create the surface if permission has been granted
// since the last pass, push content, then visibility.
func (p *Presenter) Render() {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("overlay: render pass panicked: %v", r)
		}
	}()

	if p.surface == nil && p.permission() {
		s, err := p.newSurface()
		if err != nil {
			p.log.Error("overlay: creating surface: %v", err)
		} else {
			p.surface = s
			if st, ok := s.(Styler); ok {
				st.SetStyle(p.style)
			}
			p.log.Info("overlay: surface initialized")
		}
	}

	payloads := p.src.Payloads()
	visible := p.src.Visible()
	if p.surface != nil {
		p.surface.ApplyPayloadsInOrder(payloads)
		p.surface.SetVisible(visible)
	}

	p.seq++
	p.publish(Frame{
		Seq:         p.seq,
		Entries:     len(payloads),
		Visible:     visible,
		Initialized: p.surface != nil,
		RenderedAt:  p.now(),
	})
}

// Restyle records style for the current and any future surface.
func (p *Presenter) Restyle(style Style) {
	p.style = style
	if st, ok := p.surface.(Styler); ok {
		st.SetStyle(style)
	}
}

func (p *Presenter) publish(f Frame) {
	p.mu.Lock()
	observers := append(([]func(Frame))(nil), p.observers...)
	p.mu.Unlock()
	for _, fn := range observers {
		fn(f)
	}
}

// Close tears down the surface, if one was created.
func (p *Presenter) Close() error {
	if p.surface == nil {
		return nil
	}
	err := p.surface.Close()
	p.surface = nil
	return err
}
