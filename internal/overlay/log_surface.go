package overlay

import "github.com/warpdl/warphud/pkg/logger"

// LogSurface writes each frame to a logger. It is used when the renderer
// runs without a terminal.
type LogSurface struct {
	log       logger.Logger
	delimiter string
	visible   bool
	last      string
}

func NewLogSurface(l logger.Logger) *LogSurface {
	return &LogSurface{log: l, delimiter: DefaultStyle().Delimiter, visible: true}
}

func (s *LogSurface) ApplyPayloadsInOrder(payloads []Payload) {
	text := Compose(payloads, s.delimiter)
	if text == s.last {
		return
	}
	s.last = text
	if s.visible {
		s.log.Info("overlay:\n%s", text)
	}
}

func (s *LogSurface) SetVisible(visible bool) {
	if visible == s.visible {
		return
	}
	s.visible = visible
	if visible {
		s.log.Info("overlay shown:\n%s", s.last)
	} else {
		s.log.Info("overlay hidden")
	}
}

func (s *LogSurface) SetStyle(style Style) {
	s.delimiter = style.Delimiter
}

func (s *LogSurface) Close() error {
	return nil
}
