// Package overlay turns registry state into something on screen. A
// Presenter runs the render pass on the renderer's looper; a Surface is the
// thing being drawn on.
package overlay

import (
	"strings"
	"time"
)

// Payload is one entry's content, as sent by its client.
type Payload []byte

// Surface draws the overlay. All calls come from the looper goroutine.
type Surface interface {
	ApplyPayloadsInOrder(payloads []Payload)
	SetVisible(visible bool)
	Close() error
}

// Styler is implemented by surfaces whose look can change at runtime.
type Styler interface {
	SetStyle(style Style)
}

// Permission reports whether drawing is currently allowed.
type Permission func() bool

// Always grants permission unconditionally.
func Always() bool { return true }

// Source is the state a render pass reads. Its methods are only called on
// the looper.
type Source interface {
	Payloads() []Payload
	Visible() bool
}

// Frame describes one completed render pass.
type Frame struct {
	Seq         uint64    `json:"seq"`
	Entries     int       `json:"entries"`
	Visible     bool      `json:"visible"`
	Initialized bool      `json:"initialized"`
	RenderedAt  time.Time `json:"rendered_at"`
}

const (
	PositionTopLeft     = "top-left"
	PositionTopRight    = "top-right"
	PositionBottomLeft  = "bottom-left"
	PositionBottomRight = "bottom-right"
)

// Style controls how payload text is laid out.
type Style struct {
	Foreground string
	Background string
	Delimiter  string
	Padding    int
	Position   string
}

// DefaultStyle is green text on a dark shade in the bottom-left corner.
func DefaultStyle() Style {
	return Style{
		Foreground: "#00FF00",
		Background: "#1C1C1C",
		Delimiter:  "-----------------",
		Padding:    1,
		Position:   PositionBottomLeft,
	}
}

// Compose joins payloads as text, each followed by its own delimiter line.
func Compose(payloads []Payload, delimiter string) string {
	var sb strings.Builder
	for i, p := range payloads {
		sb.Write(p)
		sb.WriteByte('\n')
		sb.WriteString(delimiter)
		if i != len(payloads)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
