package hud

import "time"

// TextEntry renders the string returned by its source. A source returning
// false has nothing to show for that tick.
type TextEntry struct {
	Base
	period time.Duration
	source func() (string, bool)
}

func NewTextEntry(period time.Duration, source func() (string, bool)) *TextEntry {
	return &TextEntry{period: period, source: source}
}

// StaticText is a TextEntry that sends text once.
func StaticText(text string) *TextEntry {
	return NewTextEntry(NoPeriodicUpdate, func() (string, bool) { return text, true })
}

func (e *TextEntry) UpdatePeriod() time.Duration {
	return e.period
}

func (e *TextEntry) Update() (Payload, bool) {
	s, ok := e.source()
	if !ok {
		return nil, false
	}
	return Payload(s), true
}
