package common

import (
	"encoding/json"
	"fmt"
)

// Command is the single envelope carried by every frame from a client to the
// renderer. Token is empty for TOGGLE_VISIBILITY; Payload is set only for
// UPDATE_HUD and is moved to the renderer unchanged.
type Command struct {
	Type    UpdateType `json:"type"`
	Token   string     `json:"token,omitempty"`
	Payload []byte     `json:"payload,omitempty"`
}

// Encode marshals the command into a frame body.
func (c *Command) Encode() ([]byte, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.Type, err)
	}
	return b, nil
}

// ParseCommand decodes a frame body and checks the fields required by its kind.
func ParseCommand(b []byte) (*Command, error) {
	var c Command
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse command: %w", err)
	}
	switch c.Type {
	case UPDATE_HUD, REMOVE_HUD:
		if c.Token == "" {
			return nil, fmt.Errorf("parse command: %s without token", c.Type)
		}
	case TOGGLE_VISIBILITY:
	default:
		return nil, fmt.Errorf("parse command: unknown type %q", c.Type)
	}
	return &c, nil
}
