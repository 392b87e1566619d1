package common

import "time"

// UpdateType identifies the kind of a command sent from a client to the renderer.
type UpdateType string

const (
	UPDATE_HUD        UpdateType = "update_hud"
	REMOVE_HUD        UpdateType = "remove_hud"
	TOGGLE_VISIBILITY UpdateType = "toggle_visibility"
)

const (
	// MaxMessageSize caps a single frame on the wire.
	MaxMessageSize = 4 << 20

	// TCPHost is the loopback host used for TCP fallback.
	TCPHost = "localhost"

	// DefaultTCPPort is the TCP fallback port when unix sockets are unavailable.
	DefaultTCPPort = 4849

	// DefaultRPCPort is the JSON-RPC port when --rpc-secret is given.
	DefaultRPCPort = 4850

	// DefaultSocketName is the unix socket file created in the temp directory.
	DefaultSocketName = "warphud.sock"

	// DefaultDialTimeout bounds a single dial attempt to the renderer.
	DefaultDialTimeout = 2 * time.Second
)
