// Package common provides shared types and constants used across the warphud
// client-renderer communication layer.
package common

// Environment variable names for configuration.
const (
	// SocketPathEnv overrides the renderer unix socket path.
	SocketPathEnv = "WARPHUD_SOCKET_PATH"

	// TCPPortEnv overrides the TCP fallback port.
	TCPPortEnv = "WARPHUD_TCP_PORT"

	// ForceTCPEnv forces clients to skip the unix socket when set to "1".
	ForceTCPEnv = "WARPHUD_FORCE_TCP"

	// DebugEnv enables client transport debug logging when set to "1".
	DebugEnv = "WARPHUD_DEBUG"

	// RendererURIEnv selects an explicit renderer address
	// (unix://path, tcp://host:port or pipe://name).
	RendererURIEnv = "WARPHUD_RENDERER_URI"

	// RendererBinEnv points clients at the binary to spawn when no renderer is running.
	RendererBinEnv = "WARPHUD_RENDERER_BIN"

	// PipeNameEnv overrides the Windows named pipe name.
	PipeNameEnv = "WARPHUD_PIPE_NAME"

	// ConfigDirEnv overrides the renderer configuration directory.
	ConfigDirEnv = "WARPHUD_CONFIG_DIR"

	// RPCSecretEnv supplies the renderer's JSON-RPC bearer secret.
	RPCSecretEnv = "WARPHUD_RPC_SECRET"

	// RPCPortEnv overrides the renderer's JSON-RPC port.
	RPCPortEnv = "WARPHUD_RPC_PORT"
)
