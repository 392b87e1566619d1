package hudcli

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"

	"github.com/warpdl/warphud/common"
)

// dialFunc is the dialer used for unix and tcp connections; tests replace it.
var dialFunc = func(network, address string) (net.Conn, error) {
	return net.DialTimeout(network, address, common.DefaultDialTimeout)
}

// tcpPort reads WARPHUD_TCP_PORT, ignoring anything that is not a valid port.
func tcpPort() int {
	raw := os.Getenv(common.TCPPortEnv)
	if raw == "" {
		return common.DefaultTCPPort
	}
	p, err := strconv.Atoi(raw)
	if err != nil || p < 1 || p > 65535 {
		debugLog("renderer: ignoring %s=%q", common.TCPPortEnv, raw)
		return common.DefaultTCPPort
	}
	return p
}

func forceTCP() bool { return os.Getenv(common.ForceTCPEnv) == "1" }

func debugMode() bool { return os.Getenv(common.DebugEnv) == "1" }

func tcpAddress() string {
	return net.JoinHostPort(common.TCPHost, strconv.Itoa(tcpPort()))
}

func debugLog(format string, args ...any) {
	if debugMode() {
		log.Printf(format, args...)
	}
}

// withTCPFallback tries the local transport, then the loopback TCP port.
func withTCPFallback(kind string, local func() (net.Conn, error)) (net.Conn, error) {
	conn, lerr := local()
	if lerr == nil {
		debugLog("renderer: connected over %s", kind)
		return conn, nil
	}
	debugLog("renderer: %s: %v; trying %s", kind, lerr, tcpAddress())
	conn, err := dialFunc("tcp", tcpAddress())
	if err != nil {
		return nil, fmt.Errorf("renderer unreachable over %s (%v) or tcp: %w", kind, lerr, err)
	}
	return conn, nil
}

// connect opens a raw connection to the renderer. An explicit
// WARPHUD_RENDERER_URI wins over the platform default transport.
func connect() (net.Conn, error) {
	if raw := os.Getenv(common.RendererURIEnv); raw != "" {
		uri, err := ParseRendererURI(raw)
		if err != nil {
			return nil, err
		}
		return dialURI(uri)
	}
	if forceTCP() {
		debugLog("renderer: %s set, using %s", common.ForceTCPEnv, tcpAddress())
		return dialFunc("tcp", tcpAddress())
	}
	return dial()
}
