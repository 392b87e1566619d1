//go:build !windows

package hudcli

import "net"

func dial() (net.Conn, error) {
	path := socketPath()
	return withTCPFallback("unix socket "+path, func() (net.Conn, error) {
		return dialFunc("unix", path)
	})
}
