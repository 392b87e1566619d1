//go:build windows

package server

import (
	"fmt"
	"net"

	"github.com/Microsoft/go-winio"
	"github.com/warpdl/warphud/common"
)

// pipeSecurityDescriptor grants SYSTEM, Administrators and the creating
// user full access and nobody else.
const pipeSecurityDescriptor = "D:(A;;GA;;;SY)(A;;GA;;;BA)(A;;GA;;;CO)"

// createListener prefers the named pipe and falls back to TCP.
func (s *Server) createListener() (net.Listener, error) {
	if forceTCP() {
		s.log.Info("server: WARPHUD_FORCE_TCP set, using TCP")
		return s.tcpListener()
	}
	l, err := winio.ListenPipe(common.PipePath(), &winio.PipeConfig{
		SecurityDescriptor: pipeSecurityDescriptor,
	})
	if err != nil {
		s.log.Warning("server: named pipe unavailable: %v, trying TCP", err)
		return s.tcpListener()
	}
	return l, nil
}

func (s *Server) tcpListener() (net.Listener, error) {
	l, err := net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
	if err != nil {
		return nil, fmt.Errorf("error listening: %w", err)
	}
	return l, nil
}
