//go:build !windows

package server

import (
	"fmt"
	"net"
	"os"

	"github.com/warpdl/warphud/common"
)

// createListener prefers the unix socket and falls back to TCP.
func (s *Server) createListener() (net.Listener, error) {
	if forceTCP() {
		s.log.Info("server: WARPHUD_FORCE_TCP set, using TCP")
		return s.tcpListener()
	}
	path := socketPath()
	_ = os.Remove(path)
	l, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		s.log.Warning("server: unix socket %s unavailable: %v, trying TCP", path, err)
		return s.tcpListener()
	}
	setSocketPermissions(path)
	s.mu.Lock()
	s.sockFile = path
	s.mu.Unlock()
	return l, nil
}

func (s *Server) tcpListener() (net.Listener, error) {
	l, err := net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
	if err != nil {
		return nil, fmt.Errorf("error listening: %w", err)
	}
	return l, nil
}
