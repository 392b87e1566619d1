//go:build !windows

package hudcli

import (
	"fmt"
	"net"
)

func dialURI(uri *RendererURI) (net.Conn, error) {
	var network string
	switch uri.Scheme {
	case SchemeUnix:
		network = "unix"
	case SchemeTCP:
		network = "tcp"
	case SchemePipe:
		return nil, ErrPipeNotSupported
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, uri.Scheme)
	}
	debugLog("renderer: dialing %s", uri)
	conn, err := dialFunc(network, uri.Address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", uri, err)
	}
	return conn, nil
}
