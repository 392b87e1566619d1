//go:build windows

package hudcli

import (
	"fmt"
	"net"

	"github.com/warpdl/warphud/common"
)

func dialURI(uri *RendererURI) (net.Conn, error) {
	var (
		conn net.Conn
		err  error
	)
	debugLog("renderer: dialing %s", uri)
	switch uri.Scheme {
	case SchemePipe:
		conn, err = dialPipeFunc(uri.Address, common.DefaultDialTimeout)
	case SchemeTCP:
		conn, err = dialFunc("tcp", uri.Address)
	case SchemeUnix:
		return nil, ErrUnixNotSupported
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, uri.Scheme)
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", uri, err)
	}
	return conn, nil
}
