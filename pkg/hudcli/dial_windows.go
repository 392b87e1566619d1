//go:build windows

package hudcli

import (
	"context"
	"net"
	"time"

	"github.com/Microsoft/go-winio"
	"github.com/warpdl/warphud/common"
)

// dialPipeFunc is replaced in tests.
var dialPipeFunc = func(path string, timeout time.Duration) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return winio.DialPipeContext(ctx, path)
}

func dial() (net.Conn, error) {
	path := common.PipePath()
	return withTCPFallback("pipe "+path, func() (net.Conn, error) {
		return dialPipeFunc(path, common.DefaultDialTimeout)
	})
}
