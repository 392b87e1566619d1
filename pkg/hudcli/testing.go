package hudcli

import (
	"net"

	"github.com/warpdl/warphud/common"
)

// NewClientForTesting wraps an existing connection, bypassing discovery.
func NewClientForTesting(conn net.Conn) *Client {
	return newClient(conn)
}

// ReadForTesting exposes the frame reader.
func ReadForTesting(conn net.Conn) ([]byte, error) {
	return common.ReadFrame(conn)
}

// WriteForTesting exposes the frame writer.
func WriteForTesting(conn net.Conn, data []byte) error {
	return common.WriteFrame(conn, data)
}
