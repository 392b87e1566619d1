// Package hudcli is the application side of the renderer transport: it
// locates or starts the renderer process and carries framed commands to it.
package hudcli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/warpdl/warphud/common"
)

// ErrClosed is returned by Send after the connection is gone.
var ErrClosed = errors.New("renderer connection closed")

// Client is one connection to the renderer. Send is safe for concurrent use.
type Client struct {
	conn net.Conn
	wmu  sync.Mutex
	done chan struct{}
	once sync.Once
}

// Dial connects to the renderer, spawning it first when no explicit
// WARPHUD_RENDERER_URI is configured and nothing answers on the default
// endpoint.
func Dial(ctx context.Context) (*Client, error) {
	if os.Getenv(common.RendererURIEnv) == "" {
		if err := ensureRenderer(ctx); err != nil {
			return nil, fmt.Errorf("error starting renderer: %w", err)
		}
	}
	conn, err := connect()
	if err != nil {
		return nil, fmt.Errorf("error connecting to renderer: %w", err)
	}
	return newClient(conn), nil
}

func newClient(conn net.Conn) *Client {
	c := &Client{
		conn: conn,
		done: make(chan struct{}),
	}
	go c.watch()
	return c
}

// watch blocks on the read side. The renderer never writes, so any return
// from Read means the peer went away.
func (c *Client) watch() {
	defer c.once.Do(func() { close(c.done) })
	buf := make([]byte, 64)
	for {
		if _, err := c.conn.Read(buf); err != nil {
			debugLog("renderer connection lost: %v", err)
			return
		}
	}
}

// Send writes one command frame.
func (c *Client) Send(cmd *common.Command) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	b, err := cmd.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", cmd.Type, err)
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if err := common.WriteFrame(c.conn, b); err != nil {
		return fmt.Errorf("failed to send %s: %w", cmd.Type, err)
	}
	return nil
}

// Done is closed once the renderer side of the connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close tears down the connection. Done is closed shortly after.
func (c *Client) Close() error {
	return c.conn.Close()
}
