package hud

import (
	"context"

	"github.com/warpdl/warphud/common"
	"github.com/warpdl/warphud/pkg/hudcli"
)

// Link is an open connection to the renderer.
type Link interface {
	Send(cmd *common.Command) error
	// Done is closed when the renderer side goes away.
	Done() <-chan struct{}
	Close() error
}

// Connector opens Links.
type Connector interface {
	Connect(ctx context.Context) (Link, error)
}

// ConnectorFunc adapts a function to Connector.
type ConnectorFunc func(ctx context.Context) (Link, error)

func (f ConnectorFunc) Connect(ctx context.Context) (Link, error) {
	return f(ctx)
}

// DialConnector connects through hudcli, starting the renderer if needed.
func DialConnector() Connector {
	return ConnectorFunc(func(ctx context.Context) (Link, error) {
		c, err := hudcli.Dial(ctx)
		if err != nil {
			return nil, err
		}
		return c, nil
	})
}
