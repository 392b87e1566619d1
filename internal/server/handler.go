package server

import (
	"github.com/warpdl/warphud/common"
	"github.com/warpdl/warphud/internal/liveness"
)

// HandlerFunc handles one command from peer. Handlers run on the
// connection's goroutine and must not block.
type HandlerFunc func(peer *liveness.Peer, cmd *common.Command) error
