package api

import (
	"github.com/warpdl/warphud/common"
	"github.com/warpdl/warphud/internal/liveness"
)

func (s *Api) updateHandler(peer *liveness.Peer, cmd *common.Command) error {
	s.reg.Update(peer, cmd.Token, cmd.Payload)
	return nil
}

func (s *Api) removeHandler(peer *liveness.Peer, cmd *common.Command) error {
	s.reg.Remove(peer, cmd.Token)
	return nil
}

// toggleHandler flips visibility for everyone; the sender is irrelevant.
func (s *Api) toggleHandler(_ *liveness.Peer, _ *common.Command) error {
	s.reg.Toggle()
	return nil
}
