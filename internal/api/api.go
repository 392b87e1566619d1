// Package api binds the renderer's wire commands to the overlay registry.
package api

import (
	"github.com/warpdl/warphud/common"
	"github.com/warpdl/warphud/internal/registry"
	"github.com/warpdl/warphud/internal/server"
	"github.com/warpdl/warphud/pkg/logger"
)

type Api struct {
	log logger.Logger
	reg *registry.Registry
}

func NewApi(l logger.Logger, reg *registry.Registry) *Api {
	return &Api{log: l, reg: reg}
}

func (s *Api) RegisterHandlers(server *server.Server) {
	server.RegisterHandler(common.UPDATE_HUD, s.updateHandler)
	server.RegisterHandler(common.REMOVE_HUD, s.removeHandler)
	server.RegisterHandler(common.TOGGLE_VISIBILITY, s.toggleHandler)
}
