package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/warpdl/warphud/pkg/logger"
)

// WebServer hosts the JSON-RPC endpoint.
type WebServer struct {
	log    logger.Logger
	rpc    *RPCServer
	host   string
	port   int
	server *http.Server
	mu     sync.Mutex
}

func NewWebServer(l logger.Logger, rpc *RPCServer, cfg *RPCConfig) *WebServer {
	host := "127.0.0.1"
	if cfg.ListenAll {
		host = "0.0.0.0"
	}
	return &WebServer{log: l, rpc: rpc, host: host, port: cfg.Port}
}

func (s *WebServer) handler() http.Handler {
	return s.rpc.handler()
}

func (s *WebServer) addr() string {
	return net.JoinHostPort(s.host, fmt.Sprint(s.port))
}

// Start serves until Shutdown.
func (s *WebServer) Start() error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:     s.addr(),
		Handler:  s.handler(),
		ErrorLog: logger.ToStdLogger(s.log),
	}
	srv := s.server
	s.mu.Unlock()

	s.log.Info("rpc: listening on %s", srv.Addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the HTTP server and the RPC bridge.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	var result *multierror.Error
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := s.rpc.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
