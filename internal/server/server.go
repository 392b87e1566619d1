// Package server is the renderer's endpoint. It accepts client connections,
// reads framed commands from each, and hands them to registered handlers
// together with the liveness.Peer that stands for the sending process.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/warpdl/warphud/common"
	"github.com/warpdl/warphud/internal/liveness"
	"github.com/warpdl/warphud/pkg/logger"
)

// Server accepts client connections over the local transport.
type Server struct {
	log     logger.Logger
	handler map[common.UpdateType]HandlerFunc
	port    int

	mu       sync.Mutex
	listener net.Listener
	sockFile string
	closed   bool
	conns    sync.WaitGroup
	open     map[net.Conn]struct{}
}

// NewServer creates a Server. port is the TCP fallback port.
func NewServer(l logger.Logger, port int) *Server {
	return &Server{
		log:     l,
		handler: make(map[common.UpdateType]HandlerFunc),
		port:    port,
		open:    make(map[net.Conn]struct{}),
	}
}

// RegisterHandler associates fn with a command type. It must be called
// before Start.
func (s *Server) RegisterHandler(kind common.UpdateType, fn HandlerFunc) {
	s.handler[kind] = fn
}

// Start listens on the platform transport and serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	l, err := s.createListener()
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Serve accepts connections on l until ctx is canceled or Shutdown is
// called. Each connection is read on its own goroutine.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { _ = s.Shutdown() })
	defer stop()

	s.log.Info("server: listening on %s", l.Addr())
	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Error("server: accept: %v", err)
			continue
		}
		if !s.track(conn) {
			_ = conn.Close()
			continue
		}
		go s.handleConnection(conn)
	}
}

// Shutdown closes the listener and every open connection, then removes the
// socket file. Peers of closed connections are reported lost.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	s.closed = true
	sockFile := s.sockFile
	s.sockFile = ""
	var err error
	if s.listener != nil {
		if cerr := s.listener.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = fmt.Errorf("closing listener: %w", cerr)
		}
		s.listener = nil
	}
	for conn := range s.open {
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.conns.Wait()
	if sockFile != "" {
		if cerr := cleanupSocket(sockFile); cerr != nil {
			s.log.Warning("server: removing socket file: %v", cerr)
		}
	}
	return err
}

// track registers a new connection. It reports false once Shutdown has
// begun.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.open[conn] = struct{}{}
	s.conns.Add(1)
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.open, conn)
}

func (s *Server) handleConnection(conn net.Conn) {
	peer := liveness.NewPeer(conn.RemoteAddr().String())
	defer s.conns.Done()
	defer s.untrack(conn)
	defer conn.Close()
	// Lose runs first so entries are dropped even if Close blocks.
	defer peer.Lose()

	for {
		buf, err := common.ReadFrame(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				s.log.Warning("server: reading from %s: %v", peer, err)
			}
			return
		}
		if err := s.dispatch(peer, buf); err != nil {
			s.log.Warning("server: %s: %v", peer, err)
		}
	}
}

// dispatch parses one frame and runs its handler. Malformed frames and
// unknown command types are reported and skipped.
func (s *Server) dispatch(peer *liveness.Peer, b []byte) error {
	cmd, err := common.ParseCommand(b)
	if err != nil {
		return fmt.Errorf("skipping frame: %w", err)
	}
	fn, ok := s.handler[cmd.Type]
	if !ok {
		return fmt.Errorf("no handler for %s", cmd.Type)
	}
	if err := fn(peer, cmd); err != nil {
		return fmt.Errorf("handling %s: %w", cmd.Type, err)
	}
	return nil
}
