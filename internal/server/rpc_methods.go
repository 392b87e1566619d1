package server

import (
	"context"
	"net/http"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/warpdl/warphud/internal/registry"
	"github.com/warpdl/warphud/pkg/logger"
)

const codeUnavailable = jrpc2.Code(-32001)

// Overlay is the renderer state the RPC methods expose.
type Overlay interface {
	Snapshot(ctx context.Context) (registry.Snapshot, error)
	Toggle()
}

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // empty disables the endpoint
	ListenAll bool   // bind 0.0.0.0 instead of 127.0.0.1
	Port      int
	Version   string
	Commit    string
	BuildType string
}

// RPCServer serves the overlay inspection methods over HTTP POST and
// WebSocket. Only WebSocket sessions receive push notifications.
type RPCServer struct {
	methods  handler.Map
	bridge   jhttp.Bridge
	secret   string
	cfg      RPCConfig
	overlay  Overlay
	notifier *RPCNotifier
	log      logger.Logger
}

type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

type ListItem struct {
	Token string `json:"token"`
	Text  string `json:"text"`
	Peer  string `json:"peer"`
}

type ListResult struct {
	Entries []ListItem `json:"entries"`
	Visible bool       `json:"visible"`
}

type EmptyResult struct{}

func NewRPCServer(cfg *RPCConfig, ov Overlay, n *RPCNotifier, l logger.Logger) *RPCServer {
	rs := &RPCServer{
		secret:   cfg.Secret,
		cfg:      *cfg,
		overlay:  ov,
		notifier: n,
		log:      l,
	}
	rs.methods = handler.Map{
		"system.getVersion": handler.New(rs.systemGetVersion),
		"overlay.list":      handler.New(rs.overlayList),
		"overlay.toggle":    handler.New(rs.overlayToggle),
	}
	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{
		Version:   rs.cfg.Version,
		Commit:    rs.cfg.Commit,
		BuildType: rs.cfg.BuildType,
	}, nil
}

func (rs *RPCServer) overlayList(ctx context.Context) (*ListResult, error) {
	snap, err := rs.overlay.Snapshot(ctx)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeUnavailable, Message: err.Error()}
	}
	res := &ListResult{Entries: make([]ListItem, 0, len(snap.Entries)), Visible: snap.Visible}
	for _, e := range snap.Entries {
		res.Entries = append(res.Entries, ListItem{Token: e.Token, Text: string(e.Payload), Peer: e.Peer})
	}
	return res, nil
}

func (rs *RPCServer) overlayToggle(_ context.Context) (*EmptyResult, error) {
	rs.overlay.Toggle()
	return &EmptyResult{}, nil
}

// serveWS runs one jrpc2 session per WebSocket until the client leaves.
func (rs *RPCServer) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, nil)
	if err != nil {
		rs.log.Warning("rpc: websocket accept: %v", err)
		return
	}
	srv := jrpc2.NewServer(rs.methods, &jrpc2.ServerOptions{AllowPush: true})
	if rs.notifier != nil {
		rs.notifier.Register(srv)
		defer rs.notifier.Unregister(srv)
	}
	srv.Start(&wsChannel{conn: conn, ctx: r.Context()})
	_ = srv.Wait()
}

// handler mounts POST /jsonrpc and /jsonrpc/ws behind the bearer check.
func (rs *RPCServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/jsonrpc", requireToken(rs.secret, rs.bridge))
	mux.Handle("/jsonrpc/ws", requireToken(rs.secret, http.HandlerFunc(rs.serveWS)))
	return mux
}

// Close shuts down the jrpc2 bridge.
func (rs *RPCServer) Close() error {
	return rs.bridge.Close()
}
