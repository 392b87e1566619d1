package server

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/creachadair/jrpc2/handler"
	"github.com/warpdl/warphud/internal/overlay"
	"github.com/warpdl/warphud/pkg/logger"
)

// pushServer starts a jrpc2 server with push enabled on an in-memory line
// channel. The returned client channel must be drained for pushes to finish.
func pushServer(t *testing.T) (channel.Channel, *jrpc2.Server, func()) {
	t.Helper()
	cr, sw := io.Pipe()
	sr, cw := io.Pipe()
	cli := channel.Line(cr, cw)
	srv := jrpc2.NewServer(handler.Map{}, &jrpc2.ServerOptions{AllowPush: true})
	srv.Start(channel.Line(sr, sw))
	return cli, srv, func() {
		cli.Close()
		_ = srv.Wait()
	}
}

func TestRPCNotifierRegisterUnregister(t *testing.T) {
	n := NewRPCNotifier(nil)
	_, srv, cleanup := pushServer(t)
	defer cleanup()

	n.Register(srv)
	if n.Count() != 1 {
		t.Fatalf("expected 1 session, got %d", n.Count())
	}
	n.Unregister(srv)
	n.Unregister(srv)
	if n.Count() != 0 {
		t.Fatalf("expected 0 sessions, got %d", n.Count())
	}
}

func TestRPCNotifierBroadcastNoSessions(t *testing.T) {
	NewRPCNotifier(nil).Broadcast(RenderedMethod, overlay.Frame{})
}

func TestRPCNotifierFrameRendered(t *testing.T) {
	n := NewRPCNotifier(nil)
	cli, srv, cleanup := pushServer(t)
	defer cleanup()
	n.Register(srv)

	got := make(chan []byte, 1)
	go func() {
		data, _ := cli.Recv()
		got <- data
	}()
	n.FrameRendered(overlay.Frame{Seq: 7, Visible: true})

	select {
	case data := <-got:
		if !strings.Contains(string(data), RenderedMethod) {
			t.Fatalf("unexpected push %s", data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no push received")
	}
	if n.Count() != 1 {
		t.Fatal("healthy session was dropped")
	}
}

func TestRPCNotifierDropsDeadSession(t *testing.T) {
	log := logger.NewMockLogger()
	n := NewRPCNotifier(log)
	cli, srv, _ := pushServer(t)
	n.Register(srv)
	cli.Close()
	_ = srv.Wait()

	n.Broadcast(RenderedMethod, overlay.Frame{})
	if n.Count() != 0 {
		t.Fatalf("expected dead session to be dropped, got %d", n.Count())
	}
	if len(log.Warnings()) != 1 {
		t.Fatalf("expected one warning, got %v", log.Warnings())
	}
}
