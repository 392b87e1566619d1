package cmd

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	hudcommon "github.com/warpdl/warphud/common"
	"github.com/warpdl/warphud/pkg/hud"
	"github.com/warpdl/warphud/pkg/hudcli"
	"github.com/warpdl/warphud/pkg/logger"
)

func TestLineTail(t *testing.T) {
	tail := newLineTail(2)
	if _, ok := tail.Sample(); ok {
		t.Fatal("empty tail reported a change")
	}
	if err := tail.Feed(strings.NewReader("one\ntwo\nthree\n")); err != nil {
		t.Fatal(err)
	}
	got, ok := tail.Sample()
	if !ok || got != "two\nthree" {
		t.Fatalf("got %q %v", got, ok)
	}
	if _, ok := tail.Sample(); ok {
		t.Fatal("unchanged tail reported a change")
	}
	tail.push("four")
	if got, _ := tail.Sample(); got != "three\nfour" {
		t.Fatalf("got %q", got)
	}
}

// pipeRenderer stands in for the renderer: it hands the client side of a
// pipe to the Manager and returns the server side for reading frames.
func pipeRenderer(t *testing.T) (hud.Connector, <-chan net.Conn) {
	t.Helper()
	conns := make(chan net.Conn, 1)
	return hud.ConnectorFunc(func(context.Context) (hud.Link, error) {
		client, srv := net.Pipe()
		conns <- srv
		return hudcli.NewClientForTesting(client), nil
	}), conns
}

func readCmd(t *testing.T, conn net.Conn) *hudcommon.Command {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	b, err := hudcli.ReadForTesting(conn)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	cmd, err := hudcommon.ParseCommand(b)
	if err != nil {
		t.Fatal(err)
	}
	return cmd
}

func stubShow(t *testing.T, connector hud.Connector, stdin string) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	origMgr, origIn, origSig := showManager, showStdin, showShutdown
	showManager = func() *hud.Manager {
		return hud.NewManager(connector, hud.WithLogger(logger.NewNopLogger()))
	}
	showStdin = strings.NewReader(stdin)
	showShutdown = func() (context.Context, context.CancelFunc) { return ctx, cancel }
	t.Cleanup(func() {
		cancel()
		showManager, showStdin, showShutdown = origMgr, origIn, origSig
	})
	return cancel
}

func runShow(t *testing.T, args ...string) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		done <- Execute(append([]string{"warphud", "show"}, args...), BuildArgs{})
	}()
	return done
}

func TestShowTextUntilInterrupted(t *testing.T) {
	connector, conns := pipeRenderer(t)
	interrupt := stubShow(t, connector, "")
	done := runShow(t, "build", "running")

	conn := <-conns
	defer conn.Close()
	upd := readCmd(t, conn)
	if upd.Type != hudcommon.UPDATE_HUD || string(upd.Payload) != "build running" {
		t.Fatalf("unexpected first command %+v", upd)
	}

	interrupt()
	rem := readCmd(t, conn)
	if rem.Type != hudcommon.REMOVE_HUD || rem.Token != upd.Token {
		t.Fatalf("expected removal of %s, got %+v", upd.Token, rem)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("show did not return")
	}
}

func TestShowStdinLines(t *testing.T) {
	connector, conns := pipeRenderer(t)
	interrupt := stubShow(t, connector, "first\nsecond\nthird\n")
	done := runShow(t, "--lines", "2", "--period", "100ms")

	conn := <-conns
	defer conn.Close()
	// Early ticks may see a partial read; the last update wins.
	var last *hudcommon.Command
	for last == nil || string(last.Payload) != "second\nthird" {
		last = readCmd(t, conn)
		if last.Type != hudcommon.UPDATE_HUD {
			t.Fatalf("unexpected %+v", last)
		}
	}

	interrupt()
	if cmd := readCmd(t, conn); cmd.Type != hudcommon.REMOVE_HUD {
		t.Fatalf("expected removal, got %+v", cmd)
	}
	<-done
}
