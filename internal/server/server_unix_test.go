//go:build !windows

package server

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/warpdl/warphud/common"
)

func TestStartUnixSocket(t *testing.T) {
	dir, err := os.MkdirTemp("/tmp", "whud")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, "r.sock")
	t.Setenv(common.SocketPathEnv, path)
	t.Setenv(common.ForceTCPEnv, "")

	s, rec, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- s.Start(ctx) }()

	var conn net.Conn
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if conn, err = net.Dial("unix", path); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if conn == nil {
		t.Fatalf("socket never came up: %v", err)
	}
	defer conn.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0700 {
		t.Fatalf("socket mode %o, want 700", info.Mode().Perm())
	}

	sendCmd(t, conn, &common.Command{Type: common.UPDATE_HUD, Token: "a"})
	rec.wait(t, 1)

	cancel()
	if err := <-served; err != nil {
		t.Fatalf("Start returned %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("socket file not removed on shutdown")
	}
}
