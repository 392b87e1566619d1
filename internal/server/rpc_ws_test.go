package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	cws "github.com/coder/websocket"
	"github.com/warpdl/warphud/internal/overlay"
	"github.com/warpdl/warphud/internal/registry"
	"github.com/warpdl/warphud/pkg/logger"
)

const testSecret = "ws-test-secret"

type fakeOverlay struct {
	snap    registry.Snapshot
	err     error
	toggles atomic.Int32
}

func (f *fakeOverlay) Snapshot(context.Context) (registry.Snapshot, error) {
	return f.snap, f.err
}

func (f *fakeOverlay) Toggle() { f.toggles.Add(1) }

func newTestRPC(t *testing.T, ov Overlay) (*httptest.Server, *RPCServer, *RPCNotifier) {
	t.Helper()
	n := NewRPCNotifier(nil)
	rs := NewRPCServer(&RPCConfig{
		Secret:    testSecret,
		Version:   "1.0.0",
		Commit:    "abc123",
		BuildType: "test",
	}, ov, n, logger.NewNopLogger())
	srv := httptest.NewServer(NewWebServer(logger.NewNopLogger(), rs, &RPCConfig{}).handler())
	t.Cleanup(func() {
		srv.Close()
		_ = rs.Close()
	})
	return srv, rs, n
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func post(t *testing.T, url, token, method string) (int, rpcResponse) {
	t.Helper()
	body, _ := json.Marshal(map[string]any{"jsonrpc": "2.0", "id": 1, "method": method})
	req, _ := http.NewRequest(http.MethodPost, url+"/jsonrpc", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding %s response: %v", method, err)
	}
	return resp.StatusCode, out
}

func TestHTTPGetVersion(t *testing.T) {
	srv, _, _ := newTestRPC(t, &fakeOverlay{})
	code, resp := post(t, srv.URL, testSecret, "system.getVersion")
	if code != http.StatusOK || resp.Error != nil {
		t.Fatalf("status %d error %+v", code, resp.Error)
	}
	var v VersionResult
	if err := json.Unmarshal(resp.Result, &v); err != nil {
		t.Fatal(err)
	}
	if v.Version != "1.0.0" || v.Commit != "abc123" || v.BuildType != "test" {
		t.Fatalf("unexpected version %+v", v)
	}
}

func TestHTTPUnauthorized(t *testing.T) {
	srv, _, _ := newTestRPC(t, &fakeOverlay{})
	code, resp := post(t, srv.URL, "", "overlay.list")
	if code != http.StatusUnauthorized || resp.Error == nil {
		t.Fatalf("expected 401 with error, got %d", code)
	}
}

func TestHTTPOverlayList(t *testing.T) {
	ov := &fakeOverlay{snap: registry.Snapshot{
		Entries: []registry.Entry{
			{Token: "a", Payload: []byte("first"), Peer: "p1"},
			{Token: "b", Payload: []byte("second"), Peer: "p2"},
		},
		Visible: true,
	}}
	srv, _, _ := newTestRPC(t, ov)
	_, resp := post(t, srv.URL, testSecret, "overlay.list")
	if resp.Error != nil {
		t.Fatalf("unexpected error %+v", resp.Error)
	}
	var list ListResult
	if err := json.Unmarshal(resp.Result, &list); err != nil {
		t.Fatal(err)
	}
	if !list.Visible || len(list.Entries) != 2 {
		t.Fatalf("unexpected list %+v", list)
	}
	if list.Entries[0].Token != "a" || list.Entries[1].Text != "second" {
		t.Fatalf("order or text lost: %+v", list.Entries)
	}
}

func TestHTTPOverlayListUnavailable(t *testing.T) {
	srv, _, _ := newTestRPC(t, &fakeOverlay{err: errors.New("looper stopped")})
	_, resp := post(t, srv.URL, testSecret, "overlay.list")
	if resp.Error == nil || resp.Error.Code != -32001 {
		t.Fatalf("expected unavailable error, got %+v", resp.Error)
	}
}

func TestHTTPOverlayToggle(t *testing.T) {
	ov := &fakeOverlay{}
	srv, _, _ := newTestRPC(t, ov)
	_, resp := post(t, srv.URL, testSecret, "overlay.toggle")
	if resp.Error != nil {
		t.Fatalf("unexpected error %+v", resp.Error)
	}
	if ov.toggles.Load() != 1 {
		t.Fatalf("expected one toggle, got %d", ov.toggles.Load())
	}
}

func dialWS(t *testing.T, ctx context.Context, url, token string) (*cws.Conn, *http.Response, error) {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http") + "/jsonrpc/ws"
	opts := &cws.DialOptions{}
	if token != "" {
		opts.HTTPHeader = http.Header{"Authorization": []string{"Bearer " + token}}
	}
	return cws.Dial(ctx, wsURL, opts)
}

func TestWebSocketAuthRequired(t *testing.T) {
	srv, _, _ := newTestRPC(t, &fakeOverlay{})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, resp, err := dialWS(t, ctx, srv.URL, "wrong")
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp != nil && resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestWebSocketCallAndPush(t *testing.T) {
	ov := &fakeOverlay{}
	srv, _, n := newTestRPC(t, ov)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := dialWS(t, ctx, srv.URL, testSecret)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(cws.StatusNormalClosure, "")

	req, _ := json.Marshal(map[string]any{"jsonrpc": "2.0", "id": 1, "method": "overlay.toggle"})
	if err := conn.Write(ctx, cws.MessageText, req); err != nil {
		t.Fatal(err)
	}
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var resp rpcResponse
	if err := json.Unmarshal(data, &resp); err != nil || resp.Error != nil {
		t.Fatalf("toggle over websocket: %s", data)
	}
	if n.Count() != 1 {
		t.Fatalf("expected registered session, got %d", n.Count())
	}

	n.Broadcast(RenderedMethod, overlay.Frame{Seq: 3})
	_, data, err = conn.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var push struct {
		Method string `json:"method"`
	}
	if err := json.Unmarshal(data, &push); err != nil || push.Method != RenderedMethod {
		t.Fatalf("unexpected push %s", data)
	}
}
