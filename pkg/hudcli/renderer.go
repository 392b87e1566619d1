package hudcli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/warpdl/warphud/common"
)

const (
	rendererStartTimeout = 3 * time.Second
	socketPollInterval   = 50 * time.Millisecond
)

// execLookPath and osExecutable are replaced in tests.
var (
	execLookPath = exec.LookPath
	osExecutable = os.Executable
	spawnFunc    = spawnRenderer
)

// ensureRenderer makes sure a renderer process is accepting connections,
// starting one in the background when none answers.
func ensureRenderer(ctx context.Context) error {
	if isRendererRunning() {
		return nil
	}
	bin, err := rendererBinary()
	if err != nil {
		return err
	}
	debugLog("renderer not running, spawning %s", bin)
	if err := spawnFunc(bin); err != nil {
		return err
	}
	return waitForRenderer(ctx, rendererStartTimeout)
}

// rendererBinary resolves the executable that hosts the renderer:
// WARPHUD_RENDERER_BIN, then warphud on PATH, then the running binary.
func rendererBinary() (string, error) {
	if bin := os.Getenv(common.RendererBinEnv); bin != "" {
		return bin, nil
	}
	if bin, err := execLookPath("warphud"); err == nil {
		return bin, nil
	}
	bin, err := osExecutable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	return bin, nil
}

func isRendererRunning() bool {
	conn, err := connect()
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// waitForRenderer polls until the renderer answers or the timeout expires.
func waitForRenderer(ctx context.Context, timeout time.Duration) error {
	ticker := time.NewTicker(socketPollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		if isRendererRunning() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("renderer failed to start within %v", timeout)
		case <-ticker.C:
		}
	}
}
