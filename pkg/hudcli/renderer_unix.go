//go:build !windows

package hudcli

import (
	"fmt"
	"os/exec"
	"syscall"
)

// spawnRenderer starts the renderer detached from the caller's process group
// so it outlives the application that requested it.
func spawnRenderer(bin string) error {
	cmd := exec.Command(bin, "renderer")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start renderer: %w", err)
	}
	_ = cmd.Process.Release()
	return nil
}
