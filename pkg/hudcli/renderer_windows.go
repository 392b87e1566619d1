//go:build windows

package hudcli

import (
	"fmt"
	"os/exec"
)

func spawnRenderer(bin string) error {
	cmd := exec.Command(bin, "renderer")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start renderer: %w", err)
	}
	_ = cmd.Process.Release()
	return nil
}
