//go:build !windows

package cmd

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

const (
	shutdownTimeout = 5 * time.Second
	pollInterval    = 100 * time.Millisecond
)

// killRenderer sends SIGTERM and waits for pid to exit, escalating to
// SIGKILL after shutdownTimeout.
func killRenderer(pid int) error {
	if !isProcessRunning(pid) {
		return fmt.Errorf("renderer not running (PID %d)", pid)
	}
	if err := unix.Kill(pid, unix.SIGTERM); err != nil {
		return fmt.Errorf("failed to send SIGTERM: %w", err)
	}
	deadline := time.Now().Add(shutdownTimeout)
	for time.Now().Before(deadline) {
		if !isProcessRunning(pid) {
			return nil
		}
		time.Sleep(pollInterval)
	}

	fmt.Println("Graceful shutdown timeout, forcing kill...")
	if err := unix.Kill(pid, unix.SIGKILL); err != nil {
		return fmt.Errorf("failed to send SIGKILL: %w", err)
	}
	return nil
}
