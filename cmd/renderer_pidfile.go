package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const pidFileName = "renderer.pid"

func getPidFilePath(dir string) string {
	return filepath.Join(dir, pidFileName)
}

// WritePidFile records the current process as the renderer for dir.
func WritePidFile(dir string) error {
	return os.WriteFile(getPidFilePath(dir), []byte(strconv.Itoa(os.Getpid())), 0644)
}

// ReadPidFile returns the renderer PID recorded in dir.
func ReadPidFile(dir string) (int, error) {
	data, err := os.ReadFile(getPidFilePath(dir))
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("invalid PID: %d", pid)
	}
	return pid, nil
}

// RemovePidFile deletes the PID file. A missing file is not an error.
func RemovePidFile(dir string) error {
	err := os.Remove(getPidFilePath(dir))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// claimPidFile writes the PID file unless another live renderer holds it.
// A stale file left by a crashed renderer is taken over.
func claimPidFile(dir string) error {
	if pid, err := ReadPidFile(dir); err == nil && pid != os.Getpid() && isProcessRunning(pid) {
		return fmt.Errorf("%w (PID %d)", errAlreadyRunning, pid)
	}
	return WritePidFile(dir)
}
