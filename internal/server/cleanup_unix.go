//go:build !windows

package server

import "os"

// cleanupSocket removes the socket file, ignoring a missing file.
func cleanupSocket(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func setSocketPermissions(path string) {
	_ = os.Chmod(path, 0700)
}
