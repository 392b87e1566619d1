//go:build windows

package server

// cleanupSocket is a no-op; the OS removes a pipe with its last handle.
func cleanupSocket(string) error {
	return nil
}
