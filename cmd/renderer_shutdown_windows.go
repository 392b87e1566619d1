//go:build windows

package cmd

import "os"

// SIGTERM does not exist on Windows.
var shutdownSignals = []os.Signal{os.Interrupt}
