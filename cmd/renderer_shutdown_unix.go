//go:build !windows

package cmd

import (
	"os"

	"golang.org/x/sys/unix"
)

var shutdownSignals = []os.Signal{unix.SIGTERM, unix.SIGINT, unix.SIGHUP}
