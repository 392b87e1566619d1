package server

import (
	"os"
	"path/filepath"

	"github.com/warpdl/warphud/common"
)

func socketPath() string {
	if path := os.Getenv(common.SocketPathEnv); path != "" {
		return path
	}
	return filepath.Join(os.TempDir(), common.DefaultSocketName)
}

func forceTCP() bool {
	return os.Getenv(common.ForceTCPEnv) == "1"
}
