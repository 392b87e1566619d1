//go:build windows

package common

import (
	"os"
	"strings"
)

const (
	pipePrefix = `\\.\pipe\`
	// DefaultPipeName names the renderer's pipe when WARPHUD_PIPE_NAME is unset.
	DefaultPipeName = "warphud"
)

// PipePath is the named pipe the renderer listens on. A WARPHUD_PIPE_NAME
// without the \\.\pipe\ prefix gets one.
func PipePath() string {
	name := os.Getenv(PipeNameEnv)
	if name == "" {
		name = DefaultPipeName
	}
	if !strings.HasPrefix(name, pipePrefix) {
		name = pipePrefix + name
	}
	return name
}
