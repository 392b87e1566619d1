package cmd

import "errors"

var (
	errLinesRange       = errors.New("--lines must be at least 1")
	errAlreadyRunning   = errors.New("renderer already running")
	errInvalidSurface   = errors.New("surface must be auto, terminal or log")
	errInvalidLogFormat = errors.New("log format must be text or json")
	errConfigExists     = errors.New("config file already exists, use --force to overwrite")
)
