package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"github.com/warpdl/warphud/cmd/common"
	hudcommon "github.com/warpdl/warphud/common"
	"github.com/warpdl/warphud/internal/config"
	"github.com/warpdl/warphud/internal/server"
	"github.com/warpdl/warphud/pkg/logger"
)

const logFileName = "renderer.log"

var rendererFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "surface",
		Usage: "where to draw: auto, terminal or log (default from config.yaml)",
	},
	cli.IntFlag{
		Name:   "port",
		Usage:  "TCP fallback port",
		Value:  hudcommon.DefaultTCPPort,
		EnvVar: hudcommon.TCPPortEnv,
	},
	cli.StringFlag{
		Name:   "rpc-secret",
		Usage:  "enable the JSON-RPC endpoint with this bearer secret",
		EnvVar: hudcommon.RPCSecretEnv,
	},
	cli.IntFlag{
		Name:   "rpc-port",
		Usage:  "JSON-RPC port",
		Value:  hudcommon.DefaultRPCPort,
		EnvVar: hudcommon.RPCPortEnv,
	},
	cli.BoolFlag{
		Name:  "rpc-listen-all",
		Usage: "bind the JSON-RPC endpoint on all interfaces",
	},
	cli.StringFlag{
		Name:  "log-format",
		Usage: "text or json",
		Value: "text",
	},
}

func renderer(ctx *cli.Context) error {
	surface := ctx.String("surface")
	switch surface {
	case "", config.SurfaceAuto, config.SurfaceTerminal, config.SurfaceLog:
	default:
		return common.PrintErrWithCmdHelp(ctx, errInvalidSurface)
	}

	dir, err := config.Dir()
	if err != nil {
		common.PrintRuntimeErr(ctx, "renderer", "config_dir", err)
		return nil
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		common.PrintRuntimeErr(ctx, "renderer", "config_dir", err)
		return nil
	}

	l, logFile, err := newRendererLogger(ctx.String("log-format"), dir)
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	defer logFile.Close()
	defer l.Close()

	if err := claimPidFile(dir); err != nil {
		common.PrintRuntimeErr(ctx, "renderer", "pidfile", err)
		return nil
	}
	defer func() {
		if err := RemovePidFile(dir); err != nil {
			l.Warning("renderer: removing PID file: %v", err)
		}
	}()

	opts := rendererOptions{
		ConfigDir: dir,
		Fs:        afero.NewOsFs(),
		Surface:   surface,
		Out:       os.Stdout,
		Port:      ctx.Int("port"),
		Watch:     true,
	}
	if secret := ctx.String("rpc-secret"); secret != "" {
		opts.RPC = &server.RPCConfig{
			Secret:    secret,
			ListenAll: ctx.Bool("rpc-listen-all"),
			Port:      ctx.Int("rpc-port"),
			Version:   currentBuildArgs.Version,
			Commit:    currentBuildArgs.Commit,
			BuildType: currentBuildArgs.BuildType,
		}
	}

	comps, err := initRendererComponents(opts, l)
	if err != nil {
		l.Error("renderer: %v", err)
		common.PrintRuntimeErr(ctx, "renderer", "init", err)
		return nil
	}

	sigCtx, cancel := setupShutdownHandler()
	defer cancel()

	runErr := comps.Run(sigCtx)
	if err := comps.Close(); err != nil {
		l.Error("renderer: shutdown: %v", err)
	}
	return runErr
}

// newRendererLogger logs to stderr and to renderer.log in dir. The file is
// the only record when the renderer was spawned detached by a client.
func newRendererLogger(format, dir string) (logger.Logger, io.Closer, error) {
	var build func(io.Writer) logger.Logger
	switch format {
	case "", "text":
		build = func(w io.Writer) logger.Logger {
			return logger.NewStandardLogger(log.New(w, "", log.LstdFlags))
		}
	case "json":
		build = func(w io.Writer) logger.Logger {
			return logger.NewSlogLogger(w, "INFO", "renderer")
		}
	default:
		return nil, nil, fmt.Errorf("%w: %q", errInvalidLogFormat, format)
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return logger.NewMultiLogger(build(os.Stderr), build(f)), f, nil
}
