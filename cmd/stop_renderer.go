package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
	"github.com/warpdl/warphud/cmd/common"
	"github.com/warpdl/warphud/internal/config"
)

func stopRenderer(ctx *cli.Context) error {
	dir, err := config.Dir()
	if err != nil {
		common.PrintRuntimeErr(ctx, "stop-renderer", "config_dir", err)
		return nil
	}
	pid, err := ReadPidFile(dir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("Renderer is not running (PID file not found)")
			return nil
		}
		common.PrintRuntimeErr(ctx, "stop-renderer", "read_pid", err)
		return nil
	}

	fmt.Printf("Stopping renderer (PID %d)...\n", pid)
	if err := killRenderer(pid); err != nil {
		common.PrintRuntimeErr(ctx, "stop-renderer", "kill", err)
		return nil
	}
	// The renderer removes its own PID file; a killed one leaves it behind.
	_ = RemovePidFile(dir)
	fmt.Println("Renderer stopped")
	return nil
}
