package cmd

import (
	"context"

	"github.com/urfave/cli"
	"github.com/warpdl/warphud/cmd/common"
	hudcommon "github.com/warpdl/warphud/common"
	"github.com/warpdl/warphud/pkg/hudcli"
)

// dialRenderer is replaced in tests.
var dialRenderer = hudcli.Dial

func toggle(ctx *cli.Context) error {
	dctx, cancel := context.WithTimeout(context.Background(), 2*hudcommon.DefaultDialTimeout)
	defer cancel()
	client, err := dialRenderer(dctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "toggle", "dial", err)
		return nil
	}
	defer client.Close()
	if err := client.Send(&hudcommon.Command{Type: hudcommon.TOGGLE_VISIBILITY}); err != nil {
		common.PrintRuntimeErr(ctx, "toggle", "send", err)
	}
	return nil
}
