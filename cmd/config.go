package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"github.com/warpdl/warphud/cmd/common"
	"github.com/warpdl/warphud/internal/config"
)

// configFs is replaced in tests.
var configFs = afero.NewOsFs()

var configInitFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "force, f",
		Usage: "overwrite an existing config file",
	},
}

func configInit(ctx *cli.Context) error {
	dir, err := config.Dir()
	if err != nil {
		common.PrintRuntimeErr(ctx, "config", "init", err)
		return nil
	}
	path := config.Path(dir)
	exists, err := afero.Exists(configFs, path)
	if err != nil {
		common.PrintRuntimeErr(ctx, "config", "init", err)
		return nil
	}
	if exists && !ctx.Bool("force") {
		common.PrintRuntimeErr(ctx, "config", "init", fmt.Errorf("%w: %s", errConfigExists, path))
		return nil
	}
	if err := config.Save(configFs, dir, config.Default()); err != nil {
		common.PrintRuntimeErr(ctx, "config", "init", err)
		return nil
	}
	fmt.Println("Wrote", path)
	return nil
}

func configPath(ctx *cli.Context) error {
	dir, err := config.Dir()
	if err != nil {
		common.PrintRuntimeErr(ctx, "config", "path", err)
		return nil
	}
	fmt.Println(config.Path(dir))
	return nil
}
