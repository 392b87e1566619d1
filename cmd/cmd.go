package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"
	"github.com/warpdl/warphud/cmd/common"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

// currentBuildArgs is reported by the renderer's system.getVersion.
var currentBuildArgs BuildArgs

func Execute(args []string, bArgs BuildArgs) error {
	currentBuildArgs = bArgs
	app := cli.App{
		Name:                  "warphud",
		HelpName:              "warphud",
		Usage:                 "A shared on-screen overlay for local programs.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "warphud <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:               "renderer",
				Aliases:            []string{"daemon"},
				Usage:              "run the overlay renderer",
				Description:        RendererDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             renderer,
				Flags:              rendererFlags,
			},
			{
				Name:               "stop-renderer",
				Usage:              "stop the running renderer",
				Description:        StopRendererDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             stopRenderer,
			},
			{
				Name:               "toggle",
				Aliases:            []string{"t"},
				Usage:              "show or hide the overlay",
				Description:        ToggleDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             toggle,
			},
			{
				Name:                   "show",
				Aliases:                []string{"s"},
				Usage:                  "put text on the overlay",
				UsageText:              "show [--period d] [--lines n] [text...]",
				Description:            ShowDescription,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				OnUsageError:           common.UsageErrorCallback,
				Action:                 show,
				Flags:                  showFlags,
				UseShortOptionHandling: true,
			},
			{
				Name:               "config",
				Usage:              "manage the renderer config file",
				Description:        ConfigDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Subcommands: []cli.Command{
					{
						Name:         "init",
						Usage:        "write the default config file",
						OnUsageError: common.UsageErrorCallback,
						Action:       configInit,
						Flags:        configInitFlags,
					},
					{
						Name:   "path",
						Usage:  "print the config file location",
						Action: configPath,
					},
				},
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of warphud",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      common.Help,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
