package cmd

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`

const DESCRIPTION = `
warphud draws a small always-on-top text overlay that any number of
local programs can write to. One renderer process owns the screen;
clients connect to it, push their entries and are cleaned up
automatically when they exit.
`

const (
	RendererDescription = `The renderer command runs the overlay process in the
foreground. Clients start one on demand, so running it by hand is
only needed to pick a surface or enable the JSON-RPC endpoint.

Example:
        warphud renderer --surface terminal
        warphud renderer --rpc-secret s3cret --rpc-port 4850

`
	StopRendererDescription = `The stop-renderer command asks the running renderer to
exit and waits for it to do so.

Example:
        warphud stop-renderer

`
	ToggleDescription = `The toggle command hides the overlay if it is shown
and shows it if it is hidden. Entries are kept either way.

Example:
        warphud toggle

`
	ShowDescription = `The show command puts text on the overlay until it is
interrupted. Without arguments it shows the most recent lines read
from standard input.

Example:
        warphud show "build running"
        tail -f build.log | warphud show --lines 3

`
	ConfigDescription = `The config command writes or locates the renderer's
config.yaml. A running renderer picks up edits without a restart,
except for the surface and require_tty settings.

Example:
        warphud config init
        warphud config path

`
)
