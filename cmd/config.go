package cmd

import sharedcommon "github.com/dctransfer/dctransfer/common"

// DEF_PORT is the TCP fallback port the daemon listens on when the
// platform-preferred transport (unix socket / named pipe) is unavailable.
const DEF_PORT = sharedcommon.DefaultTCPPort

const DESCRIPTION = `
dctransfer is the download queue and transfer coordination core of a
peer-to-peer file sharing client compatible with the Direct Connect / ADC
protocol family. Every transfer is keyed by a TTH (tiger-tree hash) content
identifier and served from whichever peers currently have it.
`

const (
	AddDescription = `The add command queues a file bundle for download, identified
by its TTH content hash and expected size. The daemon resolves sources and
claims segments from whichever peers can serve them.

Example:
        dctransfer add --size 1048576 --tth <tth> /downloads/file.iso

`
	ListDescription = `The list command displays every bundle known to the queue
along with its download id, status and completion percentage.

Example:
        dctransfer list

`
	ResumeDescription = `The resume command clears the paused flag on a bundle,
identified by its download id, letting it resume claiming segments.

Example:
        dctransfer resume <download-id>

`
	StopDescription = `The stop command pauses a running bundle, identified by its
download id. Segments already claimed by peers are released; the bundle can
later be resumed with "dctransfer resume".

Example:
        dctransfer stop <download-id>

`
	FlushDescription = `The flush command removes completed bundles from the queue.
Pass a download id to remove one specific bundle regardless of its status.

Example:
        dctransfer flush
        dctransfer flush <download-id>

`
)

const HELP_TEMPL = `NAME:
   {{.Name}}{{if .Usage}} - {{.Usage}}{{end}}

USAGE:
   {{.UsageText}}
{{if .Description}}
DESCRIPTION:
   {{.Description}}{{end}}
COMMANDS:{{range .VisibleCategories}}{{if .Name}}
   {{.Name}}:{{range .VisibleCommands}}
     {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}
{{else}}{{range .VisibleCommands}}
   {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{end}}{{end}}
{{if .VisibleFlags}}
GLOBAL OPTIONS:
   {{range .VisibleFlags}}{{.}}
   {{end}}{{end}}
`

const CMD_HELP_TEMPL = `NAME:
   {{.HelpName}} - {{.Usage}}

USAGE:
   {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}}{{if .VisibleFlags}} [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{if .Description}}
DESCRIPTION:
   {{.Description}}{{end}}{{if .VisibleFlags}}
OPTIONS:
   {{range .VisibleFlags}}{{.}}
   {{end}}{{end}}
`
