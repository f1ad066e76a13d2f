package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"
	"github.com/dctransfer/dctransfer/cmd/common"
	"github.com/dctransfer/dctransfer/pkg/warpcli"
)

var (
	addSize     int64
	addTTH      string
	addPriority int

	addFlags = []cli.Flag{
		cli.Int64Flag{
			Name:        "size, s",
			Usage:       "expected size of the file in bytes",
			Destination: &addSize,
		},
		cli.StringFlag{
			Name:        "tth, t",
			Usage:       "Tiger Tree Hash (TTH) content identifier of the file",
			Destination: &addTTH,
		},
		cli.IntFlag{
			Name:        "priority, p",
			Usage:       "queue priority, 0 (lowest) to 4 (highest)",
			Destination: &addPriority,
		},
	}
)

func add(ctx *cli.Context) error {
	target := ctx.Args().First()
	if target == "" {
		if ctx.Command.Name == "" {
			return common.Help(ctx)
		}
		return common.PrintErrWithCmdHelp(ctx, errors.New("no target path provided"))
	} else if target == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if addTTH == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("--tth is required"))
	}
	if addSize <= 0 {
		return common.PrintErrWithCmdHelp(ctx, errors.New("--size must be positive"))
	}

	client, err := getClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "add", "new_client", err)
		return nil
	}
	defer client.Close()

	resp, err := client.AddFile(target, addSize, addTTH, &warpcli.AddFileOpts{
		Priority: int32(addPriority),
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "add", "queue_add", err)
		return nil
	}
	fmt.Printf("Queued %s\nDownload id: %s\n", target, resp.DownloadId)
	return nil
}
