package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"
	"github.com/dctransfer/dctransfer/cmd/common"
)

var (
	forceFlush  bool
	hashToFlush string

	flsFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "force, f",
			Usage:       "flush never asks for confirmation, so this flag has no effect (default: false)",
			Destination: &forceFlush,
		},
	}
)

func flush(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) == 1 {
		hashToFlush = args[0]
	} else if len(args) > 1 {
		return common.PrintErrWithCmdHelp(ctx, errors.New("invalid amount of arguments"))
	}

	client, err := getClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "flush", "new_client", err)
		return nil
	}
	defer client.Close()

	if hashToFlush != "" {
		if err := client.QueueRemove(hashToFlush); err != nil {
			common.PrintRuntimeErr(ctx, "flush", "remove", err)
			return nil
		}
		fmt.Printf("Flushed %s\n", hashToFlush)
		return nil
	}

	l, err := client.QueueList()
	if err != nil {
		common.PrintRuntimeErr(ctx, "flush", "get_list", err)
		return nil
	}
	var n int
	for _, b := range l.Bundles {
		if b.Status != "finished" {
			continue
		}
		if err := client.QueueRemove(b.DownloadId); err != nil {
			common.PrintRuntimeErr(ctx, "flush", "remove", err)
			continue
		}
		n++
	}
	fmt.Printf("Flushed %d completed bundle(s).\n", n)
	return nil
}
