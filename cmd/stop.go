package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"
	"github.com/dctransfer/dctransfer/cmd/common"
)

func stop(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		if ctx.Command.Name == "" {
			return common.Help(ctx)
		}
		return common.PrintErrWithCmdHelp(ctx, errors.New("no download id provided"))
	} else if id == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := getClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "stop", "new_client", err)
		return nil
	}
	defer client.Close()

	if err := client.QueuePause(id); err != nil {
		common.PrintRuntimeErr(ctx, "stop", "queue_pause", err)
		return nil
	}
	fmt.Printf("Stopped %s.\n", id)
	return nil
}
