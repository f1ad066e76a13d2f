package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"
	"github.com/dctransfer/dctransfer/cmd/common"
	sharedcommon "github.com/dctransfer/dctransfer/common"
)

func attach(ctx *cli.Context) error {
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
		common.PrintRuntimeErr(ctx, "attach", "new_client", err)
		return nil
	}

	info, err := client.Attach(id)
	if err != nil {
		common.PrintRuntimeErr(ctx, "attach", "attach", err)
		return nil
	}
	fmt.Printf("Attached to %s (%s, %d%%)\n", info.Target, info.Status, info.Percentage)

	client.AddHandler(sharedcommon.UPDATE_QUEUE_STATUS, statusHandler())
	return client.Listen()
}
