package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"
	"github.com/dctransfer/dctransfer/cmd/common"
)

func resume(ctx *cli.Context) error {
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
		common.PrintRuntimeErr(ctx, "resume", "new_client", err)
		return nil
	}
	defer client.Close()

	if err := client.QueueResume(id); err != nil {
		common.PrintRuntimeErr(ctx, "resume", "queue_resume", err)
		return nil
	}
	fmt.Printf("Resumed %s.\n", id)
	return nil
}
