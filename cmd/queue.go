package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli"
	"github.com/dctransfer/dctransfer/cmd/common"
)

var queueCmd = cli.Command{
	Name:      "queue",
	Usage:     "inspect or reprioritize a queued bundle",
	ArgsUsage: "<download-id>",
	Subcommands: []cli.Command{
		{
			Name:      "status",
			Usage:     "show a bundle's status",
			ArgsUsage: "<download-id>",
			Action:    queueStatusAction,
			Flags:     globalFlags,
		},
		{
			Name:      "priority",
			Usage:     "set a bundle's priority",
			ArgsUsage: "<download-id> <priority>",
			Action:    queuePriorityAction,
			Flags:     globalFlags,
		},
		{
			Name:      "remove",
			Usage:     "remove a bundle from the queue",
			ArgsUsage: "<download-id>",
			Action:    queueRemoveAction,
			Flags:     globalFlags,
		},
	},
	Action: queueStatusAction,
	Flags:  globalFlags,
}

func queueStatusAction(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" || id == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := getClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "queue status", "new_client", err)
		return nil
	}
	defer client.Close()

	info, err := client.QueueStatus(id)
	if err != nil {
		common.PrintRuntimeErr(ctx, "queue status", "get_status", err)
		return nil
	}
	fmt.Printf("Target\t\t: %s\nStatus\t\t: %s\nPriority\t: %d\nProgress\t: %d%% (%d/%d bytes)\n",
		info.Target, info.Status, info.Priority, info.Percentage, info.Downloaded, info.Size)
	return nil
}

func queuePriorityAction(ctx *cli.Context) error {
	args := ctx.Args()
	if args.First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if len(args) < 2 {
		return common.PrintErrWithCmdHelp(ctx, errors.New("usage: dctransfer queue priority <download-id> <priority>"))
	}
	id := args.Get(0)
	priority, err := strconv.Atoi(args.Get(1))
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, fmt.Errorf("invalid priority %q: must be a number", args.Get(1)))
	}

	client, err := getClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "queue priority", "new_client", err)
		return nil
	}
	defer client.Close()

	if err := client.QueuePriority(id, int32(priority)); err != nil {
		common.PrintRuntimeErr(ctx, "queue priority", "set_priority", err)
		return nil
	}
	fmt.Printf("Set %s priority to %d.\n", id, priority)
	return nil
}

func queueRemoveAction(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" || id == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := getClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "queue remove", "new_client", err)
		return nil
	}
	defer client.Close()

	if err := client.QueueRemove(id); err != nil {
		common.PrintRuntimeErr(ctx, "queue remove", "remove", err)
		return nil
	}
	fmt.Printf("Removed %s.\n", id)
	return nil
}
