package cmd

import (
	"fmt"

	"github.com/urfave/cli"
	"github.com/dctransfer/dctransfer/cmd/common"
)

func list(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := getClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "list", "new_client", err)
		return nil
	}
	defer client.Close()

	l, err := client.QueueList()
	if err != nil {
		common.PrintRuntimeErr(ctx, "list", "get_list", err)
		return nil
	}
	if len(l.Bundles) == 0 {
		fmt.Println("dctransfer: no bundles queued")
		return nil
	}

	txt := "Here are your bundles:"
	txt += "\n-----------------------------------------------------------------"
	txt += "\n|         Target          | Download Id | Status  | Percentage |"
	txt += "\n|--------------------------|-------------|---------|------------|"
	for _, b := range l.Bundles {
		target := b.Target
		n := len(target)
		switch {
		case n > 24:
			target = target[:21] + "..."
		case n < 24:
			target = common.Beaut(target, 24)
		}
		perc := fmt.Sprintf("%d%%", b.Percentage)
		txt += fmt.Sprintf("\n| %s | %s |  %s |    %s   |", target, b.DownloadId, common.Beaut(b.Status, 7), common.Beaut(perc, 4))
	}
	txt += "\n-----------------------------------------------------------------"
	fmt.Println(txt)
	return nil
}
