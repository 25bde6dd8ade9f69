package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "pcash"
	app.Usage = "PCash ledger maintenance tool"
	app.Version = fmt.Sprintf("%d", ledgerVersion)
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config, c",
			Usage:  "path to the YAML configuration file",
			EnvVar: "PCASH_CONFIG",
		},
	}
	app.Commands = []cli.Command{
		deployCommand,
		dumpCommand,
		restoreCommand,
		balancesCommand,
		depositsCommand,
		expiredCommand,
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
