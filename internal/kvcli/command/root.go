// Package command provides CLI command definitions for kvs-client.
//
// It uses urfave/cli/v2 for flag and subcommand parsing.
package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvs/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "kvs-client",
		Usage:   "command-line client for the kvs key/value store",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			GetCommand(),
			SetCommand(),
			RemoveCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Aliases: []string{"a"},
			Usage:   "kvs-server address",
			EnvVars: []string{"KVS_ADDR"},
			Value:   "127.0.0.1:4000",
		},
	}
}
