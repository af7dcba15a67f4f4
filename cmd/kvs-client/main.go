// Package main provides the entry point for kvs-client.
//
// kvs-client is the command-line client for the kvs key/value store,
// talking to a running kvs-server over its TCP protocol.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/kvs/internal/kvcli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
