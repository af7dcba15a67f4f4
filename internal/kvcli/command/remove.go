package command

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvs/internal/kvclient"
	"github.com/yndnr/kvs/internal/storage"
)

// RemoveCommand returns the "rm" subcommand.
func RemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "remove a key",
		ArgsUsage: "KEY",
		Action:    runRemove,
	}
}

func runRemove(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("rm: expected exactly one argument, KEY")
	}
	key := c.Args().Get(0)

	client, err := kvclient.Connect(c.String("addr"))
	if err != nil {
		return err
	}
	defer client.Close()

	err = client.Remove(key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		// Printed to stderr directly, bypassing the cli package's own
		// "error: ..." framing, so the message on the wire is exactly
		// what callers scripting against this CLI expect.
		fmt.Fprintln(os.Stderr, "Key not found")
		os.Exit(1)
	}
	return err
}
