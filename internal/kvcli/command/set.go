package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvs/internal/kvclient"
)

// SetCommand returns the "set" subcommand.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "insert or overwrite a key",
		ArgsUsage: "KEY VALUE",
		Action:    runSet,
	}
}

func runSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("set: expected exactly two arguments, KEY and VALUE")
	}
	key := c.Args().Get(0)
	value := c.Args().Get(1)

	client, err := kvclient.Connect(c.String("addr"))
	if err != nil {
		return err
	}
	defer client.Close()

	return client.Set(key, value)
}
