package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvs/internal/kvclient"
)

// GetCommand returns the "get" subcommand.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "print the value for a key",
		ArgsUsage: "KEY",
		Action:    runGet,
	}
}

func runGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("get: expected exactly one argument, KEY")
	}
	key := c.Args().Get(0)

	client, err := kvclient.Connect(c.String("addr"))
	if err != nil {
		return err
	}
	defer client.Close()

	value, found, err := client.Get(key)
	if err != nil {
		return err
	}

	if !found {
		fmt.Println("Key not found")
		return nil
	}
	fmt.Println(value)
	return nil
}
