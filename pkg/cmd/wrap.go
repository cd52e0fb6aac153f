package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlfrag/pkg/format"
	"github.com/pseudomuto/sqlfrag/pkg/query"
	"github.com/urfave/cli/v3"
)

// wrapCmd creates a CLI command that quotes identifiers for a dialect, one per
// output line. Dotted paths and `as` aliases are handled the same way the
// query compiler handles them.
//
// Examples:
//
//	# `users`.`id`
//	sqlfrag wrap users.id
//
//	# "orders" as "o"
//	sqlfrag wrap --dialect postgres "orders as o"
func wrapCmd(client *query.Client) *cli.Command {
	return &cli.Command{
		Name:      "wrap",
		Usage:     "Quote identifiers for a SQL dialect",
		ArgsUsage: "<identifier>...",
		Flags:     []cli.Flag{dialectFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return errors.New("at least one identifier is required")
			}

			c, err := resolveClient(cmd, client)
			if err != nil {
				return err
			}

			f := c.Formatter()
			for _, id := range cmd.Args().Slice() {
				if _, err := fmt.Fprintln(cmd.Writer, f.Wrap(format.ValueOf(id))); err != nil {
					return errors.Wrap(err, "failed to write output")
				}
			}

			return errors.Wrap(f.Err(), "failed to wrap identifiers")
		},
	}
}
