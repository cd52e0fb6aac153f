package cmd

import (
	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlfrag/pkg/dialect"
	"github.com/pseudomuto/sqlfrag/pkg/query"
	"github.com/urfave/cli/v3"
)

func dialectFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "dialect",
		Aliases: []string{"d"},
		Usage:   "SQL dialect (mysql, postgres, sqlite, clickhouse); overrides sqlfrag.yaml",
		Config: cli.StringConfig{
			TrimSpace: true,
		},
	}
}

// resolveClient returns a client for the --dialect flag when it is set, and
// the configured client otherwise.
func resolveClient(cmd *cli.Command, client *query.Client) (*query.Client, error) {
	name := cmd.String("dialect")
	if name == "" {
		if client == nil {
			return query.NewClient(nil), nil
		}

		return client, nil
	}

	d, err := dialect.New(name)
	if err != nil {
		return nil, errors.Wrap(err, "invalid --dialect")
	}

	return query.NewClient(d), nil
}
