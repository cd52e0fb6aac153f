package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pseudomuto/sqlfrag/pkg/config"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Config     *config.Config
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Shutdowner fx.Shutdowner
		Version    *Version
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run registers the sqlfrag CLI application with the fx lifecycle. The app
// runs once fx starts and shuts the application down with its exit code.
//
// Global Flags:
//   - --verbose, -v: Enable debug logging (overrides log_level)
//
// Example usage:
//
//	sqlfrag wrap users.id "orders as o"
//	sqlfrag --verbose render --dialect postgres query.yaml
func Run(p Params) {
	app := newApp(p.Commands, p.Config, p.Version)

	p.Lifecycle.Append(fx.StartHook(func() {
		if err := app.Run(p.Ctx, p.Args); err != nil {
			slog.Error("Error running command", "err", err)
			_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
			return
		}

		_ = p.Shutdowner.Shutdown(fx.ExitCode(0))
	}))
}

func newApp(commands []*cli.Command, cfg *config.Config, version *Version) *cli.Command {
	if version == nil {
		version = &Version{}
	}

	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", version.Timestamp)
	}

	return &cli.Command{
		Name:  "sqlfrag",
		Usage: "Render safely parameterized SQL",
		Description: `sqlfrag quotes identifiers and renders declarative query documents as
parameterized SQL for mysql, postgres, sqlite and clickhouse.`,
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := cfg.Level()
			if cmd.Bool("verbose") {
				level = slog.LevelDebug
			}

			slog.SetLogLoggerLevel(level)
			return ctx, nil
		},
		Commands: commands,
	}
}
