package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/pseudomuto/sqlfrag/pkg/config"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func testApp(cfg *config.Config, version *Version) (*cli.Command, *bytes.Buffer) {
	var buf bytes.Buffer

	wrap := wrapCmd(nil)
	wrap.Writer = &buf

	app := newApp([]*cli.Command{wrap}, cfg, version)
	app.Writer = &buf
	return app, &buf
}

func TestNewApp(t *testing.T) {
	t.Cleanup(func() { slog.SetLogLoggerLevel(slog.LevelInfo) })
	ctx := context.Background()

	t.Run("metadata", func(t *testing.T) {
		app, _ := testApp(nil, &Version{Version: "1.2.3"})
		require.Equal(t, "sqlfrag", app.Name)
		require.Equal(t, "1.2.3", app.Version)
	})

	t.Run("runs subcommands", func(t *testing.T) {
		app, buf := testApp(nil, nil)
		require.NoError(t, app.Run(ctx, []string{"sqlfrag", "wrap", "users"}))
		require.Equal(t, "`users`\n", buf.String())
		require.False(t, slog.Default().Enabled(ctx, slog.LevelDebug))
	})

	t.Run("verbose enables debug logging", func(t *testing.T) {
		app, _ := testApp(nil, nil)
		require.NoError(t, app.Run(ctx, []string{"sqlfrag", "--verbose", "wrap", "users"}))
		require.True(t, slog.Default().Enabled(ctx, slog.LevelDebug))
	})

	t.Run("configured log level", func(t *testing.T) {
		app, _ := testApp(&config.Config{LogLevel: "error"}, nil)
		require.NoError(t, app.Run(ctx, []string{"sqlfrag", "wrap", "users"}))
		require.False(t, slog.Default().Enabled(ctx, slog.LevelWarn))
	})
}
