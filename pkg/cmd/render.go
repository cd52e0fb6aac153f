package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlfrag/pkg/config"
	"github.com/pseudomuto/sqlfrag/pkg/consts"
	"github.com/pseudomuto/sqlfrag/pkg/dialect"
	"github.com/pseudomuto/sqlfrag/pkg/query"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// renderCmd creates a CLI command that compiles a YAML query document into
// dialect-specific SQL. The SQL is followed by a comment line listing the
// bindings in placeholder order:
//
//	select * from "users" where "id" in ($1, $2)
//	-- bindings: [1, 2]
//
// In strict mode (the default) any formatting error fails the command. With
// `strict: false` in sqlfrag.yaml the errors are logged as warnings and the
// SQL is still written.
//
// Flags:
//   - --dialect, -d: Override the configured dialect
//   - --out, -o: Write to a file instead of stdout
//
// Examples:
//
//	sqlfrag render query.yaml
//	sqlfrag render --dialect postgres --out build/query.sql query.yaml
func renderCmd(cfg *config.Config, client *query.Client) *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render a query document as parameterized SQL",
		ArgsUsage: "<query.yaml>",
		Flags: []cli.Flag{
			dialectFlag(),
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "write the rendered SQL to this file instead of stdout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("exactly one query document is required")
			}

			c, err := resolveClient(cmd, client)
			if err != nil {
				return err
			}

			path := cmd.Args().First()
			doc, err := query.ParseDocumentFile(path)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := renderDocument(&buf, doc, c, cfg.IsStrict()); err != nil {
				return errors.Wrapf(err, "failed to render %s", path)
			}

			return writeOutput(cmd.String("out"), buf.Bytes(), cmd.Writer)
		},
	}
}

func renderDocument(w io.Writer, doc *query.Document, c *query.Client, strict bool) error {
	b, err := doc.Build(c)
	if err != nil {
		return err
	}

	compiled, err := b.ToSQL()
	if err != nil {
		if strict || compiled.SQL == "" {
			return err
		}

		slog.Warn("Rendered query with formatting errors", "err", err)
	}

	sql, err := dialect.Rebind(c.Dialect(), compiled.SQL)
	if err != nil {
		return errors.Wrap(err, "failed to rebind placeholders")
	}

	bindings, err := flowList(compiled.Bindings)
	if err != nil {
		return err
	}

	slog.Debug("Rendered query", "dialect", c.Dialect().Name(), "bindings", len(compiled.Bindings))

	_, err = io.WriteString(w, sql+"\n-- bindings: "+bindings+"\n")
	return err
}

// flowList encodes values as a single-line YAML flow sequence.
func flowList(values []any) (string, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range values {
		var item yaml.Node
		if err := item.Encode(v); err != nil {
			return "", errors.Wrap(err, "failed to encode binding")
		}

		seq.Content = append(seq.Content, &item)
	}

	out, err := yaml.Marshal(seq)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode bindings")
	}

	return strings.TrimSpace(string(out)), nil
}

func writeOutput(path string, content []byte, stdout io.Writer) error {
	if path == "" {
		_, err := stdout.Write(content)
		return errors.Wrap(err, "failed to write output")
	}

	if err := os.MkdirAll(filepath.Dir(path), consts.ModeDir); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}

	if err := os.WriteFile(path, content, consts.ModeFile); err != nil {
		return errors.Wrapf(err, "failed to write file: %s", path)
	}

	slog.Info("Wrote rendered query", "path", path)
	return nil
}
