package config

import (
	"os"

	"github.com/pseudomuto/sqlfrag/pkg/consts"
	"github.com/pseudomuto/sqlfrag/pkg/query"
	"go.uber.org/fx"
)

var Module = fx.Module("config", fx.Provide(
	// Loads sqlfrag.yaml when it exists. Returns nil otherwise, which every
	// consumer treats as the default configuration.
	func() (*Config, error) {
		if _, err := os.Stat(consts.DefaultConfigFile); os.IsNotExist(err) {
			return nil, nil
		}

		return LoadConfigFile(consts.DefaultConfigFile)
	},
	func(c *Config) (*query.Client, error) {
		return c.NewClient()
	},
))
