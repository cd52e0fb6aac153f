package cmd

import "go.uber.org/fx"

var Module = fx.Module("cli",
	fx.Provide(
		fx.Annotate(renderCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(wrapCmd, fx.ResultTags(`group:"commands"`)),
	),
	fx.Invoke(Run),
)
