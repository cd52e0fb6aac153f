// Package cmd provides CLI commands for the sqlfrag tool.
//
// # Available Commands
//
// The cmd package currently provides:
//   - wrap: Quote identifiers for a dialect
//   - render: Compile a YAML query document to parameterized SQL
//
// # Command Structure
//
// Each command is implemented as a separate function that returns a
// *cli.Command, following the urfave/cli/v3 pattern. Commands are provided to
// the fx group "commands" by Module and registered on the root application by
// Run.
//
// # Global Options
//
// All commands support global flags:
//   - --verbose, -v: Enable debug logging
//   - --help, -h: Display command help
//   - --version: Display version information
//
// # Configuration
//
// When sqlfrag.yaml exists in the working directory it supplies the default
// dialect, strict mode and log level. The --dialect flag of each command
// overrides the configured dialect.
//
// # Example Usage
//
//	sqlfrag wrap users.id "orders as o"           # `users`.`id`, `orders` as `o`
//	sqlfrag wrap --dialect postgres users.id      # "users"."id"
//	sqlfrag render query.yaml                     # SQL plus a bindings comment
//	sqlfrag render -d sqlite -o out.sql query.yaml
package cmd
