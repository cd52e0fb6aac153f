package consts

import "os"

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// DefaultConfigFile is the project configuration file looked up in the
	// working directory.
	DefaultConfigFile = "sqlfrag.yaml"

	// DefaultDialect is used when the configuration does not name one.
	DefaultDialect = "mysql"

	// DefaultLogLevel is used when the configuration does not set log_level.
	DefaultLogLevel = "info"
)
