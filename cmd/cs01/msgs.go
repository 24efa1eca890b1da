package cs01

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "A minimal version-control repository tool"
	MsgRootLong        = "cs01 creates and locates repositories. Each repository keeps its control files\nin a .CS01 directory, or at the top of the directory when it is bare."
	MsgInitShort       = "Create an empty repository"
	MsgGenConfigShort  = "Generate the default configuration file"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Flag descriptions
	MsgFlagVerbose       = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig        = "Config file (default is $XDG_CONFIG_HOME/cs01/config.toml)"
	MsgFlagBare          = "Write control files directly into the target"
	MsgFlagInitialBranch = "Branch HEAD points at"
	MsgFlagDryRun        = "Show what would be written without writing it"
	MsgFlagFormat        = "Output format: auto, term, text, json, yaml"
	MsgFlagWrite         = "Write the config file instead of printing it"

	// Output
	MsgConfigWritten = "Wrote configuration to %s\n"
	MsgVersionFormat = "cs01 version %s\n  commit: %s\n  built:  %s\n"

	// Errors
	MsgErrNoCommand = "no command specified"
)

// Embedded message files
var (
	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/init-example.txt
	msgInitExampleRaw string
	MsgInitExample    = strings.TrimRight(msgInitExampleRaw, "\n")

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
