package leakrules

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Build the secret leak rule set from gitleaks rules"
	MsgUpdateShort     = "Fetch upstream rules and rewrite the rule set"
	MsgInspectShort    = "List the rules in an existing rule set"
	MsgSchemaShort     = "Describe the rule set file format"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgDryRunNotice   = "\nDRY RUN MODE - %s was not written\n"
	MsgWrittenFormat  = "Wrote %d rules to %s\n"
	MsgInspectSummary = "%d rules, %d with an entropy threshold\n"
	MsgNoRules        = "No rules."
	MsgVersionFormat  = "leakrules version %s\n  commit: %s\n  built:  %s\n"
	MsgEntropyAbsent  = "-"

	// Error messages
	MsgErrLoadConfig = "failed to load configuration: %w"
	MsgErrUpdate     = "failed to update rule set: %w"
	MsgErrInspect    = "failed to inspect rule set: %w"

	// Flag descriptions
	MsgFlagVerbose       = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig        = "Config file (default: leakrules.toml in the current directory)"
	MsgFlagSource        = "URL or path of the upstream rule document"
	MsgFlagOutput        = "Path of the rule set to write"
	MsgFlagFormat        = "Upstream document format: auto, toml or yaml"
	MsgFlagExclude       = "Rule id to drop (repeatable, replaces the configured list)"
	MsgFlagMissingFields = "What to do with rules lacking id or description: fail or skip"
	MsgFlagTimeout       = "Download timeout"
	MsgFlagDryRun        = "Show the result without writing the rule set"
	MsgFlagQuiet         = "Do not print the summary table"
	MsgFlagRaw           = "Print the markdown source"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/update-long.txt
	msgUpdateLongRaw string
	MsgUpdateLong    = strings.TrimSpace(msgUpdateLongRaw)

	//go:embed msgs/update-example.txt
	msgUpdateExampleRaw string
	MsgUpdateExample    = strings.TrimRight(msgUpdateExampleRaw, "\n")

	//go:embed msgs/inspect-long.txt
	msgInspectLongRaw string
	MsgInspectLong    = strings.TrimSpace(msgInspectLongRaw)

	//go:embed msgs/schema.md
	MsgSchemaDoc string
)
